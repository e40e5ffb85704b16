package main

import "hls-service/app"

func main() {
	app.Run()
}
