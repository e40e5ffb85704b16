// Command cleanup runs one retention sweep and exits. Schedule it with cron
// when the in-process sweep is disabled, e.g. 0 2 * * * /usr/local/bin/hls-cleanup
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"hls-service/app"
	"hls-service/pkg/config"
	"hls-service/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	cfgPath := config.ResolvePath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		return 1
	}
	log, err := logger.NewLogger(cfg.Log)
	if err != nil {
		fmt.Printf("[ERROR] Failed to open log: %v\n", err)
		return 1
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		return 1
	}
	defer container.Close()

	fmt.Println("Starting cleanup process...")
	removed, err := container.VideoApp.CleanupOldVideos(ctx)
	if err != nil {
		fmt.Printf("Cleanup finished with errors: %v\n", err)
		return 1
	}
	fmt.Printf("Cleanup completed. %d items deleted.\n", removed)
	return 0
}
