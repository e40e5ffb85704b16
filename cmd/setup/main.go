// Command setup checks a deployment: API key strength, CORS origins, storage
// directories and the encoder binary. It exits 1 when any check fails.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	appsvc "hls-service/ddd/application/app"
	"hls-service/ddd/application/dto"
	"hls-service/pkg/config"
	"hls-service/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("==============================================")
	fmt.Println("HLS service - deployment setup")
	fmt.Println("==============================================")

	cfgPath := config.ResolvePath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("ERROR: cannot load %s: %v\n", cfgPath, err)
		os.Exit(1)
	}
	fmt.Printf("Config: %s\n\n", cfgPath)

	report := appsvc.NewDiagnosticsApp(cfg, logger.Discard()).Run(context.Background())
	for _, c := range report.Checks {
		fmt.Printf("[%s] %s\n", mark(c.Status), c.Name)
		for _, d := range c.Details {
			fmt.Printf("    %s\n", d)
		}
		for _, h := range c.Hints {
			fmt.Printf("    > %s\n", h)
		}
	}

	fmt.Printf("\nSecurity score: %d/%d\n", report.Score, report.MaxScore)
	if !report.Passed() {
		fmt.Println("Issues detected; fix them before deploying.")
		os.Exit(1)
	}
	fmt.Println("All checks passed.")
}

func mark(status string) string {
	switch status {
	case dto.CheckPass:
		return " OK "
	case dto.CheckWarn:
		return "WARN"
	default:
		return "FAIL"
	}
}
