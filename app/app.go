package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"hls-service/ddd/adapter/component"
	hlsgrpc "hls-service/ddd/adapter/grpc"
	httpadapter "hls-service/ddd/adapter/http"
	"hls-service/pkg/config"
	"hls-service/pkg/logger"
	"hls-service/pkg/observability"
	"hls-service/pkg/registry"
	"hls-service/pkg/task"
)

const (
	serviceName     = "hls-service"
	shutdownTimeout = 30 * time.Second
)

func Run() {
	fmt.Println("[STARTUP] Starting hls service...")

	// a missing .env is normal outside development
	_ = godotenv.Load()

	cfgPath := config.ResolvePath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	fmt.Printf("[STARTUP] Config file loaded: %s\n", cfgPath)

	log, err := logger.NewLogger(cfg.Log)
	if err != nil {
		fmt.Printf("[ERROR] Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()
	log.Debug("Logger initialized", map[string]interface{}{
		"level":   cfg.Log.Level,
		"verbose": cfg.Log.Verbose,
		"output":  cfg.Log.Output,
	})

	stopProfiling := observability.StartProfiling(serviceName, log)
	defer stopProfiling()

	setGinMode(cfg.Server.Mode)

	if cfg.Download.InsecureSkipVerify {
		log.Warn("TLS certificate verification is disabled for downloads (download.insecure_skip_verify)")
	}
	if _, err := exec.LookPath(cfg.Transcode.FFmpeg.BinaryPath); err != nil {
		log.Fatal(fmt.Sprintf("FFmpeg binary not found, please install or set transcode.ffmpeg.binary_path binary=%s error=%s", cfg.Transcode.FFmpeg.BinaryPath, err.Error()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Infof("Initializing components...")
	container, err := NewContainer(ctx, cfg, log)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to initialize components error=%v", err))
	}
	defer container.Close()

	tasks := task.NewManager()
	if cfg.Cleanup.Interval > 0 && cfg.Cleanup.MaxAgeDays > 0 {
		tasks.Register(component.NewRetentionTask(container.VideoApp, cfg.Cleanup.Interval, log))
	}
	if cfg.GRPCServer.Enabled {
		grpcAddr := net.JoinHostPort(cfg.GRPCServer.Host, strconv.Itoa(cfg.GRPCServer.Port))
		tasks.Register(hlsgrpc.NewHealthServer(grpcAddr, log))
	}
	if err := tasks.StartAll(ctx); err != nil {
		log.Fatal(fmt.Sprintf("Failed to start background tasks error=%v", err))
	}
	log.Infof("Background tasks started: %v", tasks.Names())

	router := httpadapter.NewRouter(container.VideoApp, httpadapter.RouterOptions{
		APIKey:         cfg.API.Key,
		AllowedOrigins: cfg.API.AllowedOrigins,
		ServeHLS:       cfg.Server.ServeHLS && cfg.Storage.Backend == "local",
		HLSDir:         container.Layout.HLSDir,
	}, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.NewEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()
	log.Infof("HTTP server started addr=%s health_url=http://localhost:%d/health api_url=http://localhost:%d/api/v1/videos",
		cfg.Server.Addr(), cfg.Server.Port, cfg.Server.Port)

	var reg *registry.ServiceRegistry
	if cfg.ServiceRegistry.Enabled {
		reg = registerService(cfg, log)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infof("Received shutdown signal, shutting down server...")

	if reg != nil {
		if err := reg.Deregister(); err != nil {
			log.Warnf("Service deregistration failed: %v", err)
		}
	}

	tasks.StopAll()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to close error=%v", err)
	}

	log.Infof("Server exited safely")
	fmt.Println("[SHUTDOWN] hls service exited safely")
}

// registerService announces the HTTP address in etcd. Failures are logged;
// the service keeps running unregistered.
func registerService(cfg *config.Config, log *logger.Logger) *registry.ServiceRegistry {
	svc := cfg.ServiceRegistry
	host := svc.RegisterHost
	if host == "" {
		host = cfg.Server.Host
	}
	addr := net.JoinHostPort(host, strconv.Itoa(cfg.Server.Port))
	if svc.ServiceID == "" {
		hostname, _ := os.Hostname()
		svc.ServiceID = fmt.Sprintf("%s-%s-%d", svc.ServiceName, hostname, cfg.Server.Port)
	}

	reg, err := registry.NewServiceRegistry(cfg.Etcd, svc, addr, log)
	if err != nil {
		log.Warnf("Service registry unavailable: %v", err)
		return nil
	}
	if err := reg.Register(); err != nil {
		log.Warnf("Service registration failed: %v", err)
		_ = reg.Deregister()
		return nil
	}
	return reg
}

func setGinMode(mode string) {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}
