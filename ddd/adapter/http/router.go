package http

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hls-service/ddd/application/app"
	"hls-service/pkg/errno"
	"hls-service/pkg/logger"
	"hls-service/pkg/middleware"
	"hls-service/pkg/restapi"
)

// HLSRoute is where the HLS root is served when ServeHLS is on.
const HLSRoute = "/hls"

func init() {
	// the platform mime table often lacks these or maps .ts to TypeScript
	_ = mime.AddExtensionType(".m3u8", "application/vnd.apple.mpegurl")
	_ = mime.AddExtensionType(".ts", "video/mp2t")
}

// RouterOptions HTTP surface settings
type RouterOptions struct {
	APIKey         string
	AllowedOrigins []string
	ServeHLS       bool
	HLSDir         string
}

// Router 路由配置
type Router struct {
	videoApp app.VideoApp
	opts     RouterOptions
	logger   *logger.Logger
}

func NewRouter(videoApp app.VideoApp, opts RouterOptions, log *logger.Logger) *Router {
	return &Router{videoApp: videoApp, opts: opts, logger: log}
}

// NewEngine returns a gin engine with middleware and routes installed.
func (r *Router) NewEngine() *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	r.SetupMiddleware(engine)
	r.SetupRoutes(engine)
	return engine
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes(engine *gin.Engine) {
	videoController := NewVideoController(r.videoApp)
	auth := middleware.APIKeyMiddleware(r.opts.APIKey)

	v1 := engine.Group("/api/v1", auth)
	{
		v1.POST("/videos", videoController.ProcessVideo)
		v1.POST("/maintenance/cleanup", videoController.Cleanup)
	}

	// single-endpoint deployments post to the root
	engine.POST("/", auth, videoController.ProcessVideo)

	engine.GET("/health", func(c *gin.Context) {
		restapi.Success(c, gin.H{
			"status":  "ok",
			"service": "hls-service",
		})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if r.opts.ServeHLS && r.opts.HLSDir != "" {
		engine.Static(HLSRoute, r.opts.HLSDir)
	}

	engine.NoMethod(func(c *gin.Context) {
		restapi.Failed(c, errno.ErrMethodNotAllowed)
	})
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, restapi.ErrorBody{Status: "error", Message: errno.ErrNotFound.Message})
	})
}

// SetupMiddleware 设置中间件
func (r *Router) SetupMiddleware(engine *gin.Engine) {
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestContextMiddleware())
	engine.Use(middleware.AccessLogMiddleware(r.logger))
	engine.Use(middleware.MetricsMiddleware())
	engine.Use(middleware.CORSMiddleware(r.opts.AllowedOrigins))
}
