package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"hls-service/pkg/logger"
)

// AccessLogMiddleware writes one DEBUG line per request through log.
func AccessLogMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugf("HTTP %s %s status=%d latency=%s request_id=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			time.Since(start).Round(time.Millisecond), c.GetString(RequestIDKey))
	}
}
