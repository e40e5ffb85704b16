package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"hls-service/pkg/config"
	"hls-service/pkg/errno"
	"hls-service/pkg/restapi"
)

// APIKeyHeader carries the shared secret.
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware rejects requests whose X-API-Key differs from key. An empty
// or placeholder key is a deployment error and every request is refused with 500.
func APIKeyMiddleware(key string) gin.HandlerFunc {
	expected := []byte(key)
	configured := key != "" && key != config.PlaceholderAPIKey
	return func(c *gin.Context) {
		if !configured {
			restapi.Abort(c, errno.ErrServerMisconfigured)
			return
		}
		provided := []byte(c.GetHeader(APIKeyHeader))
		if subtle.ConstantTimeCompare(provided, expected) != 1 {
			restapi.Abort(c, errno.ErrUnauthorized)
			return
		}
		c.Next()
	}
}
