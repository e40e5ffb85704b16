package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hls-service/pkg/errno"
)

// ErrorBody is the body written for every rejected request.
type ErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Success writes payload with 200.
func Success(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Result writes payload with an explicit status code.
func Result(c *gin.Context, code int, payload interface{}) {
	c.JSON(code, payload)
}

// Failed writes {"status":"error","message":...}. The HTTP status and the
// message come from the errno carried by err; anything else is a 500.
func Failed(c *gin.Context, err error) {
	e := errno.From(err)
	c.JSON(e.HTTPStatus(), ErrorBody{Status: "error", Message: e.Message})
}

// Abort is Failed followed by c.Abort, for middleware.
func Abort(c *gin.Context, err error) {
	Failed(c, err)
	c.Abort()
}
