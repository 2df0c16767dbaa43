package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header is the request ID header, honored when the caller supplies one.
const Header = "X-Request-ID"

const contextKey = "request_id"

// Middleware tags every request with an ID and echoes it back in the
// response so log lines and client reports can be correlated.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)
		c.Next()
	}
}

// Value returns the request ID, or an empty string outside the middleware.
func Value(c *gin.Context) string {
	v, ok := c.Get(contextKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
