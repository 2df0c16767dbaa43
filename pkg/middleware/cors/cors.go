package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowedHeaders = "Authorization, Content-Type, X-Requested-With, X-Request-ID, X-Refresh-Token"
	exposedHeaders = "Authorization, X-Refresh-Token"
	allowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	maxAgeSeconds  = "600"
)

// New returns a CORS middleware restricted to the given origins. An empty
// list allows every origin. The token headers are exposed so browser
// clients can read the refreshed pair after login.
func New(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[normalize(o)] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Vary", "Origin")

		if origin := c.GetHeader("Origin"); origin != "" {
			if permitted(allowed, origin) {
				h.Set("Access-Control-Allow-Origin", origin)
			}
		} else if len(allowed) == 0 {
			h.Set("Access-Control-Allow-Origin", "*")
		}

		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Headers", allowedHeaders)
		h.Set("Access-Control-Expose-Headers", exposedHeaders)
		h.Set("Access-Control-Allow-Methods", allowedMethods)
		h.Set("Access-Control-Max-Age", maxAgeSeconds)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func permitted(allowed map[string]struct{}, origin string) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[normalize(origin)]
	return ok
}

func normalize(origin string) string {
	return strings.TrimRight(origin, "/")
}
