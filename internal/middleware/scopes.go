package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/applepeerke/fishing-sub000/internal/service"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
	"github.com/applepeerke/fishing-sub000/pkg/response"
)

// RequireScopes enforces that the session's compiled scope set covers
// every required endpoint scope, honoring the wildcard rules.
func RequireScopes(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := Session(c)
		if session == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrTokenInvalid, ""))
			c.Abort()
			return
		}

		if !service.CoversAll(session.Scopes, required) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, ""))
			c.Abort()
			return
		}

		c.Next()
	}
}
