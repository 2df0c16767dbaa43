package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/applepeerke/fishing-sub000/internal/models"
	"github.com/applepeerke/fishing-sub000/internal/service"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
	"github.com/applepeerke/fishing-sub000/pkg/response"
)

// ContextSessionKey is the gin context key storing the decoded session.
const ContextSessionKey = "session"

// RefreshTokenHeader carries the refresh token on login responses and on
// requests wanting automatic refresh.
const RefreshTokenHeader = "X-Refresh-Token"

// Auth requires a valid bearer token whose subject is still logged in,
// and stores the decoded session data on the request context. When the
// access token is expired and a valid refresh token accompanies the
// request, a fresh token pair is minted and returned in the response
// headers.
func Auth(codec *service.TokenCodec, auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		session, err := codec.Decode(raw)
		if err != nil {
			if appErr := appErrors.FromError(err); appErr.Code != appErrors.ErrTokenExpired.Code {
				response.Error(c, err)
				c.Abort()
				return
			}
			// the refresh path verifies the account itself
			session, err = refreshSession(c, codec, auth)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
		} else if err := auth.VerifySession(c.Request.Context(), session); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", appErrors.Clone(appErrors.ErrTokenInvalid, "")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], models.TokenType) {
		return "", appErrors.Clone(appErrors.ErrTokenInvalid, "")
	}
	return parts[1], nil
}

// refreshSession is the only token-minting path outside the auth
// service's login.
func refreshSession(c *gin.Context, codec *service.TokenCodec, auth *service.AuthService) (*models.SessionData, error) {
	raw := c.GetHeader(RefreshTokenHeader)
	if raw == "" {
		return nil, appErrors.Clone(appErrors.ErrTokenExpired, "")
	}

	session, err := codec.Decode(raw)
	if err != nil {
		return nil, err
	}

	pair, err := auth.RefreshTokens(c.Request.Context(), session)
	if err != nil {
		return nil, err
	}

	c.Header("Authorization", models.TokenType+" "+pair.AccessToken)
	c.Header(RefreshTokenHeader, pair.RefreshToken)
	return session, nil
}

// Session returns the decoded session data, or nil when unauthenticated.
func Session(c *gin.Context) *models.SessionData {
	value, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil
	}
	session, ok := value.(*models.SessionData)
	if !ok {
		return nil
	}
	return session
}
