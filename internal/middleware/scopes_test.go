package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/applepeerke/fishing-sub000/internal/models"
)

func scopedRouter(session *models.SessionData, required ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/guarded",
		func(c *gin.Context) {
			if session != nil {
				c.Set(ContextSessionKey, session)
			}
		},
		RequireScopes(required...),
		func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return router
}

func get(router *gin.Engine) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	return recorder
}

func TestRequireScopesWithoutSession(t *testing.T) {
	router := scopedRouter(nil, "fish_read")
	assert.Equal(t, http.StatusUnauthorized, get(router).Code)
}

func TestRequireScopesInsufficient(t *testing.T) {
	session := &models.SessionData{Email: "piet@fish.org", Scopes: []string{"fish_read"}}
	router := scopedRouter(session, "user_delete")
	assert.Equal(t, http.StatusForbidden, get(router).Code)
}

func TestRequireScopesExactMatch(t *testing.T) {
	session := &models.SessionData{Email: "piet@fish.org", Scopes: []string{"fish_read"}}
	router := scopedRouter(session, "fish_read")
	assert.Equal(t, http.StatusNoContent, get(router).Code)
}

func TestRequireScopesWildcardCovers(t *testing.T) {
	session := &models.SessionData{Email: "root@fish.org", Scopes: []string{"*_*"}}
	router := scopedRouter(session, "fish_catch", "user_readall")
	assert.Equal(t, http.StatusNoContent, get(router).Code)
}

func TestRequireScopesEntityWildcard(t *testing.T) {
	session := &models.SessionData{Email: "piet@fish.org", Scopes: []string{"fish_*"}}

	assert.Equal(t, http.StatusNoContent, get(scopedRouter(session, "fish_catch")).Code)
	assert.Equal(t, http.StatusForbidden, get(scopedRouter(session, "user_read")).Code)
}
