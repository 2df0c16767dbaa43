package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applepeerke/fishing-sub000/internal/models"
	"github.com/applepeerke/fishing-sub000/internal/service"
	"github.com/applepeerke/fishing-sub000/pkg/config"
)

func testCodec() *service.TokenCodec {
	return service.NewTokenCodec(config.JWTConfig{
		SecretKey:     "test-secret",
		Algorithm:     "HS256",
		AccessExpiry:  900 * time.Second,
		RefreshExpiry: 30 * 24 * time.Hour,
	})
}

type userStore struct {
	users map[string]*models.User
}

func (s *userStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (s *userStore) Create(_ context.Context, user *models.User) error {
	clone := *user
	s.users[user.Email] = &clone
	return nil
}

func (s *userStore) Update(_ context.Context, user *models.User) error {
	clone := *user
	s.users[user.Email] = &clone
	return nil
}

func (s *userStore) CreateAuditLog(_ context.Context, _ *models.AuditLog) error { return nil }

func loggedInUser(email string) *models.User {
	exp := time.Now().UTC().Add(30 * 24 * time.Hour)
	return &models.User{
		Email:                  email,
		Status:                 models.StatusLoggedIn,
		RefreshTokenExpiration: &exp,
	}
}

func guardedRouter(codec *service.TokenCodec, users ...*models.User) (*gin.Engine, *models.SessionData) {
	gin.SetMode(gin.TestMode)
	store := &userStore{users: make(map[string]*models.User)}
	for _, user := range users {
		store.users[user.Email] = user
	}
	auth := service.NewAuthService(store, nil, codec, nil, nil, nil, nil, service.AuthConfig{})

	seen := &models.SessionData{}
	router := gin.New()
	router.GET("/guarded", Auth(codec, auth), func(c *gin.Context) {
		if session := Session(c); session != nil {
			*seen = *session
		}
		c.Status(http.StatusNoContent)
	})
	return router, seen
}

func TestAuthPassesValidToken(t *testing.T) {
	codec := testCodec()
	router, seen := guardedRouter(codec, loggedInUser("piet@fish.org"))

	raw, _, err := codec.EncodeAccess("piet@fish.org", []string{"fish_read"})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", models.TokenType+" "+raw)
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "piet@fish.org", seen.Email)
	assert.Equal(t, []string{"fish_read"}, seen.Scopes)
}

func TestAuthRejectsUnknownUser(t *testing.T) {
	codec := testCodec()
	router, _ := guardedRouter(codec)

	raw, _, err := codec.EncodeAccess("ghost@nowhere.example", nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", models.TokenType+" "+raw)
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthRejectsLoggedOutUser(t *testing.T) {
	codec := testCodec()
	user := loggedInUser("piet@fish.org")
	router, _ := guardedRouter(codec, user)

	raw, _, err := codec.EncodeAccess(user.Email, []string{"fish_read"})
	require.NoError(t, err)

	// logout returns the account to Active; the unexpired access token
	// must stop working with it
	user.Status = models.StatusActive
	user.RefreshTokenExpiration = nil

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", models.TokenType+" "+raw)
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	router, _ := guardedRouter(testCodec())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Bearer", recorder.Header().Get("WWW-Authenticate"))
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	router, _ := guardedRouter(testCodec())

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func expiredAccessToken(t *testing.T, email string, scopes []string) string {
	t.Helper()
	issuer := testCodec()
	issuer.WithNow(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	raw, _, err := issuer.EncodeAccess(email, scopes)
	require.NoError(t, err)
	return raw
}

func TestAuthExpiredTokenWithoutRefreshHeader(t *testing.T) {
	router, _ := guardedRouter(testCodec(), loggedInUser("piet@fish.org"))

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", models.TokenType+" "+expiredAccessToken(t, "piet@fish.org", nil))
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthExpiredTokenRefreshesSession(t *testing.T) {
	codec := testCodec()
	router, seen := guardedRouter(codec, loggedInUser("piet@fish.org"))

	refresh, _, err := codec.EncodeRefresh("piet@fish.org", []string{"fish_read"})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", models.TokenType+" "+expiredAccessToken(t, "piet@fish.org", []string{"fish_read"}))
	req.Header.Set(RefreshTokenHeader, refresh)
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "piet@fish.org", seen.Email)

	// a fresh pair comes back in the response headers
	newAuth := recorder.Header().Get("Authorization")
	assert.True(t, len(newAuth) > len(models.TokenType)+1)
	_, err = codec.Decode(newAuth[len(models.TokenType)+1:])
	assert.NoError(t, err)
	assert.NotEmpty(t, recorder.Header().Get(RefreshTokenHeader))
}

func TestAuthExpiredTokenRejectsInvalidRefreshToken(t *testing.T) {
	router, _ := guardedRouter(testCodec(), loggedInUser("piet@fish.org"))

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", models.TokenType+" "+expiredAccessToken(t, "piet@fish.org", nil))
	req.Header.Set(RefreshTokenHeader, "not-a-token")
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthExpiredTokenRefreshNeedsLoggedInUser(t *testing.T) {
	codec := testCodec()
	user := loggedInUser("piet@fish.org")
	user.Status = models.StatusActive
	user.RefreshTokenExpiration = nil
	router, _ := guardedRouter(codec, user)

	refresh, _, err := codec.EncodeRefresh("piet@fish.org", nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", models.TokenType+" "+expiredAccessToken(t, "piet@fish.org", nil))
	req.Header.Set(RefreshTokenHeader, refresh)
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
