package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applepeerke/fishing-sub000/internal/middleware"
	"github.com/applepeerke/fishing-sub000/internal/models"
	"github.com/applepeerke/fishing-sub000/internal/service"
)

type stubUserRepo struct {
	users map[string]*models.User
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.users[email]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) FindByID(_ context.Context, _ string) (*models.User, error) {
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) Update(_ context.Context, _ *models.User) error { return nil }

func (s *stubUserRepo) List(_ context.Context, _, _ int) ([]models.User, int, error) {
	return nil, 0, nil
}

func (s *stubUserRepo) Delete(_ context.Context, _ string) (bool, error) { return false, nil }

func (s *stubUserRepo) CreateAuditLog(_ context.Context, _ *models.AuditLog) error { return nil }

func meRouter(repo *stubUserRepo, session *models.SessionData) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewUserHandler(service.NewUserService(repo, nil, nil, nil))
	router := gin.New()
	router.GET("/users/me", func(c *gin.Context) {
		if session != nil {
			c.Set(middleware.ContextSessionKey, session)
		}
	}, handler.Me)
	return router
}

func TestMeReturnsOwnRecord(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*models.User{
		"piet@fish.org": {ID: "u1", Email: "piet@fish.org", Status: models.StatusLoggedIn},
	}}
	router := meRouter(repo, &models.SessionData{Email: "piet@fish.org"})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var envelope struct {
		Data models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "u1", envelope.Data.ID)
	assert.Equal(t, "piet@fish.org", envelope.Data.Email)
}

func TestMeWithoutSessionUnauthorized(t *testing.T) {
	router := meRouter(&stubUserRepo{users: map[string]*models.User{}}, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
