package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applepeerke/fishing-sub000/internal/middleware"
	"github.com/applepeerke/fishing-sub000/internal/models"
	"github.com/applepeerke/fishing-sub000/internal/service"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
	"github.com/applepeerke/fishing-sub000/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Register godoc
// @Summary Register a new account
// @Description Create an inactive account and mail a one-time password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Register payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "invalid register payload"))
		return
	}

	if err := h.service.Register(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"email": req.Email})
}

// Acknowledge godoc
// @Summary Acknowledge a registration
// @Description Consume the email-link token and confirm the address
// @Tags Authentication
// @Produce json
// @Param email query string true "Email"
// @Param token query string true "Acknowledge token"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/acknowledge [get]
func (h *AuthHandler) Acknowledge(c *gin.Context) {
	req := models.AcknowledgeRequest{
		Email: c.Query("email"),
		Token: c.Query("token"),
	}

	if err := h.service.Acknowledge(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"email": req.Email, "status": "acknowledged"}, nil)
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by email and password, returns bearer tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	pair, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Authorization", pair.TokenType+" "+pair.AccessToken)
	c.Header(middleware.RefreshTokenHeader, pair.RefreshToken)
	response.JSON(c, http.StatusOK, pair, nil)
}

// Logout godoc
// @Summary Logout current session
// @Description Return the account to active and strip the token headers
// @Tags Authentication
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	session := middleware.Session(c)
	if session == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrTokenInvalid, ""))
		return
	}

	if err := h.service.Logout(c.Request.Context(), models.LogoutRequest{Email: session.Email}); err != nil {
		response.Error(c, err)
		return
	}

	// both token headers are cleared, the session is gone
	c.Header("Authorization", "")
	c.Header(middleware.RefreshTokenHeader, "")
	response.NoContent(c)
}

// ChangePassword godoc
// @Summary Change password
// @Description Replace the current credential with a new one
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.ChangePasswordRequest true "Change password payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /auth/password/change [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "invalid change password payload"))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"email": req.Email, "status": "active"}, nil)
}

// ForgotPassword godoc
// @Summary Forgot password
// @Description Re-issue a one-time password and deactivate the account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.ForgotPasswordRequest true "Forgot password payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/password/forgot [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "invalid forgot password payload"))
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"email": req.Email, "status": "inactive"}, nil)
}
