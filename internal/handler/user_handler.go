package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applepeerke/fishing-sub000/internal/service"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
	"github.com/applepeerke/fishing-sub000/pkg/response"
)

// UserHandler wires HTTP endpoints to the user admin service.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param skip query int false "Skip"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	skip, limit := pageParams(c)
	users, total, err := h.service.List(c.Request.Context(), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, &response.Pagination{Skip: skip, Limit: limit, Total: total})
}

// Me godoc
// @Summary Get the authenticated user
// @Description The session's own account record, no scope required
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrTokenInvalid, ""))
		return
	}
	user, err := h.service.GetByEmail(c.Request.Context(), session.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Get godoc
// @Summary Get one user
// @Tags Users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Blacklist godoc
// @Summary Blacklist a user
// @Description Terminal state, the account can never be used again
// @Tags Users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id}/blacklist [post]
func (h *UserHandler) Blacklist(c *gin.Context) {
	if err := h.service.Blacklist(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "blacklisted"}, nil)
}

// Delete godoc
// @Summary Delete a user
// @Tags Users
// @Produce json
// @Param id path string true "User id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
