package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applepeerke/fishing-sub000/internal/models"
	"github.com/applepeerke/fishing-sub000/internal/service"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
	"github.com/applepeerke/fishing-sub000/pkg/response"
)

// GrantHandler wires HTTP endpoints to the grant service.
type GrantHandler struct {
	service *service.GrantService
}

// NewGrantHandler creates a new handler.
func NewGrantHandler(svc *service.GrantService) *GrantHandler {
	return &GrantHandler{service: svc}
}

// CreateRole godoc
// @Summary Create a role
// @Tags Grants
// @Accept json
// @Produce json
// @Param payload body models.Role true "Role"
// @Success 201 {object} response.Envelope
// @Router /roles [post]
func (h *GrantHandler) CreateRole(c *gin.Context) {
	var role models.Role
	if err := c.ShouldBindJSON(&role); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "invalid role payload"))
		return
	}
	if err := h.service.CreateRole(c.Request.Context(), &role); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, role)
}

// ListRoles godoc
// @Summary List roles
// @Tags Grants
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roles [get]
func (h *GrantHandler) ListRoles(c *gin.Context) {
	skip, limit := pageParams(c)
	roles, err := h.service.ListRoles(c.Request.Context(), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roles, nil)
}

// DeleteRole godoc
// @Summary Delete a role
// @Tags Grants
// @Param id path string true "Role id"
// @Success 204 {object} response.Envelope
// @Router /roles/{id} [delete]
func (h *GrantHandler) DeleteRole(c *gin.Context) {
	if err := h.service.DeleteRole(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateACL godoc
// @Summary Create an acl
// @Tags Grants
// @Accept json
// @Produce json
// @Param payload body models.ACL true "ACL"
// @Success 201 {object} response.Envelope
// @Router /acls [post]
func (h *GrantHandler) CreateACL(c *gin.Context) {
	var acl models.ACL
	if err := c.ShouldBindJSON(&acl); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "invalid acl payload"))
		return
	}
	if err := h.service.CreateACL(c.Request.Context(), &acl); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, acl)
}

// ListACLs godoc
// @Summary List acls
// @Tags Grants
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /acls [get]
func (h *GrantHandler) ListACLs(c *gin.Context) {
	skip, limit := pageParams(c)
	acls, err := h.service.ListACLs(c.Request.Context(), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, acls, nil)
}

// DeleteACL godoc
// @Summary Delete an acl
// @Tags Grants
// @Param id path string true "ACL id"
// @Success 204 {object} response.Envelope
// @Router /acls/{id} [delete]
func (h *GrantHandler) DeleteACL(c *gin.Context) {
	if err := h.service.DeleteACL(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateScope godoc
// @Summary Create a scope
// @Tags Grants
// @Accept json
// @Produce json
// @Param payload body models.Scope true "Scope"
// @Success 201 {object} response.Envelope
// @Router /scopes [post]
func (h *GrantHandler) CreateScope(c *gin.Context) {
	var scope models.Scope
	if err := c.ShouldBindJSON(&scope); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "invalid scope payload"))
		return
	}
	if err := h.service.CreateScope(c.Request.Context(), &scope); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, scope)
}

// ListScopes godoc
// @Summary List scopes
// @Tags Grants
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /scopes [get]
func (h *GrantHandler) ListScopes(c *gin.Context) {
	skip, limit := pageParams(c)
	scopes, err := h.service.ListScopes(c.Request.Context(), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scopes, nil)
}

// UpdateScope godoc
// @Summary Update a scope
// @Tags Grants
// @Accept json
// @Produce json
// @Param id path string true "Scope id"
// @Param payload body models.Scope true "Scope"
// @Success 200 {object} response.Envelope
// @Router /scopes/{id} [put]
func (h *GrantHandler) UpdateScope(c *gin.Context) {
	var scope models.Scope
	if err := c.ShouldBindJSON(&scope); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "invalid scope payload"))
		return
	}
	scope.ID = c.Param("id")
	if err := h.service.UpdateScope(c.Request.Context(), &scope); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scope, nil)
}

// DeleteScope godoc
// @Summary Delete a scope
// @Tags Grants
// @Param id path string true "Scope id"
// @Success 204 {object} response.Envelope
// @Router /scopes/{id} [delete]
func (h *GrantHandler) DeleteScope(c *gin.Context) {
	if err := h.service.DeleteScope(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AttachRole godoc
// @Summary Attach a role to a user
// @Tags Grants
// @Param id path string true "User id"
// @Param roleId path string true "Role id"
// @Success 204 {object} response.Envelope
// @Router /users/{id}/roles/{roleId} [put]
func (h *GrantHandler) AttachRole(c *gin.Context) {
	if err := h.service.AttachRole(c.Request.Context(), c.Param("id"), c.Param("roleId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DetachRole godoc
// @Summary Detach a role from a user
// @Tags Grants
// @Param id path string true "User id"
// @Param roleId path string true "Role id"
// @Success 204 {object} response.Envelope
// @Router /users/{id}/roles/{roleId} [delete]
func (h *GrantHandler) DetachRole(c *gin.Context) {
	if err := h.service.DetachRole(c.Request.Context(), c.Param("id"), c.Param("roleId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AttachACL godoc
// @Summary Attach an acl to a role
// @Tags Grants
// @Param id path string true "Role id"
// @Param aclId path string true "ACL id"
// @Success 204 {object} response.Envelope
// @Router /roles/{id}/acls/{aclId} [put]
func (h *GrantHandler) AttachACL(c *gin.Context) {
	if err := h.service.AttachACL(c.Request.Context(), c.Param("id"), c.Param("aclId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DetachACL godoc
// @Summary Detach an acl from a role
// @Tags Grants
// @Param id path string true "Role id"
// @Param aclId path string true "ACL id"
// @Success 204 {object} response.Envelope
// @Router /roles/{id}/acls/{aclId} [delete]
func (h *GrantHandler) DetachACL(c *gin.Context) {
	if err := h.service.DetachACL(c.Request.Context(), c.Param("id"), c.Param("aclId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AttachScope godoc
// @Summary Attach a scope to an acl
// @Tags Grants
// @Param id path string true "ACL id"
// @Param scopeId path string true "Scope id"
// @Success 204 {object} response.Envelope
// @Router /acls/{id}/scopes/{scopeId} [put]
func (h *GrantHandler) AttachScope(c *gin.Context) {
	if err := h.service.AttachScope(c.Request.Context(), c.Param("id"), c.Param("scopeId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DetachScope godoc
// @Summary Detach a scope from an acl
// @Tags Grants
// @Param id path string true "ACL id"
// @Param scopeId path string true "Scope id"
// @Success 204 {object} response.Envelope
// @Router /acls/{id}/scopes/{scopeId} [delete]
func (h *GrantHandler) DetachScope(c *gin.Context) {
	if err := h.service.DetachScope(c.Request.Context(), c.Param("id"), c.Param("scopeId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
