package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/applepeerke/fishing-sub000/internal/models"
	"github.com/applepeerke/fishing-sub000/internal/repository"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
)

// GrantService manages the role, acl and scope reference data and the
// attachments between them. Every write drops the compiled scope cache
// since any user's effective permissions may have changed.
type GrantService struct {
	grants    *repository.GrantRepository
	users     userRepository
	scopes    *ScopeService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGrantService constructs a GrantService instance.
func NewGrantService(grants *repository.GrantRepository, users userRepository, scopes *ScopeService, validate *validator.Validate, logger *zap.Logger) *GrantService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GrantService{grants: grants, users: users, scopes: scopes, validator: validate, logger: logger}
}

// CreateRole stores a new role.
func (s *GrantService) CreateRole(ctx context.Context, role *models.Role) error {
	if err := s.validator.Struct(role); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role")
	}
	if err := s.grants.CreateRole(ctx, role); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create role")
	}
	return nil
}

// ListRoles returns a page of roles.
func (s *GrantService) ListRoles(ctx context.Context, skip, limit int) ([]models.Role, error) {
	roles, err := s.grants.ListRoles(ctx, skip, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roles")
	}
	return roles, nil
}

// DeleteRole removes a role. Attachments cascade at the join level only.
func (s *GrantService) DeleteRole(ctx context.Context, id string) error {
	deleted, err := s.grants.DeleteRole(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete role")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "role not found")
	}
	s.invalidateAll(ctx)
	return nil
}

// CreateACL stores a new acl.
func (s *GrantService) CreateACL(ctx context.Context, acl *models.ACL) error {
	if err := s.validator.Struct(acl); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid acl")
	}
	if err := s.grants.CreateACL(ctx, acl); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create acl")
	}
	return nil
}

// ListACLs returns a page of acls.
func (s *GrantService) ListACLs(ctx context.Context, skip, limit int) ([]models.ACL, error) {
	acls, err := s.grants.ListACLs(ctx, skip, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list acls")
	}
	return acls, nil
}

// DeleteACL removes an acl.
func (s *GrantService) DeleteACL(ctx context.Context, id string) error {
	deleted, err := s.grants.DeleteACL(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete acl")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "acl not found")
	}
	s.invalidateAll(ctx)
	return nil
}

// CreateScope stores a new scope with its derived scope name.
func (s *GrantService) CreateScope(ctx context.Context, scope *models.Scope) error {
	if err := s.validator.Struct(scope); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scope")
	}
	if err := s.grants.CreateScope(ctx, scope); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create scope")
	}
	return nil
}

// ListScopes returns a page of scopes.
func (s *GrantService) ListScopes(ctx context.Context, skip, limit int) ([]models.Scope, error) {
	scopes, err := s.grants.ListScopes(ctx, skip, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scopes")
	}
	return scopes, nil
}

// UpdateScope rewrites a scope; the scope name is re-derived.
func (s *GrantService) UpdateScope(ctx context.Context, scope *models.Scope) error {
	if err := s.validator.Struct(scope); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scope")
	}
	if err := s.grants.UpdateScope(ctx, scope); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "scope not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update scope")
	}
	s.invalidateAll(ctx)
	return nil
}

// DeleteScope removes a scope.
func (s *GrantService) DeleteScope(ctx context.Context, id string) error {
	deleted, err := s.grants.DeleteScope(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete scope")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "scope not found")
	}
	s.invalidateAll(ctx)
	return nil
}

// AttachRole links a role to a user and drops their cached scope set.
func (s *GrantService) AttachRole(ctx context.Context, userID, roleID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if err := s.grants.AttachRoleToUser(ctx, userID, roleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach role")
	}
	s.scopes.Invalidate(ctx, user.Email)
	return nil
}

// DetachRole unlinks a role from a user.
func (s *GrantService) DetachRole(ctx context.Context, userID, roleID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if err := s.grants.DetachRoleFromUser(ctx, userID, roleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to detach role")
	}
	s.scopes.Invalidate(ctx, user.Email)
	return nil
}

// AttachACL links an acl to a role.
func (s *GrantService) AttachACL(ctx context.Context, roleID, aclID string) error {
	if err := s.grants.AttachACLToRole(ctx, roleID, aclID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach acl")
	}
	s.invalidateAll(ctx)
	return nil
}

// DetachACL unlinks an acl from a role.
func (s *GrantService) DetachACL(ctx context.Context, roleID, aclID string) error {
	if err := s.grants.DetachACLFromRole(ctx, roleID, aclID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to detach acl")
	}
	s.invalidateAll(ctx)
	return nil
}

// AttachScope links a scope to an acl.
func (s *GrantService) AttachScope(ctx context.Context, aclID, scopeID string) error {
	if err := s.grants.AttachScopeToACL(ctx, aclID, scopeID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach scope")
	}
	s.invalidateAll(ctx)
	return nil
}

// DetachScope unlinks a scope from an acl.
func (s *GrantService) DetachScope(ctx context.Context, aclID, scopeID string) error {
	if err := s.grants.DetachScopeFromACL(ctx, aclID, scopeID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to detach scope")
	}
	s.invalidateAll(ctx)
	return nil
}

func (s *GrantService) invalidateAll(ctx context.Context) {
	if s.scopes != nil {
		s.scopes.InvalidateAll(ctx)
	}
}
