package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/applepeerke/fishing-sub000/internal/models"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
)

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, skip, limit int) ([]models.User, int, error)
	Delete(ctx context.Context, id string) (bool, error)
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// UserService covers the administrative account operations that fall
// outside the self-service authentication flows.
type UserService struct {
	users     userRepository
	scopes    scopeCompiler
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(users userRepository, scopes scopeCompiler, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, scopes: scopes, validator: validate, logger: logger}
}

// List returns a page of users with the total count.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]models.User, int, error) {
	users, total, err := s.users.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, total, nil
}

// Get returns a single user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	return user, nil
}

// GetByEmail returns a single user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	return user, nil
}

// Blacklist moves a user into the terminal blacklisted state and drops
// any cached scope set.
func (s *UserService) Blacklist(ctx context.Context, id string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	user.EnterBlacklisted()
	if err := s.users.Update(ctx, user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	s.scopes.Invalidate(ctx, user.Email)
	if err := s.users.CreateAuditLog(ctx, &models.AuditLog{
		Email:    &user.Email,
		Action:   models.AuditActionBlacklist,
		Resource: "user",
	}); err != nil {
		s.logger.Warn("failed to record audit log", zap.Error(err))
	}
	return nil
}

// Delete removes a user and their role attachments.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}

	s.scopes.Invalidate(ctx, user.Email)
	return nil
}
