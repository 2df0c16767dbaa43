package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/applepeerke/fishing-sub000/internal/models"
)

const userColumns = `id, email, password_hash, status, fail_count, blocked_until, expiration, refresh_token_expiration, update_count, created_at, updated_at`

// UserRepository provides database access for account records.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// Create inserts a new user and returns the stored record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, email, password_hash, status, fail_count, blocked_until, expiration, refresh_token_expiration, update_count, created_at, updated_at)
		VALUES (:id, :email, :password_hash, :status, :fail_count, :blocked_until, :expiration, :refresh_token_expiration, 0, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update replaces the mutable fields, atomically increments update_count
// and refreshes the passed record from the returned row.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`UPDATE users
		SET password_hash = $2, status = $3, fail_count = $4, blocked_until = $5,
			expiration = $6, refresh_token_expiration = $7,
			update_count = update_count + 1, updated_at = $8
		WHERE id = $1
		RETURNING %s`, userColumns)
	if err := r.db.GetContext(ctx, user, query,
		user.ID, user.PasswordHash, user.Status, user.FailCount, user.BlockedUntil,
		user.Expiration, user.RefreshTokenExpiration, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// List returns a bounded enumeration of users.
func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]models.User, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, userColumns)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, limit, skip); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// Delete removes a user. User roles cascade at the join table only.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete user roles: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user rows affected: %w", err)
	}
	return affected > 0, nil
}

// CreateAuditLog stores an audit log entry.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, email, action, resource, resource_id, detail, ip_address, user_agent, created_at)
		VALUES (:id, :email, :action, :resource, :resource_id, :detail, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
