package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applepeerke/fishing-sub000/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func userRows(user *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "status", "fail_count", "blocked_until", "expiration", "refresh_token_expiration", "update_count", "created_at", "updated_at"}).
		AddRow(user.ID, user.Email, user.PasswordHash, user.Status, user.FailCount, user.BlockedUntil, user.Expiration, user.RefreshTokenExpiration, user.UpdateCount, user.CreatedAt, user.UpdatedAt)
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	stored := &models.User{ID: "u1", Email: "piet@fish.org", Status: models.StatusActive, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("piet@fish.org").
		WillReturnRows(userRows(stored))

	user, err := repo.FindByEmail(context.Background(), "piet@fish.org")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, models.StatusActive, user.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("nobody@fish.org").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@fish.org")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "piet@fish.org", "hash", models.StatusInactive, 0, nil, sqlmock.AnyArg(), nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	expiration := time.Now().Add(24 * time.Hour)
	user := &models.User{Email: "piet@fish.org", PasswordHash: "hash", Status: models.StatusInactive, Expiration: &expiration}
	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdateRefreshesRecord(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	user := &models.User{ID: "u1", Email: "piet@fish.org", PasswordHash: "hash", Status: models.StatusActive}
	returned := *user
	returned.UpdateCount = 7
	mock.ExpectQuery("UPDATE users").
		WithArgs("u1", "hash", models.StatusActive, 0, nil, nil, nil, sqlmock.AnyArg()).
		WillReturnRows(userRows(&returned))

	err := repo.Update(context.Background(), user)
	require.NoError(t, err)
	// the row comes back with the incremented counter
	assert.Equal(t, 7, user.UpdateCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	stored := &models.User{ID: "u1", Email: "piet@fish.org", Status: models.StatusActive}
	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY created_at").
		WithArgs(20, 0).
		WillReturnRows(userRows(stored))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	users, total, err := repo.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("DELETE FROM user_roles").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM users").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateAuditLog(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "LOGIN", "auth", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	email := "piet@fish.org"
	err := repo.CreateAuditLog(context.Background(), &models.AuditLog{Email: &email, Action: "LOGIN", Resource: "auth"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
