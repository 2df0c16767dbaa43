package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applepeerke/fishing-sub000/internal/models"
)

func grantRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"role_name", "acl_name", "entity", "access"})
}

func TestGrantRepositoryListUserGrants(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGrantRepository(db)

	rows := grantRows().
		AddRow("fisherman", "fishing", "fish", "catch").
		AddRow("fisherman", "fishing", "fish", "read")
	mock.ExpectQuery("SELECT r.name AS role_name, a.name AS acl_name, s.entity, s.access").
		WithArgs("piet@fish.org").
		WillReturnRows(rows)

	triples, err := repo.ListUserGrants(context.Background(), "piet@fish.org", nil)
	require.NoError(t, err)
	require.Len(t, triples, 2)
	assert.Equal(t, "fisherman", triples[0].RoleName)
	assert.Equal(t, "catch", triples[0].Access)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrantRepositoryListUserGrantsRoleFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGrantRepository(db)

	mock.ExpectQuery("SELECT r.name AS role_name, (.+) AND r.name = ANY").
		WithArgs("piet@fish.org", pq.Array([]string{"admin"})).
		WillReturnRows(grantRows().AddRow("admin", "all", "*", "*"))

	triples, err := repo.ListUserGrants(context.Background(), "piet@fish.org", []string{"admin"})
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, "*", triples[0].Entity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrantRepositoryCreateScopeNormalizes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGrantRepository(db)

	mock.ExpectExec("INSERT INTO scopes").
		WithArgs(sqlmock.AnyArg(), "fish", "catch", "fish_catch", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	scope := &models.Scope{Entity: "fish", Access: "catch"}
	err := repo.CreateScope(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, "fish_catch", scope.ScopeName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrantRepositoryDeleteRoleCascadesJoins(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGrantRepository(db)

	mock.ExpectExec("DELETE FROM user_roles").WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM role_acls").WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM roles").WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.DeleteRole(context.Background(), "r1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrantRepositoryDeleteScopeMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGrantRepository(db)

	mock.ExpectExec("DELETE FROM acl_scopes").WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM scopes").WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteScope(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrantRepositoryAttachRoleToUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGrantRepository(db)

	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs("u1", "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AttachRoleToUser(context.Background(), "u1", "r1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
