package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/applepeerke/fishing-sub000/internal/models"
)

// GrantRepository manages roles, ACLs, scopes and their join tables.
// Deleting an endpoint entity cascades to the joins only; the entities on
// the other side persist independently.
type GrantRepository struct {
	db *sqlx.DB
}

// NewGrantRepository creates a new instance of GrantRepository.
func NewGrantRepository(db *sqlx.DB) *GrantRepository {
	return &GrantRepository{db: db}
}

// ListUserGrants loads the full (role, acl, scope) closure of a user in
// one query. An optional role-name filter restricts the contributing
// roles.
func (r *GrantRepository) ListUserGrants(ctx context.Context, email string, roleFilter []string) ([]models.GrantTriple, error) {
	query := `SELECT r.name AS role_name, a.name AS acl_name, s.entity, s.access
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		JOIN roles r ON r.id = ur.role_id
		JOIN role_acls ra ON ra.role_id = r.id
		JOIN acls a ON a.id = ra.acl_id
		JOIN acl_scopes asc_ ON asc_.acl_id = a.id
		JOIN scopes s ON s.id = asc_.scope_id
		WHERE u.email = $1`
	args := []interface{}{email}
	if len(roleFilter) > 0 {
		query += ` AND r.name = ANY($2)`
		args = append(args, pq.Array(roleFilter))
	}

	var triples []models.GrantTriple
	if err := r.db.SelectContext(ctx, &triples, query, args...); err != nil {
		return nil, fmt.Errorf("list user grants: %w", err)
	}
	return triples, nil
}

// CreateRole inserts a role.
func (r *GrantRepository) CreateRole(ctx context.Context, role *models.Role) error {
	prepareIdentity(&role.ID, &role.CreatedAt, &role.UpdatedAt)
	const query = `INSERT INTO roles (id, name, update_count, created_at, updated_at)
		VALUES (:id, :name, 0, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, role); err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

// FindRoleByName returns a role by its unique name.
func (r *GrantRepository) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.GetContext(ctx, &role, `SELECT id, name, update_count, created_at, updated_at FROM roles WHERE name = $1 LIMIT 1`, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find role by name: %w", err)
	}
	return &role, nil
}

// ListRoles returns a bounded enumeration of roles.
func (r *GrantRepository) ListRoles(ctx context.Context, skip, limit int) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles,
		`SELECT id, name, update_count, created_at, updated_at FROM roles ORDER BY name LIMIT $1 OFFSET $2`,
		boundedLimit(limit), maxInt(skip, 0)); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// UpdateRole renames a role, bumping update_count atomically.
func (r *GrantRepository) UpdateRole(ctx context.Context, role *models.Role) error {
	const query = `UPDATE roles SET name = $2, update_count = update_count + 1, updated_at = $3 WHERE id = $1
		RETURNING id, name, update_count, created_at, updated_at`
	if err := r.db.GetContext(ctx, role, query, role.ID, role.Name, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// DeleteRole removes a role and its join rows. Users and ACLs persist.
func (r *GrantRepository) DeleteRole(ctx context.Context, id string) (bool, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE role_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete role users: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM role_acls WHERE role_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete role acls: %w", err)
	}
	return r.deleteByID(ctx, "roles", id)
}

// CreateACL inserts an ACL.
func (r *GrantRepository) CreateACL(ctx context.Context, acl *models.ACL) error {
	prepareIdentity(&acl.ID, &acl.CreatedAt, &acl.UpdatedAt)
	const query = `INSERT INTO acls (id, name, update_count, created_at, updated_at)
		VALUES (:id, :name, 0, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, acl); err != nil {
		return fmt.Errorf("create acl: %w", err)
	}
	return nil
}

// ListACLs returns a bounded enumeration of ACLs.
func (r *GrantRepository) ListACLs(ctx context.Context, skip, limit int) ([]models.ACL, error) {
	var acls []models.ACL
	if err := r.db.SelectContext(ctx, &acls,
		`SELECT id, name, update_count, created_at, updated_at FROM acls ORDER BY name LIMIT $1 OFFSET $2`,
		boundedLimit(limit), maxInt(skip, 0)); err != nil {
		return nil, fmt.Errorf("list acls: %w", err)
	}
	return acls, nil
}

// DeleteACL removes an ACL and its join rows. Roles and scopes persist.
func (r *GrantRepository) DeleteACL(ctx context.Context, id string) (bool, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM role_acls WHERE acl_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete acl roles: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM acl_scopes WHERE acl_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete acl scopes: %w", err)
	}
	return r.deleteByID(ctx, "acls", id)
}

// CreateScope inserts a scope, normalizing the derived scope_name first.
func (r *GrantRepository) CreateScope(ctx context.Context, scope *models.Scope) error {
	prepareIdentity(&scope.ID, &scope.CreatedAt, &scope.UpdatedAt)
	scope.Normalize()
	const query = `INSERT INTO scopes (id, entity, access, scope_name, update_count, created_at, updated_at)
		VALUES (:id, :entity, :access, :scope_name, 0, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, scope); err != nil {
		return fmt.Errorf("create scope: %w", err)
	}
	return nil
}

// ListScopes returns a bounded enumeration of scopes.
func (r *GrantRepository) ListScopes(ctx context.Context, skip, limit int) ([]models.Scope, error) {
	var scopes []models.Scope
	if err := r.db.SelectContext(ctx, &scopes,
		`SELECT id, entity, access, scope_name, update_count, created_at, updated_at FROM scopes ORDER BY scope_name LIMIT $1 OFFSET $2`,
		boundedLimit(limit), maxInt(skip, 0)); err != nil {
		return nil, fmt.Errorf("list scopes: %w", err)
	}
	return scopes, nil
}

// UpdateScope rewrites entity/access, renormalizing scope_name.
func (r *GrantRepository) UpdateScope(ctx context.Context, scope *models.Scope) error {
	scope.Normalize()
	const query = `UPDATE scopes SET entity = $2, access = $3, scope_name = $4, update_count = update_count + 1, updated_at = $5 WHERE id = $1
		RETURNING id, entity, access, scope_name, update_count, created_at, updated_at`
	if err := r.db.GetContext(ctx, scope, query, scope.ID, scope.Entity, scope.Access, scope.ScopeName, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update scope: %w", err)
	}
	return nil
}

// DeleteScope removes a scope and its join rows. ACLs persist.
func (r *GrantRepository) DeleteScope(ctx context.Context, id string) (bool, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM acl_scopes WHERE scope_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete scope acls: %w", err)
	}
	return r.deleteByID(ctx, "scopes", id)
}

// AttachRoleToUser links a role to a user.
func (r *GrantRepository) AttachRoleToUser(ctx context.Context, userID, roleID string) error {
	const query = `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, roleID); err != nil {
		return fmt.Errorf("attach role to user: %w", err)
	}
	return nil
}

// DetachRoleFromUser unlinks a role from a user.
func (r *GrantRepository) DetachRoleFromUser(ctx context.Context, userID, roleID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID); err != nil {
		return fmt.Errorf("detach role from user: %w", err)
	}
	return nil
}

// AttachACLToRole links an ACL to a role.
func (r *GrantRepository) AttachACLToRole(ctx context.Context, roleID, aclID string) error {
	const query = `INSERT INTO role_acls (role_id, acl_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, roleID, aclID); err != nil {
		return fmt.Errorf("attach acl to role: %w", err)
	}
	return nil
}

// DetachACLFromRole unlinks an ACL from a role.
func (r *GrantRepository) DetachACLFromRole(ctx context.Context, roleID, aclID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM role_acls WHERE role_id = $1 AND acl_id = $2`, roleID, aclID); err != nil {
		return fmt.Errorf("detach acl from role: %w", err)
	}
	return nil
}

// AttachScopeToACL links a scope to an ACL.
func (r *GrantRepository) AttachScopeToACL(ctx context.Context, aclID, scopeID string) error {
	const query = `INSERT INTO acl_scopes (acl_id, scope_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, aclID, scopeID); err != nil {
		return fmt.Errorf("attach scope to acl: %w", err)
	}
	return nil
}

// DetachScopeFromACL unlinks a scope from an ACL.
func (r *GrantRepository) DetachScopeFromACL(ctx context.Context, aclID, scopeID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM acl_scopes WHERE acl_id = $1 AND scope_id = $2`, aclID, scopeID); err != nil {
		return fmt.Errorf("detach scope from acl: %w", err)
	}
	return nil
}

func (r *GrantRepository) deleteByID(ctx context.Context, table, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete from %s rows affected: %w", table, err)
	}
	return affected > 0, nil
}

func prepareIdentity(id *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

func boundedLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

func maxInt(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
