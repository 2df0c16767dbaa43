package models

import (
	"strings"
	"time"
)

// Wildcard matches any entity or any access depending on position.
const Wildcard = "*"

// Recognized scope entities.
const (
	EntityUser         = "user"
	EntityRole         = "role"
	EntityACL          = "acl"
	EntityScope        = "scope"
	EntityFish         = "fish"
	EntityFishSpecies  = "fishspecies"
	EntityFisherman    = "fisherman"
	EntityFishingWater = "fishingwater"
	EntityFishingDay   = "fishingday"
	EntityLogin        = "login"
)

// Recognized scope accesses.
const (
	AccessCreate  = "create"
	AccessRead    = "read"
	AccessReadAll = "readall"
	AccessUpdate  = "update"
	AccessDelete  = "delete"
	AccessCatch   = "catch"
)

// ScopePair is one permission: an entity and an access verb, either of
// which may be the wildcard.
type ScopePair struct {
	Entity string
	Access string
}

// Name returns the canonical entity_access string form.
func (p ScopePair) Name() string {
	return p.Entity + "_" + p.Access
}

// ParseScopeName splits an entity_access string at the first underscore.
// Entities never contain underscores; accesses may (fish_catch).
func ParseScopeName(name string) (ScopePair, bool) {
	parts := strings.SplitN(name, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ScopePair{}, false
	}
	return ScopePair{Entity: parts[0], Access: parts[1]}, true
}

// Covers reports whether the user pair p authorizes the endpoint pair end.
func (p ScopePair) Covers(end ScopePair) bool {
	if p.Entity == Wildcard {
		return p.Access == Wildcard || p.Access == end.Access
	}
	if p.Entity != end.Entity && end.Entity != Wildcard {
		return false
	}
	return p.Access == Wildcard || p.Access == end.Access
}

// Scope is persisted reference data; ScopeName is derived on every write.
type Scope struct {
	ID          string    `db:"id" json:"id"`
	Entity      string    `db:"entity" json:"entity"`
	Access      string    `db:"access" json:"access"`
	ScopeName   string    `db:"scope_name" json:"scope_name"`
	UpdateCount int       `db:"update_count" json:"update_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Normalize recomputes the derived scope name before a write.
func (s *Scope) Normalize() {
	s.ScopeName = ScopePair{Entity: s.Entity, Access: s.Access}.Name()
}

// Role groups ACLs and is attached to users.
type Role struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	UpdateCount int       `db:"update_count" json:"update_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ACL groups scopes and is attached to roles.
type ACL struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	UpdateCount int       `db:"update_count" json:"update_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// GrantTriple is one (role, acl, scope) row of a user's grant closure,
// loaded eagerly in a single query for scope compilation.
type GrantTriple struct {
	RoleName string `db:"role_name"`
	ACLName  string `db:"acl_name"`
	Entity   string `db:"entity"`
	Access   string `db:"access"`
}
