package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/applepeerke/fishing-sub000/internal/models"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
)

func triples(pairs ...[2]string) []models.GrantTriple {
	out := make([]models.GrantTriple, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, models.GrantTriple{RoleName: "r", ACLName: "a", Entity: p[0], Access: p[1]})
	}
	return out
}

func TestCompileFullWildcardAbsorbsEverything(t *testing.T) {
	got := Compile(triples(
		[2]string{"fish", "read"},
		[2]string{"fish", "*"},
		[2]string{"*", "*"},
	))
	assert.Equal(t, []string{"*_*"}, got)
}

func TestCompileEntityWildcardAbsorbsAccesses(t *testing.T) {
	got := Compile(triples(
		[2]string{"fish", "read"},
		[2]string{"fish", "create"},
		[2]string{"fish", "*"},
		[2]string{"user", "read"},
	))
	assert.Equal(t, []string{"fish_*", "user_read"}, got)
}

func TestCompileGlobalAccessRemovesConcreteDuplicates(t *testing.T) {
	got := Compile(triples(
		[2]string{"*", "read"},
		[2]string{"fish", "read"},
		[2]string{"fish", "create"},
		[2]string{"user", "read"},
	))
	assert.Equal(t, []string{"*_read", "fish_create"}, got)
}

func TestCompileIdempotent(t *testing.T) {
	input := triples(
		[2]string{"*", "read"},
		[2]string{"fish", "create"},
		[2]string{"fish", "read"},
		[2]string{"scope", "*"},
	)
	once := Compile(input)

	reingested := make([]models.GrantTriple, 0, len(once))
	for _, name := range once {
		pair, ok := models.ParseScopeName(name)
		require.True(t, ok)
		reingested = append(reingested, models.GrantTriple{Entity: pair.Entity, Access: pair.Access})
	}
	assert.Equal(t, once, Compile(reingested))
}

func TestCompileSoundness(t *testing.T) {
	input := triples(
		[2]string{"*", "read"},
		[2]string{"fish", "read"},
		[2]string{"fish", "catch"},
		[2]string{"user", "*"},
		[2]string{"user", "delete"},
	)
	output := Compile(input)

	for _, in := range input {
		covered := CoversAll(output, []string{models.ScopePair{Entity: in.Entity, Access: in.Access}.Name()})
		assert.True(t, covered, "input pair %s_%s not covered by output %v", in.Entity, in.Access, output)
	}
}

// absorbs reports whether keeping a makes the user scope b redundant.
// This is narrower than the endpoint covering rule: between user scopes
// a concrete entity never absorbs the wildcard entity.
func absorbs(a, b models.ScopePair) bool {
	if a.Entity != models.Wildcard && a.Entity != b.Entity {
		return false
	}
	return a.Access == models.Wildcard || a.Access == b.Access
}

func TestCompileMinimality(t *testing.T) {
	output := Compile(triples(
		[2]string{"*", "read"},
		[2]string{"fish", "read"},
		[2]string{"fish", "create"},
		[2]string{"user", "*"},
	))

	for i, name := range output {
		pair, ok := models.ParseScopeName(name)
		require.True(t, ok)
		for j, otherName := range output {
			if i == j {
				continue
			}
			other, ok := models.ParseScopeName(otherName)
			require.True(t, ok)
			assert.False(t, absorbs(other, pair), "%s makes %s redundant", otherName, name)
		}
	}
}

func TestCompileSkipsEmptyComponents(t *testing.T) {
	got := Compile(triples(
		[2]string{"", "read"},
		[2]string{"fish", ""},
		[2]string{"fish", "read"},
	))
	assert.Equal(t, []string{"fish_read"}, got)
}

func TestCoversAllPartialWildcard(t *testing.T) {
	userScopes := Compile(triples(
		[2]string{"*", "read"},
		[2]string{"fish", "create"},
	))

	assert.True(t, CoversAll(userScopes, []string{"user_read"}))
	assert.True(t, CoversAll(userScopes, []string{"fish_create"}))
	assert.False(t, CoversAll(userScopes, []string{"user_delete"}))
}

type mockGrantReader struct {
	triples []models.GrantTriple
	err     error
	calls   int
}

func (m *mockGrantReader) ListUserGrants(ctx context.Context, email string, roleFilter []string) ([]models.GrantTriple, error) {
	m.calls++
	return m.triples, m.err
}

type mockScopeCache struct {
	values map[string][]string
}

func (m *mockScopeCache) Get(ctx context.Context, key string, dest interface{}) error {
	if v, ok := m.values[key]; ok {
		*(dest.(*[]string)) = v
		return nil
	}
	return appErrors.ErrCacheMiss
}

func (m *mockScopeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.values == nil {
		m.values = make(map[string][]string)
	}
	m.values[key] = value.([]string)
	return nil
}

func (m *mockScopeCache) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *mockScopeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.values = nil
	return nil
}

func TestCompileForUserUsesCache(t *testing.T) {
	grants := &mockGrantReader{triples: triples([2]string{"fish", "read"})}
	cache := &mockScopeCache{}
	svc := NewScopeService(grants, cache, zap.NewNop())

	first, err := svc.CompileForUser(context.Background(), "a@b.c", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"fish_read"}, first)
	assert.Equal(t, 1, grants.calls)

	second, err := svc.CompileForUser(context.Background(), "a@b.c", nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, grants.calls)

	svc.Invalidate(context.Background(), "a@b.c")
	_, err = svc.CompileForUser(context.Background(), "a@b.c", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, grants.calls)
}

func TestCompileForUserRoleFilterBypassesCache(t *testing.T) {
	grants := &mockGrantReader{triples: triples([2]string{"fish", "read"})}
	cache := &mockScopeCache{}
	svc := NewScopeService(grants, cache, zap.NewNop())

	_, err := svc.CompileForUser(context.Background(), "a@b.c", []string{"admin"})
	require.NoError(t, err)
	_, err = svc.CompileForUser(context.Background(), "a@b.c", []string{"admin"})
	require.NoError(t, err)
	assert.Equal(t, 2, grants.calls)
}
