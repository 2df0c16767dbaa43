package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopePairName(t *testing.T) {
	assert.Equal(t, "fish_read", ScopePair{Entity: EntityFish, Access: AccessRead}.Name())
	assert.Equal(t, "*_*", ScopePair{Entity: Wildcard, Access: Wildcard}.Name())
}

func TestParseScopeName(t *testing.T) {
	pair, ok := ParseScopeName("fish_read")
	require.True(t, ok)
	assert.Equal(t, ScopePair{Entity: "fish", Access: "read"}, pair)

	// accesses may contain underscores, entities never do
	pair, ok = ParseScopeName("fish_catch")
	require.True(t, ok)
	assert.Equal(t, ScopePair{Entity: "fish", Access: "catch"}, pair)

	_, ok = ParseScopeName("nounderscore")
	assert.False(t, ok)
}

func TestCoversReflexivity(t *testing.T) {
	pair := ScopePair{Entity: EntityFish, Access: AccessRead}
	assert.True(t, pair.Covers(pair))
}

func TestCoversEntityWildcard(t *testing.T) {
	wild := ScopePair{Entity: Wildcard, Access: AccessRead}
	assert.True(t, wild.Covers(ScopePair{Entity: EntityUser, Access: AccessRead}))
	assert.True(t, wild.Covers(ScopePair{Entity: EntityFish, Access: AccessRead}))
}

func TestCoversFullWildcard(t *testing.T) {
	full := ScopePair{Entity: Wildcard, Access: Wildcard}
	assert.True(t, full.Covers(ScopePair{Entity: EntityUser, Access: AccessDelete}))
	assert.True(t, full.Covers(ScopePair{Entity: EntityFish, Access: AccessCatch}))
}

func TestCoversEntityWildcardWrongAccess(t *testing.T) {
	wild := ScopePair{Entity: Wildcard, Access: AccessRead}
	assert.False(t, wild.Covers(ScopePair{Entity: EntityUser, Access: AccessDelete}))
}

func TestCoversEndpointWildcardEntity(t *testing.T) {
	pair := ScopePair{Entity: EntityFish, Access: AccessRead}
	assert.True(t, pair.Covers(ScopePair{Entity: Wildcard, Access: AccessRead}))
	assert.False(t, pair.Covers(ScopePair{Entity: EntityUser, Access: AccessRead}))
}

func TestScopeNormalize(t *testing.T) {
	scope := &Scope{Entity: EntityFish, Access: AccessCatch}
	scope.Normalize()
	assert.Equal(t, "fish_catch", scope.ScopeName)
}
