package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnterInactiveResetsFailureBookkeeping(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	blocked := now.Add(-time.Minute)
	refresh := now.Add(time.Hour)
	user := &User{
		Status:                 StatusBlocked,
		FailCount:              3,
		BlockedUntil:           &blocked,
		RefreshTokenExpiration: &refresh,
	}

	require.True(t, user.EnterInactive("otp-hash", 24*time.Hour, now))

	assert.Equal(t, StatusInactive, user.Status)
	assert.Equal(t, "otp-hash", user.PasswordHash)
	assert.Zero(t, user.FailCount)
	assert.Nil(t, user.BlockedUntil)
	assert.Nil(t, user.RefreshTokenExpiration)
	require.NotNil(t, user.Expiration)
	assert.Equal(t, now.Add(24*time.Hour), *user.Expiration)
}

func TestEnterActiveResetsFailureBookkeeping(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	blocked := now.Add(time.Minute)
	user := &User{Status: StatusBlocked, FailCount: 2, BlockedUntil: &blocked}

	require.True(t, user.EnterActive(90*24*time.Hour, now))

	assert.Equal(t, StatusActive, user.Status)
	assert.Zero(t, user.FailCount)
	assert.Nil(t, user.BlockedUntil)
	require.NotNil(t, user.Expiration)
	assert.Equal(t, now.Add(90*24*time.Hour), *user.Expiration)
}

func TestBlacklistedIsAbsorbing(t *testing.T) {
	now := time.Now().UTC()
	user := &User{Status: StatusActive}
	user.EnterBlacklisted()

	assert.False(t, user.EnterInactive("x", time.Hour, now))
	assert.False(t, user.EnterAcknowledged())
	assert.False(t, user.EnterActive(time.Hour, now))
	assert.False(t, user.EnterLoggedIn(time.Hour, now))
	assert.False(t, user.EnterBlocked(time.Hour, now))
	assert.False(t, user.EnterExpired())
	assert.Equal(t, StatusBlacklisted, user.Status)
}

func TestBlockLapsed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &User{Status: StatusActive}
	require.True(t, user.EnterBlocked(10*time.Minute, now))

	assert.Equal(t, StatusBlocked, user.Status)
	require.NotNil(t, user.BlockedUntil)
	assert.False(t, user.BlockLapsed(now.Add(9*time.Minute)))
	assert.True(t, user.BlockLapsed(now.Add(11*time.Minute)))
}

func TestCredentialsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &User{Status: StatusActive}
	assert.False(t, user.CredentialsExpired(now))

	exp := now.Add(time.Hour)
	user.Expiration = &exp
	assert.False(t, user.CredentialsExpired(now))
	assert.True(t, user.CredentialsExpired(now.Add(2*time.Hour)))
}

func TestStatusValid(t *testing.T) {
	for _, s := range []UserStatus{StatusInactive, StatusAcknowledged, StatusActive, StatusLoggedIn, StatusExpired, StatusBlocked, StatusBlacklisted} {
		assert.True(t, s.Valid(), s.String())
	}
	assert.False(t, UserStatus(42).Valid())
}
