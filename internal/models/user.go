package models

import "time"

// UserStatus enumerates the account lifecycle states. The numeric values
// are stored as-is; gaps leave room for intermediate states.
type UserStatus int

const (
	StatusInactive     UserStatus = 10
	StatusAcknowledged UserStatus = 20
	StatusActive       UserStatus = 30
	StatusLoggedIn     UserStatus = 40
	StatusExpired      UserStatus = 80
	StatusBlocked      UserStatus = 90
	StatusBlacklisted  UserStatus = 99
)

// String implements fmt.Stringer.
func (s UserStatus) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusAcknowledged:
		return "acknowledged"
	case StatusActive:
		return "active"
	case StatusLoggedIn:
		return "logged_in"
	case StatusExpired:
		return "expired"
	case StatusBlocked:
		return "blocked"
	case StatusBlacklisted:
		return "blacklisted"
	default:
		return "unknown"
	}
}

// Valid reports whether the status is one of the enumerated values.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusInactive, StatusAcknowledged, StatusActive, StatusLoggedIn,
		StatusExpired, StatusBlocked, StatusBlacklisted:
		return true
	}
	return false
}

// User represents an account stored in the users table.
type User struct {
	ID                     string     `db:"id" json:"id"`
	Email                  string     `db:"email" json:"email"`
	PasswordHash           string     `db:"password_hash" json:"-"`
	Status                 UserStatus `db:"status" json:"status"`
	FailCount              int        `db:"fail_count" json:"fail_count"`
	BlockedUntil           *time.Time `db:"blocked_until" json:"blocked_until,omitempty"`
	Expiration             *time.Time `db:"expiration" json:"expiration,omitempty"`
	RefreshTokenExpiration *time.Time `db:"refresh_token_expiration" json:"refresh_token_expiration,omitempty"`
	UpdateCount            int        `db:"update_count" json:"update_count"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

// Blacklisted is absorbing: every transition below refuses to leave it.
func (u *User) Blacklisted() bool { return u.Status == StatusBlacklisted }

// EnterInactive replaces the credential with the hash of a fresh one-time
// password and arms the short expiration window.
func (u *User) EnterInactive(otpHash string, otpTTL time.Duration, now time.Time) bool {
	if u.Blacklisted() {
		return false
	}
	exp := now.Add(otpTTL)
	u.Status = StatusInactive
	u.PasswordHash = otpHash
	u.Expiration = &exp
	u.FailCount = 0
	u.BlockedUntil = nil
	u.RefreshTokenExpiration = nil
	return true
}

// EnterAcknowledged marks the email-link token as consumed.
func (u *User) EnterAcknowledged() bool {
	if u.Blacklisted() {
		return false
	}
	u.Status = StatusAcknowledged
	return true
}

// EnterActive arms the long credential-validity window and clears the
// failure bookkeeping.
func (u *User) EnterActive(passwordTTL time.Duration, now time.Time) bool {
	if u.Blacklisted() {
		return false
	}
	exp := now.Add(passwordTTL)
	u.Status = StatusActive
	u.Expiration = &exp
	u.FailCount = 0
	u.BlockedUntil = nil
	u.RefreshTokenExpiration = nil
	return true
}

// EnterLoggedIn records a successful login and the refresh-token window.
func (u *User) EnterLoggedIn(refreshTTL time.Duration, now time.Time) bool {
	if u.Blacklisted() {
		return false
	}
	exp := now.Add(refreshTTL)
	u.Status = StatusLoggedIn
	u.RefreshTokenExpiration = &exp
	return true
}

// EnterBlocked sets the block window after too many failed attempts.
func (u *User) EnterBlocked(blockFor time.Duration, now time.Time) bool {
	if u.Blacklisted() {
		return false
	}
	until := now.Add(blockFor)
	u.Status = StatusBlocked
	u.BlockedUntil = &until
	return true
}

// EnterExpired marks the credential-validity window as elapsed.
func (u *User) EnterExpired() bool {
	if u.Blacklisted() {
		return false
	}
	u.Status = StatusExpired
	return true
}

// EnterBlacklisted is the terminal admin transition.
func (u *User) EnterBlacklisted() {
	u.Status = StatusBlacklisted
	u.RefreshTokenExpiration = nil
}

// BlockLapsed reports whether a Blocked user may return to Active.
func (u *User) BlockLapsed(now time.Time) bool {
	return u.Status == StatusBlocked && u.BlockedUntil != nil && now.After(*u.BlockedUntil)
}

// CredentialsExpired reports whether the validity window has elapsed.
func (u *User) CredentialsExpired(now time.Time) bool {
	return u.Expiration != nil && now.After(*u.Expiration)
}
