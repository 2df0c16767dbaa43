package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionRegister        = "REGISTER"
	AuditActionAcknowledge     = "ACKNOWLEDGE"
	AuditActionLogin           = "LOGIN"
	AuditActionLogout          = "LOGOUT"
	AuditActionPasswordChange  = "PASSWORD_CHANGE"
	AuditActionPasswordForgot  = "PASSWORD_FORGOT"
	AuditActionBlacklist       = "BLACKLIST"
	AuditActionSimulationStart = "SIMULATION_START"
)

// AuditLog represents an audit trail record for write paths.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	Email      *string   `db:"email" json:"email,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Detail     []byte    `db:"detail" json:"detail,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
