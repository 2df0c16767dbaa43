package models

// RegisterRequest starts the account lifecycle for a new email.
type RegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AcknowledgeRequest consumes the email-link token.
type AcknowledgeRequest struct {
	Email string `form:"email" validate:"required,email"`
	Token string `form:"token" validate:"required"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required"`
	PasswordRepeat string `json:"password_repeat" validate:"required"`
	IP             string `json:"-"`
	UserAgent      string `json:"-"`
}

// LogoutRequest ends a logged-in session.
type LogoutRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest replaces the current credential.
type ChangePasswordRequest struct {
	Email               string `json:"email" validate:"required,email"`
	Password            string `json:"password" validate:"required"`
	NewPassword         string `json:"new_password" validate:"required"`
	NewPasswordRepeated string `json:"new_password_repeated" validate:"required"`
}

// ForgotPasswordRequest re-issues a one-time password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}
