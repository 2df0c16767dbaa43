package errors

import (
	"errors"
	"net/http"
)

// Error is a domain error carrying the HTTP status and a stable code
// the API contract exposes. The wrapped cause never leaves the server.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on the stable code so sentinels compare across Clone copies.
func (e *Error) Is(target error) bool {
	var t *Error
	return errors.As(target, &t) && t.Code == e.Code
}

// New builds a fresh Error sentinel.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches a cause to a new Error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Clone copies a sentinel, optionally overriding the message. Handlers
// use it so callers never mutate the shared sentinels.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	out := *err
	if message != "" {
		out.Message = message
	}
	return &out
}

// FromError coerces any error into an *Error, defaulting to internal.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Sentinels for the API surface. Credential failures share one message
// so the API never reveals whether an email is registered.
var (
	ErrValidation         = New("INVALID_INPUT", http.StatusUnprocessableEntity, "validation failed")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid credentials")
	ErrTokenExpired       = New("TOKEN_EXPIRED", http.StatusUnauthorized, "token expired")
	ErrTokenInvalid       = New("TOKEN_INVALID", http.StatusUnauthorized, "invalid token")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrBlocked            = New("ACCOUNT_BLOCKED", http.StatusUnauthorized, "account is blocked")
	ErrBlacklisted        = New("ACCOUNT_BLACKLISTED", http.StatusUnauthorized, "account is blacklisted")
	ErrConflict           = New("CONFLICT", http.StatusUnprocessableEntity, "conflict")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrTransient          = New("TRANSIENT", http.StatusServiceUnavailable, "temporarily unavailable")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)
