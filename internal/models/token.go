package models

import "github.com/golang-jwt/jwt/v5"

// TokenType is the bearer token type label.
const TokenType = "Bearer"

// TokenClaims is the signed envelope payload: subject email, expiry and
// the compiled scope names. Audience and issuer are not used.
type TokenClaims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// SessionData is the per-request view decoded from a bearer token. It is
// process-local and cleared on any authorization failure and on logout.
type SessionData struct {
	Email  string   `json:"email"`
	Scopes []string `json:"scopes"`
}

// TokenPair carries the issued access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
