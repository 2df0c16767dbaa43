package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/applepeerke/fishing-sub000/internal/models"
	"github.com/applepeerke/fishing-sub000/pkg/config"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
)

// TokenCodec signs and verifies the bearer token envelope
// {sub, exp, scopes}. Neither audience nor issuer is verified.
type TokenCodec struct {
	secret        []byte
	method        jwt.SigningMethod
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewTokenCodec builds a codec from the JWT configuration. Unknown
// algorithms fall back to HS256.
func NewTokenCodec(cfg config.JWTConfig) *TokenCodec {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	return &TokenCodec{
		secret:        []byte(cfg.SecretKey),
		method:        method,
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Used by tests.
func (c *TokenCodec) WithNow(now func() time.Time) *TokenCodec {
	c.now = now
	return c
}

// AccessExpiry returns the access token lifetime.
func (c *TokenCodec) AccessExpiry() time.Duration { return c.accessExpiry }

// EncodeAccess issues a short-lived access token.
func (c *TokenCodec) EncodeAccess(email string, scopes []string) (string, time.Time, error) {
	return c.encode(email, scopes, c.now().Add(c.accessExpiry))
}

// EncodeRefresh issues a long-lived refresh token.
func (c *TokenCodec) EncodeRefresh(email string, scopes []string) (string, time.Time, error) {
	return c.encode(email, scopes, c.now().Add(c.refreshExpiry))
}

// Encode signs an envelope with an explicit expiry instant.
func (c *TokenCodec) Encode(email string, scopes []string, expiry time.Time) (string, error) {
	signed, _, err := c.encode(email, scopes, expiry)
	return signed, err
}

func (c *TokenCodec) encode(email string, scopes []string, expiry time.Time) (string, time.Time, error) {
	claims := &models.TokenClaims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(c.now()),
		},
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiry, nil
}

// Decode verifies signature and expiry and returns the session data.
// Failures are typed: expired tokens carry a distinguished code so that
// clients can trigger a refresh.
func (c *TokenCodec) Decode(raw string) (*models.SessionData, error) {
	token, err := jwt.ParseWithClaims(raw, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != c.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Wrap(err, appErrors.ErrTokenExpired.Code, appErrors.ErrTokenExpired.Status, appErrors.ErrTokenExpired.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrTokenInvalid.Code, appErrors.ErrTokenInvalid.Status, appErrors.ErrTokenInvalid.Message)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, appErrors.Clone(appErrors.ErrTokenInvalid, "")
	}

	return &models.SessionData{Email: claims.Subject, Scopes: claims.Scopes}, nil
}
