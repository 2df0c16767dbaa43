package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/applepeerke/fishing-sub000/internal/models"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
	"github.com/applepeerke/fishing-sub000/pkg/mail"
	"github.com/applepeerke/fishing-sub000/pkg/password"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type scopeCompiler interface {
	CompileForUser(ctx context.Context, email string, roleFilter []string) ([]string, error)
	Invalidate(ctx context.Context, email string)
}

// AuthConfig defines configuration for the account lifecycle flows.
type AuthConfig struct {
	AppName                string
	FailingAttemptsAllowed int
	BlockDuration          time.Duration
	OTPTTL                 time.Duration
	PasswordTTL            time.Duration
	OTPTemplate            string
	OTPMailFrom            string
	OTPURL                 string
	MailDebug              bool
}

// AuthService drives registration, acknowledgement, login, logout and
// the password flows over the user state machine.
type AuthService struct {
	users     authUserRepository
	scopes    scopeCompiler
	codec     *TokenCodec
	hasher    *password.Hasher
	mailer    mail.Sender
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, scopes scopeCompiler, codec *TokenCodec, hasher *password.Hasher, mailer mail.Sender, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.FailingAttemptsAllowed <= 0 {
		config.FailingAttemptsAllowed = 3
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = 10 * time.Minute
	}
	return &AuthService{
		users:     users,
		scopes:    scopes,
		codec:     codec,
		hasher:    hasher,
		mailer:    mailer,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Used by tests.
func (s *AuthService) WithNow(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// WithMetrics attaches the login outcome counters.
func (s *AuthService) WithMetrics(metrics *MetricsService) *AuthService {
	s.metrics = metrics
	return s
}

// AcknowledgeToken derives the email-link token sent on registration.
func AcknowledgeToken(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}

// Register creates a new Inactive account and mails a one-time password.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid register payload")
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	otp, err := s.hasher.Random()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate otp")
	}
	otpHash, err := s.hasher.Hash(otp)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash otp")
	}

	user := &models.User{Email: req.Email}
	user.EnterInactive(otpHash, s.config.OTPTTL, s.now())

	if err := s.users.Create(ctx, user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	if err := s.sendOTP(user.Email, otp); err != nil {
		if !s.config.MailDebug {
			return appErrors.Wrap(err, appErrors.ErrTransient.Code, appErrors.ErrTransient.Status, "failed to send otp mail")
		}
		s.logger.Warn("otp mail delivery failed, continuing in debug mode", zap.Error(err))
	}

	s.audit(ctx, user.Email, models.AuditActionRegister, nil)
	return nil
}

// Acknowledge consumes the email-link token: Inactive to Acknowledged.
func (s *AuthService) Acknowledge(ctx context.Context, req models.AcknowledgeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid acknowledge payload")
	}

	user, err := s.loadUser(ctx, req.Email)
	if err != nil {
		return err
	}
	if err := s.observe(ctx, user); err != nil {
		return err
	}

	expected := AcknowledgeToken(req.Email)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(req.Token)) != 1 || user.Status != models.StatusInactive {
		return s.recordFailure(ctx, user)
	}

	user.EnterAcknowledged()
	if err := s.users.Update(ctx, user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	s.audit(ctx, user.Email, models.AuditActionAcknowledge, nil)
	return nil
}

// ChangePassword validates and installs a new credential: the user
// becomes Active with a fresh long validity window.
func (s *AuthService) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change password payload")
	}

	user, err := s.loadUser(ctx, req.Email)
	if err != nil {
		return err
	}
	if err := s.observe(ctx, user); err != nil {
		return err
	}

	switch user.Status {
	case models.StatusAcknowledged, models.StatusActive, models.StatusLoggedIn:
	default:
		return s.recordFailure(ctx, user)
	}

	valid := s.hasher.Verify(req.Password, user.PasswordHash) &&
		req.NewPassword == req.NewPasswordRepeated &&
		req.NewPassword != req.Password &&
		s.hasher.IsValid(req.NewPassword)
	if !valid {
		return s.recordFailure(ctx, user)
	}

	newHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user.PasswordHash = newHash
	user.EnterActive(s.config.PasswordTTL, s.now())
	if err := s.users.Update(ctx, user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	s.audit(ctx, user.Email, models.AuditActionPasswordChange, nil)
	return nil
}

// Login verifies the credential, compiles the scope set and issues the
// access and refresh tokens.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.loadUser(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.observe(ctx, user); err != nil {
		return nil, err
	}

	if user.Status != models.StatusActive {
		return nil, s.recordFailure(ctx, user)
	}
	if req.Password != req.PasswordRepeat || !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, s.recordFailure(ctx, user)
	}

	scopes, err := s.scopes.CompileForUser(ctx, user.Email, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compile scopes")
	}

	access, _, err := s.codec.EncodeAccess(user.Email, scopes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue access token")
	}
	refresh, refreshExpiry, err := s.codec.EncodeRefresh(user.Email, scopes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue refresh token")
	}

	user.FailCount = 0
	user.EnterLoggedIn(refreshExpiry.Sub(s.now()), s.now())
	if err := s.users.Update(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	s.metrics.RecordLogin("success")
	s.audit(ctx, user.Email, models.AuditActionLogin, map[string]interface{}{"ip": req.IP, "user_agent": req.UserAgent})

	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    models.TokenType,
		ExpiresIn:    int64(s.codec.AccessExpiry().Seconds()),
	}, nil
}

// Logout returns a LoggedIn user to Active and discards session data.
func (s *AuthService) Logout(ctx context.Context, req models.LogoutRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid logout payload")
	}

	user, err := s.loadUser(ctx, req.Email)
	if err != nil {
		return err
	}

	if user.Status != models.StatusLoggedIn {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	user.EnterActive(s.config.PasswordTTL, s.now())
	if err := s.users.Update(ctx, user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	s.scopes.Invalidate(ctx, user.Email)
	s.audit(ctx, user.Email, models.AuditActionLogout, nil)
	return nil
}

// ForgotPassword re-issues a one-time password: the user becomes
// Inactive. Permitted while Blocked, refused only for Blacklisted.
func (s *AuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid forgot password payload")
	}

	user, err := s.loadUser(ctx, req.Email)
	if err != nil {
		return err
	}
	if user.Blacklisted() {
		return appErrors.Clone(appErrors.ErrBlacklisted, "")
	}

	otp, err := s.hasher.Random()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate otp")
	}
	otpHash, err := s.hasher.Hash(otp)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash otp")
	}

	user.EnterInactive(otpHash, s.config.OTPTTL, s.now())
	if err := s.users.Update(ctx, user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	if err := s.sendOTP(user.Email, otp); err != nil {
		if !s.config.MailDebug {
			return appErrors.Wrap(err, appErrors.ErrTransient.Code, appErrors.ErrTransient.Status, "failed to send otp mail")
		}
		s.logger.Warn("otp mail delivery failed, continuing in debug mode", zap.Error(err))
	}

	s.audit(ctx, user.Email, models.AuditActionPasswordForgot, nil)
	return nil
}

// VerifySession confirms the token's subject is still logged in. The
// authorization guard calls it on every request, so logout, blocking
// and blacklisting revoke outstanding access tokens immediately. Every
// failure maps to the same 401 envelope.
func (s *AuthService) VerifySession(ctx context.Context, session *models.SessionData) error {
	user, err := s.users.FindByEmail(ctx, session.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrTokenInvalid, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if user.Status != models.StatusLoggedIn {
		return appErrors.Clone(appErrors.ErrTokenInvalid, "")
	}
	return nil
}

// RefreshTokens re-issues the token pair for the automatic refresh path
// in the authorization guard. The user must still be logged in and
// inside the refresh window.
func (s *AuthService) RefreshTokens(ctx context.Context, session *models.SessionData) (*models.TokenPair, error) {
	user, err := s.loadUser(ctx, session.Email)
	if err != nil {
		return nil, err
	}
	if err := s.observe(ctx, user); err != nil {
		return nil, err
	}
	if user.Status != models.StatusLoggedIn {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}
	if user.RefreshTokenExpiration == nil || s.now().After(*user.RefreshTokenExpiration) {
		return nil, appErrors.Clone(appErrors.ErrTokenExpired, "")
	}

	access, _, err := s.codec.EncodeAccess(user.Email, session.Scopes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue access token")
	}
	refresh, _, err := s.codec.EncodeRefresh(user.Email, session.Scopes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue refresh token")
	}

	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    models.TokenType,
		ExpiresIn:    int64(s.codec.AccessExpiry().Seconds()),
	}, nil
}

// loadUser maps unknown emails to the same generic credential failure as
// a bad password, so the response never reveals whether an email exists.
func (s *AuthService) loadUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	return user, nil
}

// observe applies the time-driven transitions before any credential
// check: a lapsed block returns the user to Active, an elapsed validity
// window expires the credential.
func (s *AuthService) observe(ctx context.Context, user *models.User) error {
	now := s.now()

	if user.Blacklisted() {
		return appErrors.Clone(appErrors.ErrBlacklisted, "")
	}

	if user.Status == models.StatusBlocked {
		if !user.BlockLapsed(now) {
			return appErrors.Clone(appErrors.ErrBlocked, "")
		}
		user.EnterActive(s.config.PasswordTTL, now)
		if err := s.users.Update(ctx, user); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
		}
		return nil
	}

	if (user.Status == models.StatusActive || user.Status == models.StatusLoggedIn) && user.CredentialsExpired(now) {
		user.EnterExpired()
		if err := s.users.Update(ctx, user); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
		}
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	return nil
}

// recordFailure increments the fail counter first and checks the
// threshold after; reaching it blocks the account.
func (s *AuthService) recordFailure(ctx context.Context, user *models.User) error {
	user.FailCount++
	blocked := false
	if user.FailCount >= s.config.FailingAttemptsAllowed {
		user.FailCount = s.config.FailingAttemptsAllowed
		user.EnterBlocked(s.config.BlockDuration, s.now())
		blocked = true
	}

	if err := s.users.Update(ctx, user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record login failure")
	}

	if blocked {
		s.metrics.RecordLogin("blocked")
		return appErrors.Clone(appErrors.ErrBlocked, "")
	}
	s.metrics.RecordLogin("failure")
	return appErrors.Clone(appErrors.ErrInvalidCredentials, "")
}

func (s *AuthService) sendOTP(email, otp string) error {
	if s.mailer == nil {
		return fmt.Errorf("no mail sender configured")
	}
	body, err := mail.RenderOTP(s.config.OTPTemplate, mail.OTPData{
		AppName: s.config.AppName,
		OTP:     otp,
		Link:    fmt.Sprintf("%s?email=%s&token=%s", s.config.OTPURL, email, AcknowledgeToken(email)),
	})
	if err != nil {
		return err
	}
	return s.mailer.Send(mail.Message{
		From:    s.config.OTPMailFrom,
		To:      email,
		Subject: fmt.Sprintf("%s one-time password", s.config.AppName),
		Body:    body,
	})
}

func (s *AuthService) audit(ctx context.Context, email, action string, detail map[string]interface{}) {
	var payload []byte
	if detail != nil {
		payload, _ = json.Marshal(detail)
	}
	if err := s.users.CreateAuditLog(ctx, &models.AuditLog{
		Email:    &email,
		Action:   action,
		Resource: "auth",
		Detail:   payload,
	}); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}
