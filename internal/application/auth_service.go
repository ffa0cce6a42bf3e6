package application

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const sessionIssuer = "schedule-dashboard"

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AdminAccount is the single account allowed into the admin area.
type AdminAccount struct {
	Username     string
	PasswordHash string
}

// LoginParams carries the submitted credentials.
type LoginParams struct {
	Username string
	Password string
}

// Session is an issued admin session.
type Session struct {
	Token     string
	Principal Principal
	ExpiresAt time.Time
}

// AuthService issues and validates signed admin session tokens.
type AuthService struct {
	account        AdminAccount
	secret         []byte
	verifyPassword PasswordVerifier
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(account AdminAccount, secret []byte, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration) *AuthService {
	return NewAuthServiceWithLogger(account, secret, nil, tokenGenerator, now, sessionTTL, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a password verifier
// and a specified logger.
func NewAuthServiceWithLogger(account AdminAccount, secret []byte, verify PasswordVerifier, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = VerifyPassword
	}
	if tokenGenerator == nil {
		tokenGenerator = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &AuthService{
		account:        account,
		secret:         secret,
		verifyPassword: verify,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         defaultLogger(logger),
		revoked:        make(map[string]time.Time),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login checks the admin credentials and issues a signed session token.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (session Session, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if len(s.secret) == 0 {
		err = fmt.Errorf("session secret not configured")
		return
	}

	username := strings.TrimSpace(params.Username)
	logger := s.loggerWith(ctx, "Login", "username", username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("session_id", session.Principal.SessionID).InfoContext(ctx, "login succeeded")
	}()

	if username == "" || params.Password == "" {
		err = ErrInvalidCredentials
		return
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.account.Username)) != 1 {
		err = ErrInvalidCredentials
		return
	}
	if verr := s.verifyPassword(s.account.PasswordHash, params.Password); verr != nil {
		err = ErrInvalidCredentials
		return
	}

	now := s.now()
	principal := Principal{
		Username:  s.account.Username,
		SessionID: s.tokenGenerator(),
		ExpiresAt: now.Add(s.sessionTTL).Truncate(time.Second),
	}
	claims := jwt.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   principal.Username,
		ID:        principal.SessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(principal.ExpiresAt),
	}

	var token string
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		err = fmt.Errorf("failed to sign session token: %w", err)
		return
	}

	session = Session{Token: token, Principal: principal, ExpiresAt: principal.ExpiresAt}
	return
}

// ValidateSession verifies the token signature, expiry and revocation.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	if s == nil {
		return Principal{}, fmt.Errorf("AuthService is nil")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrUnauthorized
	}

	claims, err := s.parse(token)
	if err != nil {
		s.loggerWith(ctx, "ValidateSession").WarnContext(ctx, "session rejected", "error", err, "error_kind", ErrorKind(err))
		return Principal{}, err
	}

	return Principal{
		Username:  claims.Subject,
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the session carried by token until it would have expired.
// Unknown or already invalid tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	claims, err := s.parse(strings.TrimSpace(token))
	if err != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, until := range s.revoked {
		if !now.Before(until) {
			delete(s.revoked, id)
		}
	}
	s.revoked[claims.ID] = claims.ExpiresAt.Time

	s.loggerWith(ctx, "Logout", "session_id", claims.ID).InfoContext(ctx, "session revoked")
	return nil
}

func (s *AuthService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	now := s.now()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, fmt.Errorf("%w: session expired", ErrUnauthorized)
	}
	if !claims.VerifyIssuer(sessionIssuer, true) || claims.Subject != s.account.Username || claims.ID == "" {
		return nil, fmt.Errorf("%w: unexpected claims", ErrUnauthorized)
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return nil, fmt.Errorf("%w: session revoked", ErrUnauthorized)
	}
	return claims, nil
}
