package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/oakwell-health/clinic-booking/pkg/logging"
)

// Session identifies an authenticated admin request.
type Session struct {
	UserID string
	Email  string
	JTI    string
}

// Service issues, validates, and revokes admin sessions. Tokens are
// HMAC-signed JWTs; the jti is additionally held in the session store
// so sign-out revokes the token before its expiry.
type Service struct {
	users    UserStore
	sessions *SessionStore
	secret   []byte
	ttl      time.Duration
	logger   *logging.Logger
	now      func() time.Time
}

// NewService creates an auth service.
func NewService(users UserStore, sessions *SessionStore, secret string, ttl time.Duration, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Login verifies the credentials and returns a signed session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("auth: admin auth disabled, no secret configured")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	jti := uuid.NewString()
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}

	if err := s.sessions.Put(ctx, jti, user.ID, s.ttl); err != nil {
		return "", err
	}

	s.logger.Info("admin login", "user_id", user.ID)
	return token, nil
}

// Validate parses a token and checks the session is still live.
func (s *Service) Validate(ctx context.Context, token string) (*Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	userID, err := s.sessions.UserID(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if userID != claims.Subject {
		return nil, ErrSessionInvalid
	}

	return &Session{UserID: claims.Subject, JTI: claims.ID}, nil
}

// SignOut revokes the session carried by the token. An already-invalid
// token is treated as signed out.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return err
	}
	s.logger.Info("admin sign-out", "user_id", claims.Subject)
	return nil
}

func (s *Service) parse(token string) (*jwt.RegisteredClaims, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return nil, ErrSessionInvalid
	}
	return claims, nil
}
