package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jesseg-dev/portfolio-site/internal/auth/domain"
	"github.com/jesseg-dev/portfolio-site/internal/auth/password"
	"github.com/jesseg-dev/portfolio-site/internal/auth/token"
	"github.com/jesseg-dev/portfolio-site/internal/logging"
)

// UserStore is the credential store (postgres or memory).
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	EnsureUser(ctx context.Context, user *domain.User) (bool, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// SessionStore persists issued sessions.
type SessionStore interface {
	Save(ctx context.Context, sess *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Delete(ctx context.Context, sess *domain.Session) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

// LoginLimiter tracks failed logins per email.
type LoginLimiter interface {
	Locked(ctx context.Context, email string) (bool, time.Duration, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	limiter  LoginLimiter
	hasher   *password.Hasher
	signer   *token.Signer
	ttl      time.Duration
	now      func() time.Time

	// dummyHash is compared against when the email is unknown so both
	// branches of a failed login cost one bcrypt comparison.
	dummyHash string
}

func NewAuthService(users UserStore, sessions SessionStore, limiter LoginLimiter, hasher *password.Hasher, signer *token.Signer, ttl time.Duration) (*AuthService, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		limiter:   limiter,
		hasher:    hasher,
		signer:    signer,
		ttl:       ttl,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// Login checks the credential and issues a session token bound to the user.
func (s *AuthService) Login(ctx context.Context, email, plain string) (*domain.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plain == "" {
		return nil, domain.ErrInvalidCredentials
	}

	locked, _, err := s.limiter.Locked(ctx, email)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, domain.ErrAccountLocked
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.hasher.Verify(plain, s.dummyHash)
		return nil, s.fail(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(plain, user.PasswordHash) {
		return nil, s.fail(ctx, email)
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		return nil, err
	}

	now := s.now()
	sess := &domain.Session{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IssuedAt:    now,
		ExpiresAt:   now.Add(s.ttl),
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	raw, err := s.signer.Issue(sess.ID, sess.UserID, sess.IssuedAt, sess.ExpiresAt)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logging.NewLogger(ctx).LogWarnf("auth.login", "record last login for %s: %v", user.Email, err)
	}
	user.LastLoginAt = &now

	return &domain.LoginResult{Token: raw, Session: sess, User: user}, nil
}

// Verify resolves a raw session token to a live session.
// Any problem with the token or the session yields domain.ErrUnauthorized.
func (s *AuthService) Verify(ctx context.Context, raw string) (*domain.Session, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, domain.ErrUnauthorized
	}

	claims, err := s.signer.Parse(raw)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}

	if sess.UserID != claims.Subject || !sess.Valid(s.now()) {
		return nil, domain.ErrUnauthorized
	}
	return sess, nil
}

// Logout revokes the session. A nil session is a no-op.
func (s *AuthService) Logout(ctx context.Context, sess *domain.Session) error {
	if sess == nil {
		return nil
	}
	return s.sessions.Delete(ctx, sess)
}

// EnsureAdmin creates the admin credential if no user with that email exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, plain, displayName string) (bool, error) {
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return false, err
	}
	return s.users.EnsureUser(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
	})
}

// SetPassword replaces a user's password and revokes all of that user's sessions.
func (s *AuthService) SetPassword(ctx context.Context, email, plain string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.Email, hash); err != nil {
		return err
	}
	return s.sessions.DeleteAllForUser(ctx, user.ID)
}

func (s *AuthService) fail(ctx context.Context, email string) error {
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		return err
	}
	return domain.ErrInvalidCredentials
}
