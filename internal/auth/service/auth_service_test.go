package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jesseg-dev/portfolio-site/internal/auth/domain"
	"github.com/jesseg-dev/portfolio-site/internal/auth/password"
	"github.com/jesseg-dev/portfolio-site/internal/auth/repository"
	"github.com/jesseg-dev/portfolio-site/internal/auth/session"
	"github.com/jesseg-dev/portfolio-site/internal/auth/token"
	"github.com/jesseg-dev/portfolio-site/internal/logging"
)

type fixture struct {
	svc *AuthService
	mr  *miniredis.Miniredis
}

func setupAuthService(t *testing.T, maxAttempts int) fixture {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	svc, err := NewAuthService(
		repository.NewMemoryUserRepository(),
		session.NewStore(client),
		session.NewLockout(client, maxAttempts, 15*time.Minute),
		password.NewHasher(bcrypt.MinCost),
		token.NewSigner([]byte("test-secret"), "portfolio"),
		time.Hour,
	)
	require.NoError(t, err)

	created, err := svc.EnsureAdmin(context.Background(), "admin@example.com", "admin123", "Admin User")
	require.NoError(t, err)
	require.True(t, created)

	return fixture{svc: svc, mr: mr}
}

func TestAuthService_LoginAndVerify(t *testing.T) {
	f := setupAuthService(t, 5)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, " Admin@Example.com ", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "admin@example.com", res.Session.Email)
	assert.Equal(t, "Admin User", res.User.DisplayName)
	assert.NotNil(t, res.User.LastLoginAt)

	sess, err := f.svc.Verify(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Session.ID, sess.ID)
}

func TestAuthService_LoginFailures(t *testing.T) {
	f := setupAuthService(t, 5)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "nobody@example.com", "admin123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_LockoutAfterRepeatedFailures(t *testing.T) {
	f := setupAuthService(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.svc.Login(ctx, "admin@example.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}

	_, err := f.svc.Login(ctx, "admin@example.com", "admin123")
	assert.ErrorIs(t, err, domain.ErrAccountLocked)

	f.mr.FastForward(16 * time.Minute)

	_, err = f.svc.Login(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)
}

func TestAuthService_VerifyRejects(t *testing.T) {
	f := setupAuthService(t, 5)
	ctx := context.Background()

	t.Run("empty token", func(t *testing.T) {
		_, err := f.svc.Verify(ctx, "")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.svc.Verify(ctx, "abc.def.ghi")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("logged out session", func(t *testing.T) {
		res, err := f.svc.Login(ctx, "admin@example.com", "admin123")
		require.NoError(t, err)

		require.NoError(t, f.svc.Logout(ctx, res.Session))

		_, err = f.svc.Verify(ctx, res.Token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("expired session", func(t *testing.T) {
		res, err := f.svc.Login(ctx, "admin@example.com", "admin123")
		require.NoError(t, err)

		f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { f.svc.now = time.Now }()

		_, err = f.svc.Verify(ctx, res.Token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestAuthService_SetPasswordRevokesSessions(t *testing.T) {
	f := setupAuthService(t, 5)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)

	require.NoError(t, f.svc.SetPassword(ctx, "admin@example.com", "n3w-pass"))

	_, err = f.svc.Verify(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.Login(ctx, "admin@example.com", "admin123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "admin@example.com", "n3w-pass")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.SetPassword(ctx, "ghost@example.com", "x"), domain.ErrUserNotFound)
}

func TestAuthService_EnsureAdminIsIdempotent(t *testing.T) {
	f := setupAuthService(t, 5)
	ctx := context.Background()

	created, err := f.svc.EnsureAdmin(ctx, "admin@example.com", "different", "Other")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = f.svc.Login(ctx, "admin@example.com", "admin123")
	require.NoError(t, err, "existing credential is not overwritten by seeding")
}

type lastLoginFails struct {
	*repository.MemoryUserRepository
}

func (lastLoginFails) UpdateLastLogin(context.Context, string, time.Time) error {
	return errors.New("users table locked")
}

func TestAuthService_LoginSurvivesLastLoginFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	svc, err := NewAuthService(
		lastLoginFails{repository.NewMemoryUserRepository()},
		session.NewStore(client),
		session.NewLockout(client, 5, 15*time.Minute),
		password.NewHasher(bcrypt.MinCost),
		token.NewSigner([]byte("test-secret"), "portfolio"),
		time.Hour,
	)
	require.NoError(t, err)
	ctx := context.Background()
	_, err = svc.EnsureAdmin(ctx, "admin@example.com", "admin123", "Admin User")
	require.NoError(t, err)

	hook := logtest.NewLocal(logging.L())
	defer hook.Reset()

	res, err := svc.Login(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "auth.login", entry.Data["operation"])
	assert.Contains(t, entry.Message, "users table locked")
}
