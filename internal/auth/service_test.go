package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupService(t *testing.T) (*Service, *InMemoryUserStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	users := NewInMemoryUserStore()
	svc := NewService(users, NewSessionStore(client), "test-secret", time.Hour, nil)
	return svc, users
}

func addUser(t *testing.T, users *InMemoryUserStore, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	users.Add(&AdminUser{
		ID:           "user-1",
		Email:        email,
		PasswordHash: string(hash),
	})
}

func TestLoginAndValidate(t *testing.T) {
	svc, users := setupService(t)
	addUser(t, users, "staff@oakwell.example", "s3cret-pass")

	ctx := context.Background()
	token, err := svc.Login(ctx, "staff@oakwell.example", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.NotEmpty(t, session.JTI)
}

func TestLoginNormalizesEmail(t *testing.T) {
	svc, users := setupService(t)
	addUser(t, users, "Staff@Oakwell.example", "s3cret-pass")

	_, err := svc.Login(context.Background(), "  staff@oakwell.example ", "s3cret-pass")
	require.NoError(t, err)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, users := setupService(t)
	addUser(t, users, "staff@oakwell.example", "s3cret-pass")

	_, err := svc.Login(context.Background(), "staff@oakwell.example", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Login(context.Background(), "nobody@oakwell.example", "whatever")
	// Unknown user and wrong password are indistinguishable.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOutRevokesSession(t *testing.T) {
	svc, users := setupService(t)
	addUser(t, users, "staff@oakwell.example", "s3cret-pass")

	ctx := context.Background()
	token, err := svc.Login(ctx, "staff@oakwell.example", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, token))

	_, err = svc.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestValidateRejectsGarbageToken(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Validate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, err = svc.Validate(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc, users := setupService(t)
	addUser(t, users, "staff@oakwell.example", "s3cret-pass")

	ctx := context.Background()
	token, err := svc.Login(ctx, "staff@oakwell.example", "s3cret-pass")
	require.NoError(t, err)

	// Shift the service clock past the token expiry.
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSignOutIgnoresInvalidToken(t *testing.T) {
	svc, _ := setupService(t)
	assert.NoError(t, svc.SignOut(context.Background(), "junk"))
}
