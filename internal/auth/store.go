package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore records live session ids in Redis. A token whose jti is
// absent here is revoked regardless of its JWT expiry, which is what
// makes sign-out immediate.
type SessionStore struct {
	redis *redis.Client
}

// NewSessionStore creates a session store over an existing client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{redis: client}
}

func (s *SessionStore) key(jti string) string {
	return "admin:session:" + jti
}

// Put records a session id for the given user with a TTL.
func (s *SessionStore) Put(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.key(jti), userID, ttl).Err(); err != nil {
		return fmt.Errorf("auth: store session: %w", err)
	}
	return nil
}

// UserID returns the user a live session belongs to, or ErrSessionInvalid.
func (s *SessionStore) UserID(ctx context.Context, jti string) (string, error) {
	userID, err := s.redis.Get(ctx, s.key(jti)).Result()
	if err == redis.Nil {
		return "", ErrSessionInvalid
	}
	if err != nil {
		return "", fmt.Errorf("auth: load session: %w", err)
	}
	return userID, nil
}

// Delete revokes a session. Deleting an absent session is not an error.
func (s *SessionStore) Delete(ctx context.Context, jti string) error {
	if err := s.redis.Del(ctx, s.key(jti)).Err(); err != nil {
		return fmt.Errorf("auth: delete session: %w", err)
	}
	return nil
}
