package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminUser is a staff account allowed into the admin dashboard.
type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore looks up admin users for login.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*AdminUser, error)
}

// pgxRow is the subset of pgxpool.Pool the store needs.
type pgxUserDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresUserStore reads admin users from the relational database.
type PostgresUserStore struct {
	db pgxUserDB
}

// NewPostgresUserStore initializes a store backed by pgxpool.
func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	if pool == nil {
		panic("auth: pgx pool required")
	}
	return &PostgresUserStore{db: pool}
}

// NewPostgresUserStoreWithDB allows injecting mocks for tests.
func NewPostgresUserStoreWithDB(db pgxUserDB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// GetByEmail fetches an admin user by normalized email.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM admin_users
		WHERE email = $1
	`
	var user AdminUser
	err := s.db.QueryRow(ctx, query, normalizeEmail(email)).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("auth: select admin user: %w", err)
	}
	return &user, nil
}

// InMemoryUserStore holds admin users in memory for tests and local
// development.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*AdminUser
}

// NewInMemoryUserStore creates an empty in-memory user store.
func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]*AdminUser)}
}

// Add registers a user keyed by normalized email.
func (s *InMemoryUserStore) Add(user *AdminUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[normalizeEmail(user.Email)] = user
}

// GetByEmail fetches a user by normalized email.
func (s *InMemoryUserStore) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
