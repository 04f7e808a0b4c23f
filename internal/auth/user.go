package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pennypet/pennypet-backend/internal/apperr"
)

// User is a persisted account record.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserStore struct {
	Pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{Pool: pool}
}

func (s *UserStore) Create(ctx context.Context, email, passwordHash, displayName string) (User, error) {
	var u User
	err := s.Pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, display_name)
VALUES ($1, $2, $3)
RETURNING id::text, email, display_name, created_at
`, email, passwordHash, displayName).Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return User{}, apperr.InvalidStatef("email already registered")
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// FindByEmail returns the user and their password hash for login checks.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (User, string, error) {
	var (
		u    User
		hash string
	)
	err := s.Pool.QueryRow(ctx, `
SELECT id::text, email, display_name, created_at, password_hash
FROM users
WHERE email = $1
`, email).Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, "", apperr.NotFoundf("user %s", email)
	}
	if err != nil {
		return User{}, "", err
	}
	return u, hash, nil
}

func (s *UserStore) Get(ctx context.Context, id string) (User, error) {
	var u User
	err := s.Pool.QueryRow(ctx, `
SELECT id::text, email, display_name, created_at
FROM users
WHERE id = $1::uuid
`, id).Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFoundf("user %s", id)
	}
	return u, err
}
