package friends

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pennypet/pennypet-backend/internal/apperr"
)

type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

func (s *PostgresStore) Request(ctx context.Context, requesterID, addresseeID string) error {
	var exists bool
	err := s.Pool.QueryRow(ctx, `
SELECT EXISTS (
    SELECT 1 FROM friendships
    WHERE (requester_id = $1::uuid AND addressee_id = $2::uuid)
       OR (requester_id = $2::uuid AND addressee_id = $1::uuid)
)
`, requesterID, addresseeID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return apperr.InvalidStatef("friendship already exists or is pending")
	}

	_, err = s.Pool.Exec(ctx, `
INSERT INTO friendships (requester_id, addressee_id, status)
VALUES ($1::uuid, $2::uuid, 'pending')
ON CONFLICT (requester_id, addressee_id) DO NOTHING
`, requesterID, addresseeID)
	return err
}

func (s *PostgresStore) Accept(ctx context.Context, userID, requesterID string) error {
	ct, err := s.Pool.Exec(ctx, `
UPDATE friendships
SET status = 'accepted', updated_at = NOW()
WHERE requester_id = $1::uuid AND addressee_id = $2::uuid AND status = 'pending'
`, requesterID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() > 0 {
		return nil
	}

	var status string
	err = s.Pool.QueryRow(ctx, `
SELECT status FROM friendships
WHERE requester_id = $1::uuid AND addressee_id = $2::uuid
`, requesterID, userID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFoundf("friend request")
	}
	if err != nil {
		return err
	}
	return apperr.InvalidStatef("friend request is %s", status)
}

func (s *PostgresStore) IsAccepted(ctx context.Context, userID, friendID string) (bool, error) {
	var ok bool
	err := s.Pool.QueryRow(ctx, `
SELECT EXISTS (
    SELECT 1 FROM friendships
    WHERE status = 'accepted'
      AND ((requester_id = $1::uuid AND addressee_id = $2::uuid)
        OR (requester_id = $2::uuid AND addressee_id = $1::uuid))
)
`, userID, friendID).Scan(&ok)
	return ok, err
}

func (s *PostgresStore) RecordInteraction(ctx context.Context, userID, friendID, kind string, at time.Time) error {
	_, err := s.Pool.Exec(ctx, `
INSERT INTO friend_interactions (user_id, friend_id, kind, created_at)
VALUES ($1::uuid, $2::uuid, $3, $4)
`, userID, friendID, kind, at)
	return err
}

func (s *PostgresStore) DistinctFriendsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var n int
	err := s.Pool.QueryRow(ctx, `
SELECT COUNT(DISTINCT friend_id)
FROM friend_interactions
WHERE user_id = $1::uuid AND created_at >= $2
`, userID, since).Scan(&n)
	return n, err
}

func (s *PostgresStore) List(ctx context.Context, userID string) ([]Friendship, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT requester_id::text, addressee_id::text, status, created_at
FROM friendships
WHERE requester_id = $1::uuid OR addressee_id = $1::uuid
ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Friendship
	for rows.Next() {
		var f Friendship
		if err := rows.Scan(&f.RequesterID, &f.AddresseeID, &f.Status, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
