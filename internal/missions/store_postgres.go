package missions

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

const missionColumns = `user_id::text, mission_type, mission_id, period_start, progress, target, completed, completed_at, claimed`

func scanMission(row pgx.Row) (Mission, error) {
	var m Mission
	err := row.Scan(&m.UserID, &m.Type, &m.MissionID, &m.PeriodStart, &m.Progress, &m.Target, &m.Completed, &m.CompletedAt, &m.Claimed)
	return m, err
}

func (s *PostgresStore) GetOrCreate(ctx context.Context, key Key, target int) (Mission, error) {
	_, err := s.Pool.Exec(ctx, `
INSERT INTO missions (user_id, mission_type, mission_id, period_start, progress, target)
VALUES ($1::uuid, $2, $3, $4, 0, $5)
ON CONFLICT (user_id, mission_type, mission_id, period_start) DO NOTHING
`, key.UserID, key.Type, key.MissionID, key.PeriodStart, target)
	if err != nil {
		return Mission{}, err
	}
	return s.Get(ctx, key)
}

func (s *PostgresStore) Get(ctx context.Context, key Key) (Mission, error) {
	m, err := scanMission(s.Pool.QueryRow(ctx, `
SELECT `+missionColumns+`
FROM missions
WHERE user_id = $1::uuid AND mission_type = $2 AND mission_id = $3 AND period_start = $4
`, key.UserID, key.Type, key.MissionID, key.PeriodStart))
	if errors.Is(err, pgx.ErrNoRows) {
		return Mission{}, apperr.NotFoundf("mission %s for this period", key.MissionID)
	}
	return m, err
}

func (s *PostgresStore) AddProgress(ctx context.Context, key Key, delta int) (Mission, error) {
	m, err := scanMission(s.Pool.QueryRow(ctx, `
UPDATE missions
SET progress = progress + $5, updated_at = NOW()
WHERE user_id = $1::uuid AND mission_type = $2 AND mission_id = $3 AND period_start = $4
RETURNING `+missionColumns,
		key.UserID, key.Type, key.MissionID, key.PeriodStart, delta))
	if errors.Is(err, pgx.ErrNoRows) {
		return Mission{}, apperr.NotFoundf("mission %s for this period", key.MissionID)
	}
	return m, err
}

func (s *PostgresStore) RaiseProgress(ctx context.Context, key Key, value int) (Mission, error) {
	m, err := scanMission(s.Pool.QueryRow(ctx, `
UPDATE missions
SET progress = GREATEST(progress, $5), updated_at = NOW()
WHERE user_id = $1::uuid AND mission_type = $2 AND mission_id = $3 AND period_start = $4
RETURNING `+missionColumns,
		key.UserID, key.Type, key.MissionID, key.PeriodStart, value))
	if errors.Is(err, pgx.ErrNoRows) {
		return Mission{}, apperr.NotFoundf("mission %s for this period", key.MissionID)
	}
	return m, err
}

func (s *PostgresStore) MarkCompleted(ctx context.Context, key Key, at time.Time) (bool, error) {
	ct, err := s.Pool.Exec(ctx, `
UPDATE missions
SET completed = true, completed_at = $5, updated_at = NOW()
WHERE user_id = $1::uuid AND mission_type = $2 AND mission_id = $3 AND period_start = $4
  AND completed = false AND progress >= target
`, key.UserID, key.Type, key.MissionID, key.PeriodStart, at)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// ClaimReward flips claimed and credits the pet inside one transaction, so
// the reward can never be granted twice or land without the flip.
func (s *PostgresStore) ClaimReward(ctx context.Context, key Key, points int64) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
UPDATE missions
SET claimed = true, updated_at = NOW()
WHERE user_id = $1::uuid AND mission_type = $2 AND mission_id = $3 AND period_start = $4
  AND completed = true AND claimed = false
`, key.UserID, key.Type, key.MissionID, key.PeriodStart)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		m, getErr := s.Get(ctx, key)
		if getErr != nil {
			return getErr
		}
		if m.Claimed {
			return apperr.InvalidStatef("reward already claimed")
		}
		return apperr.InvalidStatef("mission not complete")
	}

	_, err = tx.Exec(ctx, `
INSERT INTO pets (user_id, points, mood, fullness, consecutive_login_days)
VALUES ($1::uuid, GREATEST(0, 50 + $2), 70, 70, 0)
ON CONFLICT (user_id) DO UPDATE
SET points = GREATEST(0, pets.points + $2), updated_at = NOW()
`, key.UserID, points)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) ListPeriod(ctx context.Context, userID string, mtype MissionType, periodStart time.Time) ([]Mission, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT `+missionColumns+`
FROM missions
WHERE user_id = $1::uuid AND mission_type = $2 AND period_start = $3
ORDER BY mission_id
`, userID, mtype, periodStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
