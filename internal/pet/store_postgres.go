package pet

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

const petColumns = `user_id::text, points, mood, fullness, last_login_at, last_daily_reset, last_page_visit, consecutive_login_days, version, created_at, updated_at`

func scanPet(row pgx.Row) (Pet, error) {
	var p Pet
	err := row.Scan(&p.UserID, &p.Points, &p.Mood, &p.Fullness, &p.LastLoginAt, &p.LastDailyReset, &p.LastPageVisit, &p.ConsecutiveLoginDays, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *PostgresStore) GetOrCreate(ctx context.Context, userID string) (Pet, error) {
	_, err := s.Pool.Exec(ctx, `
INSERT INTO pets (user_id, points, mood, fullness, consecutive_login_days)
VALUES ($1::uuid, $2, $3, $4, 0)
ON CONFLICT (user_id) DO NOTHING
`, userID, SeedPoints, SeedMood, SeedFullness)
	if err != nil {
		return Pet{}, err
	}
	return s.Get(ctx, userID)
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (Pet, error) {
	p, err := scanPet(s.Pool.QueryRow(ctx, `SELECT `+petColumns+` FROM pets WHERE user_id = $1::uuid`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Pet{}, apperr.NotFoundf("pet for user %s", userID)
	}
	return p, err
}

// UpdateGuarded commits only if the version is unchanged since the read.
// A lost race returns apperr.ErrConflict so the caller can re-evaluate the
// day guards against fresh state.
func (s *PostgresStore) UpdateGuarded(ctx context.Context, p Pet, pointsDelta int64) (Pet, error) {
	updated, err := scanPet(s.Pool.QueryRow(ctx, `
UPDATE pets
SET mood = $3, fullness = $4,
    last_login_at = $5, last_daily_reset = $6, last_page_visit = $7,
    consecutive_login_days = $8,
    points = GREATEST(0, points + $9),
    version = version + 1, updated_at = NOW()
WHERE user_id = $1::uuid AND version = $2
RETURNING `+petColumns,
		p.UserID, p.Version, p.Mood, p.Fullness,
		p.LastLoginAt, p.LastDailyReset, p.LastPageVisit,
		p.ConsecutiveLoginDays, pointsDelta))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.Get(ctx, p.UserID); getErr != nil {
			return Pet{}, getErr
		}
		return Pet{}, apperr.ErrConflict
	}
	return updated, err
}

func (s *PostgresStore) BumpMeters(ctx context.Context, userID string, moodDelta, fullnessDelta int) (Pet, error) {
	p, err := scanPet(s.Pool.QueryRow(ctx, `
UPDATE pets
SET mood = LEAST(100, GREATEST(0, mood + $2)),
    fullness = LEAST(100, GREATEST(0, fullness + $3)),
    version = version + 1, updated_at = NOW()
WHERE user_id = $1::uuid
RETURNING `+petColumns, userID, moodDelta, fullnessDelta))
	if errors.Is(err, pgx.ErrNoRows) {
		return Pet{}, apperr.NotFoundf("pet for user %s", userID)
	}
	return p, err
}

func (s *PostgresStore) AddPoints(ctx context.Context, userID string, delta int64) (Pet, error) {
	p, err := scanPet(s.Pool.QueryRow(ctx, `
UPDATE pets
SET points = points + $2, version = version + 1, updated_at = NOW()
WHERE user_id = $1::uuid AND points + $2 >= 0
RETURNING `+petColumns, userID, delta))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.Get(ctx, userID); getErr != nil {
			return Pet{}, getErr
		}
		return Pet{}, apperr.InvalidStatef("insufficient points")
	}
	return p, err
}

func (s *PostgresStore) Restart(ctx context.Context, userID string, now, dayStart time.Time) (Pet, error) {
	p, err := scanPet(s.Pool.QueryRow(ctx, `
UPDATE pets
SET points = $2, mood = $3, fullness = $4,
    last_login_at = $5, last_daily_reset = $6, last_page_visit = NULL,
    consecutive_login_days = 0,
    version = version + 1, updated_at = NOW()
WHERE user_id = $1::uuid
RETURNING `+petColumns, userID, SeedPoints, SeedMood, SeedFullness, now, dayStart))
	if errors.Is(err, pgx.ErrNoRows) {
		return Pet{}, apperr.NotFoundf("pet for user %s", userID)
	}
	return p, err
}

func (s *PostgresStore) PurchaseItem(ctx context.Context, userID string, item ShopItem, qty int, moodDelta int) (Purchase, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Purchase{}, err
	}
	defer tx.Rollback(ctx)

	cost := item.Cost * int64(qty)
	ct, err := tx.Exec(ctx, `
UPDATE pets
SET points = points - $2,
    mood = LEAST(100, mood + $3),
    version = version + 1, updated_at = NOW()
WHERE user_id = $1::uuid AND points >= $2
`, userID, cost, moodDelta)
	if err != nil {
		return Purchase{}, err
	}
	if ct.RowsAffected() == 0 {
		if _, getErr := s.Get(ctx, userID); getErr != nil {
			return Purchase{}, getErr
		}
		return Purchase{}, apperr.InvalidStatef("insufficient points for %s x%d", item.ID, qty)
	}

	var pu Purchase
	err = tx.QueryRow(ctx, `
INSERT INTO pet_purchases (user_id, item_id, category, cost, quantity)
VALUES ($1::uuid, $2, $3, $4, $5)
ON CONFLICT (user_id, item_id) DO UPDATE
SET quantity = pet_purchases.quantity + EXCLUDED.quantity
RETURNING id::text, user_id::text, item_id, category, cost, quantity, created_at
`, userID, item.ID, item.Category, item.Cost, qty).Scan(
		&pu.ID, &pu.UserID, &pu.ItemID, &pu.Category, &pu.Cost, &pu.Quantity, &pu.CreatedAt)
	if err != nil {
		return Purchase{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Purchase{}, err
	}
	return pu, nil
}

func (s *PostgresStore) ConsumeAndFeed(ctx context.Context, userID, purchaseID string) (Pet, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Pet{}, err
	}
	defer tx.Rollback(ctx)

	var remaining int
	var cost int64
	err = tx.QueryRow(ctx, `
UPDATE pet_purchases
SET quantity = quantity - 1
WHERE id = $1::uuid AND user_id = $2::uuid AND quantity > 0
RETURNING quantity, cost
`, purchaseID, userID).Scan(&remaining, &cost)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetPurchase(ctx, userID, purchaseID); getErr != nil {
			return Pet{}, getErr
		}
		return Pet{}, apperr.InvalidStatef("no units left of purchase %s", purchaseID)
	}
	if err != nil {
		return Pet{}, err
	}
	if remaining == 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM pet_purchases WHERE id = $1::uuid`, purchaseID); err != nil {
			return Pet{}, err
		}
	}

	p, err := scanPet(tx.QueryRow(ctx, `
UPDATE pets
SET fullness = LEAST(100, fullness + $2),
    version = version + 1, updated_at = NOW()
WHERE user_id = $1::uuid
RETURNING `+petColumns, userID, cost))
	if err != nil {
		return Pet{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *PostgresStore) GetPurchase(ctx context.Context, userID, purchaseID string) (Purchase, error) {
	var pu Purchase
	err := s.Pool.QueryRow(ctx, `
SELECT id::text, user_id::text, item_id, category, cost, quantity, created_at
FROM pet_purchases
WHERE id = $1::uuid AND user_id = $2::uuid
`, purchaseID, userID).Scan(&pu.ID, &pu.UserID, &pu.ItemID, &pu.Category, &pu.Cost, &pu.Quantity, &pu.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Purchase{}, apperr.NotFoundf("purchase %s", purchaseID)
	}
	return pu, err
}

func (s *PostgresStore) ListInventory(ctx context.Context, userID string) ([]Purchase, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT id::text, user_id::text, item_id, category, cost, quantity, created_at
FROM pet_purchases
WHERE user_id = $1::uuid
ORDER BY created_at
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Purchase
	for rows.Next() {
		var pu Purchase
		if err := rows.Scan(&pu.ID, &pu.UserID, &pu.ItemID, &pu.Category, &pu.Cost, &pu.Quantity, &pu.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, pu)
	}
	return out, rows.Err()
}
