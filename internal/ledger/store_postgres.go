package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pennypet/pennypet-backend/internal/apperr"
)

type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

const txnColumns = `id::text, user_id::text, amount, type_id, category_id, date, COALESCE(note,''), created_at, updated_at`

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.TypeID, &t.CategoryID, &t.Date, &t.Note, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *PostgresStore) Insert(ctx context.Context, txn Transaction, balanceDelta decimal.Decimal, pointsDelta int64) (Transaction, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, err
	}
	defer tx.Rollback(ctx)

	created, err := scanTransaction(tx.QueryRow(ctx, `
INSERT INTO transactions (id, user_id, amount, type_id, category_id, date, note)
VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, NULLIF($7,''))
RETURNING `+txnColumns,
		txn.ID, txn.UserID, txn.Amount, txn.TypeID, txn.CategoryID, txn.Date, txn.Note))
	if err != nil {
		return Transaction{}, err
	}

	if err := applyDeltas(ctx, tx, txn.UserID, balanceDelta, pointsDelta); err != nil {
		return Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, err
	}
	return created, nil
}

func (s *PostgresStore) Get(ctx context.Context, userID, id string) (Transaction, error) {
	t, err := scanTransaction(s.Pool.QueryRow(ctx, `
SELECT `+txnColumns+`
FROM transactions
WHERE id = $1::uuid AND user_id = $2::uuid
`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, apperr.NotFoundf("transaction %s", id)
	}
	return t, err
}

func (s *PostgresStore) Overwrite(ctx context.Context, txn Transaction, balanceDelta decimal.Decimal, pointsDelta int64) (Transaction, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, err
	}
	defer tx.Rollback(ctx)

	updated, err := scanTransaction(tx.QueryRow(ctx, `
UPDATE transactions
SET amount = $3, type_id = $4, category_id = $5, date = $6, note = NULLIF($7,''), updated_at = NOW()
WHERE id = $1::uuid AND user_id = $2::uuid
RETURNING `+txnColumns,
		txn.ID, txn.UserID, txn.Amount, txn.TypeID, txn.CategoryID, txn.Date, txn.Note))
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, apperr.NotFoundf("transaction %s", txn.ID)
	}
	if err != nil {
		return Transaction{}, err
	}

	if err := applyDeltas(ctx, tx, txn.UserID, balanceDelta, pointsDelta); err != nil {
		return Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, err
	}
	return updated, nil
}

func (s *PostgresStore) Remove(ctx context.Context, userID, id string, balanceDelta decimal.Decimal, pointsDelta int64) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1::uuid AND user_id = $2::uuid`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFoundf("transaction %s", id)
	}

	if err := applyDeltas(ctx, tx, userID, balanceDelta, pointsDelta); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// applyDeltas moves the balance and pet points as increments inside the
// caller's transaction. The pet row is seeded on first touch so a deposit
// can land before the pet page was ever opened.
func applyDeltas(ctx context.Context, tx pgx.Tx, userID string, balanceDelta decimal.Decimal, pointsDelta int64) error {
	ct, err := tx.Exec(ctx, `
UPDATE users SET balance = balance + $2, updated_at = NOW() WHERE id = $1::uuid
`, userID, balanceDelta)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFoundf("user %s", userID)
	}

	if pointsDelta == 0 {
		return nil
	}
	_, err = tx.Exec(ctx, `
INSERT INTO pets (user_id, points, mood, fullness, consecutive_login_days)
VALUES ($1::uuid, GREATEST(0, 50 + $2), 70, 70, 0)
ON CONFLICT (user_id) DO UPDATE
SET points = GREATEST(0, pets.points + $2), updated_at = NOW()
`, userID, pointsDelta)
	return err
}

func (s *PostgresStore) List(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
SELECT `+txnColumns+`
FROM transactions
WHERE user_id = $1::uuid
ORDER BY date DESC, created_at DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Transaction, 0, limit)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var b decimal.Decimal
	err := s.Pool.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1::uuid`, userID).Scan(&b)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, apperr.NotFoundf("user %s", userID)
	}
	return b, err
}

func (s *PostgresStore) Totals(ctx context.Context, userID string, from, to time.Time) (Totals, error) {
	var t Totals
	err := s.Pool.QueryRow(ctx, `
SELECT
	COALESCE(SUM(amount) FILTER (WHERE type_id = $4), 0),
	COALESCE(SUM(amount) FILTER (WHERE type_id = $5), 0),
	COALESCE(SUM(amount) FILTER (WHERE type_id = $6), 0)
FROM transactions
WHERE user_id = $1::uuid AND date >= $2 AND date < $3
`, userID, from, to, TypeIncome, TypeExpense, TypeDeposit).Scan(&t.Income, &t.Expense, &t.Deposit)
	if err != nil {
		return Totals{}, err
	}
	t.Balance = t.Income.Sub(t.Expense).Sub(t.Deposit)
	return t, nil
}

// DistinctTransactionDays buckets days in the engine's zone, not the DB
// session's, so its boundaries match clock.DayStart everywhere.
func (s *PostgresStore) DistinctTransactionDays(ctx context.Context, userID string, from, to time.Time, loc *time.Location) (int, error) {
	var n int
	err := s.Pool.QueryRow(ctx, `
SELECT COUNT(DISTINCT (date AT TIME ZONE $4)::date)
FROM transactions
WHERE user_id = $1::uuid AND date >= $2 AND date < $3
`, userID, from, to, loc.String()).Scan(&n)
	return n, err
}

func (s *PostgresStore) FindUserCategory(ctx context.Context, userID, name string, typeID Type) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
SELECT id FROM categories
WHERE user_id = $1::uuid AND lower(name) = lower($2) AND type_id = $3
`, userID, name, typeID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("user category %q: %w", name, apperr.ErrNotFound)
	}
	return id, err
}

func (s *PostgresStore) FindDefaultCategory(ctx context.Context, typeID Type) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
SELECT id FROM categories
WHERE user_id IS NULL AND type_id = $1 AND is_default
`, typeID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("default category for type %s: %w", typeID, apperr.ErrNotFound)
	}
	return id, err
}

func (s *PostgresStore) CategoryExists(ctx context.Context, userID string, id int64, typeID Type) (bool, error) {
	var ok bool
	err := s.Pool.QueryRow(ctx, `
SELECT EXISTS (
    SELECT 1 FROM categories
    WHERE id = $1 AND type_id = $2 AND (user_id IS NULL OR user_id = $3::uuid)
)
`, id, typeID, userID).Scan(&ok)
	return ok, err
}
