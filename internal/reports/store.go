package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

// Item is one statement line with its category resolved.
type Item struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Note     string          `json:"note,omitempty"`
}

// CategoryTotal aggregates one category's activity in the period.
type CategoryTotal struct {
	Category string          `json:"category"`
	Type     string          `json:"type"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

func (s *Store) StatementRows(ctx context.Context, userID string, from, to time.Time) ([]Item, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT t.id::text,
       CASE t.type_id WHEN 1 THEN 'expense' WHEN 2 THEN 'income' ELSE 'deposit' END,
       c.name,
       t.amount,
       to_char(t.date, 'YYYY-MM-DD'),
       COALESCE(t.note, '')
FROM transactions t
JOIN categories c ON c.id = t.category_id
WHERE t.user_id = $1::uuid AND t.date >= $2 AND t.date < $3
ORDER BY t.date DESC, t.created_at DESC
LIMIT 2000
`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Type, &it.Category, &it.Amount, &it.Date, &it.Note); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) CategoryTotals(ctx context.Context, userID string, from, to time.Time) ([]CategoryTotal, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT c.name,
       CASE t.type_id WHEN 1 THEN 'expense' WHEN 2 THEN 'income' ELSE 'deposit' END,
       COALESCE(SUM(t.amount), 0),
       COUNT(*)
FROM transactions t
JOIN categories c ON c.id = t.category_id
WHERE t.user_id = $1::uuid AND t.date >= $2 AND t.date < $3
GROUP BY c.name, t.type_id
ORDER BY 3 DESC
LIMIT 20
`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Type, &ct.Total, &ct.Count); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}
