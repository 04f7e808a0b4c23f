package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Store is the durable-store contract the ledger engine runs against.
//
// Insert, Overwrite and Remove are compound writes: the transaction row
// change, the user's balance delta and the pet's point delta must commit
// atomically, so a caller can never observe a balance without its matching
// row or a deposit whose points were not reconciled. Balance and point
// deltas are applied as increments, never as absolute overwrites.
type Store interface {
	Insert(ctx context.Context, txn Transaction, balanceDelta decimal.Decimal, pointsDelta int64) (Transaction, error)
	Get(ctx context.Context, userID, id string) (Transaction, error)
	Overwrite(ctx context.Context, txn Transaction, balanceDelta decimal.Decimal, pointsDelta int64) (Transaction, error)
	Remove(ctx context.Context, userID, id string, balanceDelta decimal.Decimal, pointsDelta int64) error

	List(ctx context.Context, userID string, limit int) ([]Transaction, error)
	Balance(ctx context.Context, userID string) (decimal.Decimal, error)
	Totals(ctx context.Context, userID string, from, to time.Time) (Totals, error)

	// DistinctTransactionDays counts the distinct calendar days carrying at
	// least one transaction dated in [from, to). Day boundaries are taken
	// in loc, the engine's single configured zone. Feeds the record_5_days
	// weekly mission recompute.
	DistinctTransactionDays(ctx context.Context, userID string, from, to time.Time, loc *time.Location) (int, error)

	// FindUserCategory and FindDefaultCategory back category resolution.
	// Both return apperr.ErrNotFound when no row matches; neither ever
	// creates a category.
	FindUserCategory(ctx context.Context, userID, name string, typeID Type) (int64, error)
	FindDefaultCategory(ctx context.Context, typeID Type) (int64, error)

	// CategoryExists reports whether the category is usable by the user:
	// a system category or the user's own custom one.
	CategoryExists(ctx context.Context, userID string, id int64, typeID Type) (bool, error)
}
