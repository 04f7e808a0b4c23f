package pet

import (
	"context"
	"time"
)

// Store is the durable-store contract for pet state.
//
// Time-gated transitions (decay, login bonus, streak, visit bonus) are
// read-compute-write cycles committed through UpdateGuarded, a
// compare-and-swap on the row version: a write whose version no longer
// matches returns apperr.ErrConflict and changes nothing, which is what
// makes each effect at-most-once per calendar day under concurrent
// requests. Interaction effects use relative, clamped increments and
// cannot conflict; they still advance the version so an in-flight guarded
// write observes them.
type Store interface {
	// GetOrCreate lazily seeds the pet on first access.
	GetOrCreate(ctx context.Context, userID string) (Pet, error)
	Get(ctx context.Context, userID string) (Pet, error)

	// UpdateGuarded commits p's meters, timestamps and streak iff the
	// stored version still equals p.Version. pointsDelta is applied as an
	// increment floored at zero, never as an absolute write.
	UpdateGuarded(ctx context.Context, p Pet, pointsDelta int64) (Pet, error)

	// BumpMeters applies clamped relative mood/fullness deltas.
	BumpMeters(ctx context.Context, userID string, moodDelta, fullnessDelta int) (Pet, error)

	// AddPoints applies an atomic point increment; a negative delta that
	// would take points below zero fails with apperr.ErrInvalidState.
	AddPoints(ctx context.Context, userID string, delta int64) (Pet, error)

	// Restart resets points/meters/streak to seed values and stamps the
	// login/reset times. Purchases and history are untouched.
	Restart(ctx context.Context, userID string, now, dayStart time.Time) (Pet, error)

	// PurchaseItem debits cost*qty points (rejecting insufficient funds),
	// applies moodDelta, and upserts the inventory row, atomically.
	PurchaseItem(ctx context.Context, userID string, item ShopItem, qty int, moodDelta int) (Purchase, error)

	// ConsumeAndFeed decrements one unit from the purchase (deleting the
	// row at zero) and raises fullness by the item's cost, atomically.
	ConsumeAndFeed(ctx context.Context, userID, purchaseID string) (Pet, error)

	GetPurchase(ctx context.Context, userID, purchaseID string) (Purchase, error)
	ListInventory(ctx context.Context, userID string) ([]Purchase, error)
}
