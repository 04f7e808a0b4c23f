package missions

import (
	"context"
	"time"
)

// Store is the durable-store contract for mission rows.
//
// The completed and claimed transitions are conditional writes: the store
// only flips completed on a row where it is still false and progress has
// reached target, and only flips claimed where completed is true and
// claimed still false. ClaimReward couples the claimed flip with the point
// grant in one storage transaction so the reward lands exactly once.
type Store interface {
	GetOrCreate(ctx context.Context, key Key, target int) (Mission, error)
	Get(ctx context.Context, key Key) (Mission, error)

	// AddProgress applies an atomic progress increment and returns the row.
	AddProgress(ctx context.Context, key Key, delta int) (Mission, error)

	// RaiseProgress overwrites progress with max(progress, value); used by
	// aggregate recomputes to keep progress monotonic without
	// double-counting.
	RaiseProgress(ctx context.Context, key Key, value int) (Mission, error)

	// MarkCompleted flips completed once progress has reached target.
	// Returns false when the row was already completed (or short).
	MarkCompleted(ctx context.Context, key Key, at time.Time) (bool, error)

	// ClaimReward flips claimed and credits points to the user's pet in
	// one transaction. apperr.ErrInvalidState when not completed or
	// already claimed; apperr.ErrNotFound when no row exists.
	ClaimReward(ctx context.Context, key Key, points int64) error

	ListPeriod(ctx context.Context, userID string, mtype MissionType, periodStart time.Time) ([]Mission, error)
}
