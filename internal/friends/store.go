package friends

import (
	"context"
	"time"
)

// Store keeps friendship edges and the interaction log that feeds the
// weekly interact_3_friends recompute.
type Store interface {
	// Request creates a pending edge; an existing edge in either
	// direction is apperr.ErrInvalidState.
	Request(ctx context.Context, requesterID, addresseeID string) error

	// Accept flips the pending edge requested by requesterID towards
	// userID. Missing edge is apperr.ErrNotFound; a non-pending one is
	// apperr.ErrInvalidState.
	Accept(ctx context.Context, userID, requesterID string) error

	// IsAccepted reports an accepted edge in either direction.
	IsAccepted(ctx context.Context, userID, friendID string) (bool, error)

	RecordInteraction(ctx context.Context, userID, friendID, kind string, at time.Time) error

	// DistinctFriendsSince counts distinct friends the user interacted
	// with at or after since.
	DistinctFriendsSince(ctx context.Context, userID string, since time.Time) (int, error)

	List(ctx context.Context, userID string) ([]Friendship, error)
}
