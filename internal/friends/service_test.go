package friends

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pennypet/pennypet-backend/internal/apperr"
)

const (
	alice = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	bob   = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	carol = "cccccccc-cccc-cccc-cccc-cccccccccccc"
)

func TestRequestAndAccept(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	require.NoError(t, svc.Request(ctx, alice, bob))

	ok, err := svc.IsAccepted(ctx, alice, bob)
	require.NoError(t, err)
	require.False(t, ok, "pending is not accepted")

	require.NoError(t, svc.Accept(ctx, bob, alice))

	// Accepted in both directions.
	for _, pair := range [][2]string{{alice, bob}, {bob, alice}} {
		ok, err := svc.IsAccepted(ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestRequestRejectsSelfAndDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	err := svc.Request(ctx, alice, alice)
	require.True(t, errors.Is(err, apperr.ErrValidation))

	require.NoError(t, svc.Request(ctx, alice, bob))

	err = svc.Request(ctx, alice, bob)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))

	// The reverse direction counts as the same edge.
	err = svc.Request(ctx, bob, alice)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))
}

func TestAcceptErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	err := svc.Accept(ctx, bob, alice)
	require.True(t, errors.Is(err, apperr.ErrNotFound))

	require.NoError(t, svc.Request(ctx, alice, bob))
	require.NoError(t, svc.Accept(ctx, bob, alice))

	err = svc.Accept(ctx, bob, alice)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))
}

func TestDistinctFriendsSince(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordInteraction(ctx, alice, bob, KindPet, monday.Add(2*time.Hour)))
	require.NoError(t, store.RecordInteraction(ctx, alice, bob, KindFeed, monday.Add(3*time.Hour)))
	require.NoError(t, store.RecordInteraction(ctx, alice, carol, KindVisit, monday.Add(26*time.Hour)))
	// Before the window.
	require.NoError(t, store.RecordInteraction(ctx, alice, carol, KindVisit, monday.Add(-time.Hour)))

	n, err := store.DistinctFriendsSince(ctx, alice, monday)
	require.NoError(t, err)
	require.Equal(t, 2, n, "repeat interactions with the same friend count once")
}
