package friends

import (
	"context"
	"sync"
	"time"

	"github.com/pennypet/pennypet-backend/internal/apperr"
)

// MemoryStore provides an in-memory implementation of Store for testing.
type MemoryStore struct {
	mu           sync.Mutex
	edges        map[[2]string]Friendship
	interactions []Interaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{edges: make(map[[2]string]Friendship)}
}

func (s *MemoryStore) Request(ctx context.Context, requesterID, addresseeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.edges[[2]string{requesterID, addresseeID}]; ok {
		return apperr.InvalidStatef("friendship already exists or is pending")
	}
	if _, ok := s.edges[[2]string{addresseeID, requesterID}]; ok {
		return apperr.InvalidStatef("friendship already exists or is pending")
	}
	s.edges[[2]string{requesterID, addresseeID}] = Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	return nil
}

func (s *MemoryStore) Accept(ctx context.Context, userID, requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]string{requesterID, userID}
	f, ok := s.edges[key]
	if !ok {
		return apperr.NotFoundf("friend request")
	}
	if f.Status != StatusPending {
		return apperr.InvalidStatef("friend request is %s", f.Status)
	}
	f.Status = StatusAccepted
	s.edges[key] = f
	return nil
}

func (s *MemoryStore) IsAccepted(ctx context.Context, userID, friendID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.edges[[2]string{userID, friendID}]; ok && f.Status == StatusAccepted {
		return true, nil
	}
	if f, ok := s.edges[[2]string{friendID, userID}]; ok && f.Status == StatusAccepted {
		return true, nil
	}
	return false, nil
}

func (s *MemoryStore) RecordInteraction(ctx context.Context, userID, friendID, kind string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interactions = append(s.interactions, Interaction{
		UserID:    userID,
		FriendID:  friendID,
		Kind:      kind,
		CreatedAt: at,
	})
	return nil
}

func (s *MemoryStore) DistinctFriendsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	for _, in := range s.interactions {
		if in.UserID == userID && !in.CreatedAt.Before(since) {
			seen[in.FriendID] = struct{}{}
		}
	}
	return len(seen), nil
}

func (s *MemoryStore) List(ctx context.Context, userID string) ([]Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Friendship
	for _, f := range s.edges {
		if f.RequesterID == userID || f.AddresseeID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}
