package friends

import (
	"context"
	"time"

	"github.com/pennypet/pennypet-backend/internal/apperr"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Request(ctx context.Context, requesterID, addresseeID string) error {
	if requesterID == addresseeID {
		return apperr.Validationf("cannot befriend yourself")
	}
	return s.store.Request(ctx, requesterID, addresseeID)
}

func (s *Service) Accept(ctx context.Context, userID, requesterID string) error {
	return s.store.Accept(ctx, userID, requesterID)
}

func (s *Service) IsAccepted(ctx context.Context, userID, friendID string) (bool, error) {
	return s.store.IsAccepted(ctx, userID, friendID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Friendship, error) {
	return s.store.List(ctx, userID)
}

func (s *Service) RecordInteraction(ctx context.Context, userID, friendID, kind string, at time.Time) error {
	return s.store.RecordInteraction(ctx, userID, friendID, kind, at)
}

func (s *Service) DistinctFriendsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	return s.store.DistinctFriendsSince(ctx, userID, since)
}
