package economy

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pennypet/pennypet-backend/internal/apperr"
	"github.com/pennypet/pennypet-backend/internal/clock"
	"github.com/pennypet/pennypet-backend/internal/friends"
	"github.com/pennypet/pennypet-backend/internal/ledger"
	"github.com/pennypet/pennypet-backend/internal/logger"
	"github.com/pennypet/pennypet-backend/internal/missions"
	"github.com/pennypet/pennypet-backend/internal/pet"
)

// Service ties the ledger, pet, mission and friend services into the
// user-facing operations. Monetary and pet state commit first; mission
// progress is derived afterwards and recomputed on read, so a mission
// write failure can delay progress but never corrupt balances or points.
type Service struct {
	ledger   *ledger.Service
	pets     *pet.Service
	missions *missions.Service
	friends  *friends.Service
	clock    clock.Clock
}

func NewService(l *ledger.Service, p *pet.Service, m *missions.Service, f *friends.Service, c clock.Clock) *Service {
	return &Service{ledger: l, pets: p, missions: m, friends: f, clock: c}
}

// retryOnConflict re-runs a compare-and-swap operation once when it loses
// the race. A second loss surfaces to the caller.
func retryOnConflict[T any](fn func() (T, error)) (T, error) {
	out, err := fn()
	if errors.Is(err, apperr.ErrConflict) {
		out, err = fn()
	}
	return out, err
}

func (s *Service) RecordTransaction(ctx context.Context, in ledger.RecordInput) (ledger.Transaction, error) {
	txn, err := s.ledger.Record(ctx, in)
	if err != nil {
		return ledger.Transaction{}, err
	}
	s.progress(ctx, in.UserID, missions.RecordTransaction)
	s.recomputeTransactionDays(ctx, in.UserID)
	return txn, nil
}

func (s *Service) UpdateTransaction(ctx context.Context, userID, id string, in ledger.UpdateInput) (ledger.Transaction, error) {
	txn, err := s.ledger.Update(ctx, userID, id, in)
	if err != nil {
		return ledger.Transaction{}, err
	}
	s.progress(ctx, userID, missions.EditTransaction)
	s.recomputeTransactionDays(ctx, userID)
	return txn, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := s.ledger.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.recomputeTransactionDays(ctx, userID)
	return nil
}

// Pet returns current pet state with the lazy daily transitions applied.
func (s *Service) Pet(ctx context.Context, userID string) (pet.Pet, error) {
	return retryOnConflict(func() (pet.Pet, error) {
		return s.pets.Refresh(ctx, userID)
	})
}

// VisitPetPage runs the daily transitions, grants the once-per-day visit
// bonus and progresses the check-pet mission.
func (s *Service) VisitPetPage(ctx context.Context, userID string) (pet.Pet, error) {
	p, err := retryOnConflict(func() (pet.Pet, error) {
		return s.pets.Refresh(ctx, userID)
	})
	if err != nil {
		return pet.Pet{}, err
	}

	type visit struct {
		pet     pet.Pet
		granted bool
	}
	v, err := retryOnConflict(func() (visit, error) {
		p, granted, err := s.pets.RecordVisit(ctx, userID)
		return visit{pet: p, granted: granted}, err
	})
	if err != nil {
		return p, err
	}

	s.progress(ctx, userID, missions.CheckPet)
	return v.pet, nil
}

func (s *Service) PetPet(ctx context.Context, userID string) (pet.Pet, error) {
	return s.pets.Petting(ctx, userID)
}

func (s *Service) FeedPet(ctx context.Context, userID, purchaseID string) (pet.Pet, error) {
	return s.pets.Feed(ctx, userID, purchaseID)
}

func (s *Service) PurchaseItem(ctx context.Context, userID, itemID string, qty int) (pet.Purchase, error) {
	return s.pets.Purchase(ctx, userID, itemID, qty)
}

func (s *Service) RestartPet(ctx context.Context, userID string) (pet.Pet, error) {
	return s.pets.Restart(ctx, userID)
}

func (s *Service) Inventory(ctx context.Context, userID string) ([]pet.Purchase, error) {
	return s.pets.Inventory(ctx, userID)
}

// VisitFriend records a visit to a friend's pet page and returns the
// friend's pet for display. Requires an accepted friendship.
func (s *Service) VisitFriend(ctx context.Context, userID, friendID string) (pet.Pet, error) {
	if err := s.requireFriend(ctx, userID, friendID); err != nil {
		return pet.Pet{}, err
	}
	p, err := s.pets.Get(ctx, friendID)
	if err != nil {
		return pet.Pet{}, err
	}
	s.recordInteraction(ctx, userID, friendID, friends.KindVisit)
	s.progress(ctx, userID, missions.VisitFriend)
	s.recomputeFriendInteractions(ctx, userID)
	return p, nil
}

func (s *Service) PetFriend(ctx context.Context, userID, friendID string) (pet.Pet, error) {
	p, err := s.pets.PetFriend(ctx, userID, friendID)
	if err != nil {
		return pet.Pet{}, err
	}
	s.recordInteraction(ctx, userID, friendID, friends.KindPet)
	s.progress(ctx, userID, missions.PetFriend)
	s.recomputeFriendInteractions(ctx, userID)
	return p, nil
}

func (s *Service) FeedFriend(ctx context.Context, userID, friendID string) (pet.Pet, error) {
	p, err := s.pets.FeedFriend(ctx, userID, friendID)
	if err != nil {
		return pet.Pet{}, err
	}
	s.recordInteraction(ctx, userID, friendID, friends.KindFeed)
	s.recomputeFriendInteractions(ctx, userID)
	return p, nil
}

// Missions recomputes the weekly aggregates and returns the full daily and
// weekly boards for the current period.
func (s *Service) Missions(ctx context.Context, userID string) (daily, weekly []missions.Mission, err error) {
	s.recomputeTransactionDays(ctx, userID)
	s.recomputeFriendInteractions(ctx, userID)
	return s.missions.Overview(ctx, userID)
}

func (s *Service) ClaimMission(ctx context.Context, userID, missionID string) (missions.Definition, error) {
	return s.missions.Claim(ctx, userID, missionID)
}

func (s *Service) requireFriend(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return apperr.Validationf("cannot visit your own pet as a friend")
	}
	ok, err := s.friends.IsAccepted(ctx, userID, friendID)
	if err != nil {
		return fmt.Errorf("check friendship: %w", err)
	}
	if !ok {
		return apperr.InvalidStatef("users %s and %s are not friends", userID, friendID)
	}
	return nil
}

// progress applies fixed-increment mission progress after the primary
// write committed. Failures are logged, not surfaced: the mission row is
// derived state and the weekly aggregates self-heal on the next read.
func (s *Service) progress(ctx context.Context, userID, missionID string) {
	if _, err := s.missions.Progress(ctx, userID, missionID, 1); err != nil {
		logger.Log.Warn("mission progress failed",
			zap.String("user_id", userID),
			zap.String("mission_id", missionID),
			zap.Error(err))
	}
}

func (s *Service) recordInteraction(ctx context.Context, userID, friendID, kind string) {
	if err := s.friends.RecordInteraction(ctx, userID, friendID, kind, s.clock.Now()); err != nil {
		logger.Log.Warn("record friend interaction failed",
			zap.String("user_id", userID),
			zap.String("friend_id", friendID),
			zap.Error(err))
	}
}

// recomputeTransactionDays recounts the distinct transacting days of the
// current week from the ledger and pushes the monotonic aggregate.
func (s *Service) recomputeTransactionDays(ctx context.Context, userID string) {
	weekStart := s.clock.WeekStart(s.clock.Now())
	days, err := s.ledger.DistinctTransactionDays(ctx, userID, weekStart, weekStart.AddDate(0, 0, 7), s.clock.Location())
	if err == nil {
		_, err = s.missions.SetAggregate(ctx, userID, missions.RecordFiveDays, days)
	}
	if err != nil {
		logger.Log.Warn("weekly transaction-days recompute failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *Service) recomputeFriendInteractions(ctx context.Context, userID string) {
	weekStart := s.clock.WeekStart(s.clock.Now())
	n, err := s.friends.DistinctFriendsSince(ctx, userID, weekStart)
	if err == nil {
		_, err = s.missions.SetAggregate(ctx, userID, missions.InteractThree, n)
	}
	if err != nil {
		logger.Log.Warn("weekly friend-interactions recompute failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}
