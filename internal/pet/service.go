package pet

import (
	"context"
	"fmt"

	"github.com/pennypet/pennypet-backend/internal/apperr"
	"github.com/pennypet/pennypet-backend/internal/clock"
)

// FriendChecker verifies an accepted friendship edge before any
// cross-user pet interaction.
type FriendChecker interface {
	IsAccepted(ctx context.Context, userID, friendID string) (bool, error)
}

// Service applies the pet state machine. Time-gated transitions are
// evaluated lazily on access and committed with a compare-and-swap; a
// losing write surfaces apperr.ErrConflict for the caller to retry.
type Service struct {
	store   Store
	clock   clock.Clock
	friends FriendChecker
}

func NewService(store Store, c clock.Clock, friends FriendChecker) *Service {
	return &Service{store: store, clock: c, friends: friends}
}

// Refresh runs the once-per-day transitions in order — daily decay, then
// first-login-of-day bonus and streak bookkeeping — and returns current
// state. Both guards re-check their timestamp against today's boundary, so
// a second call on the same day is a no-op.
func (s *Service) Refresh(ctx context.Context, userID string) (Pet, error) {
	p, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return Pet{}, fmt.Errorf("load pet: %w", err)
	}

	now := s.clock.Now()
	day := s.clock.DayStart(now)
	changed := false
	var pointsDelta int64

	if p.LastDailyReset == nil || p.LastDailyReset.Before(day) {
		p.Mood = clampMeter(p.Mood - DecayMood)
		p.Fullness = clampMeter(p.Fullness - DecayFullness)
		reset := day
		p.LastDailyReset = &reset
		changed = true
	}

	if p.LastLoginAt == nil || p.LastLoginAt.Before(day) {
		p.Mood = clampMeter(p.Mood + LoginMoodBonus)
		if p.LastLoginAt != nil && s.clock.IsYesterday(*p.LastLoginAt, now) {
			p.ConsecutiveLoginDays++
		} else {
			p.ConsecutiveLoginDays = 1
		}
		if p.ConsecutiveLoginDays >= StreakLength {
			pointsDelta += StreakReward
			p.ConsecutiveLoginDays = 0
		}
		login := now
		p.LastLoginAt = &login
		changed = true
	}

	if !changed {
		return p, nil
	}
	updated, err := s.store.UpdateGuarded(ctx, p, pointsDelta)
	if err != nil {
		return Pet{}, fmt.Errorf("apply daily transitions: %w", err)
	}
	return updated, nil
}

// RecordVisit grants the once-per-day pet-page visit bonus. The returned
// bool reports whether points were granted by this call.
func (s *Service) RecordVisit(ctx context.Context, userID string) (Pet, bool, error) {
	p, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return Pet{}, false, fmt.Errorf("load pet: %w", err)
	}

	now := s.clock.Now()
	day := s.clock.DayStart(now)
	if p.LastPageVisit != nil && !p.LastPageVisit.Before(day) {
		return p, false, nil
	}

	visit := now
	p.LastPageVisit = &visit
	updated, err := s.store.UpdateGuarded(ctx, p, VisitPointsBonus)
	if err != nil {
		return Pet{}, false, fmt.Errorf("apply visit bonus: %w", err)
	}
	return updated, true, nil
}

// Petting raises mood by a fixed amount; not time-gated.
func (s *Service) Petting(ctx context.Context, userID string) (Pet, error) {
	return s.store.BumpMeters(ctx, userID, PettingMoodBonus, 0)
}

// Feed consumes one unit of a purchased food item and raises fullness by
// the item's cost.
func (s *Service) Feed(ctx context.Context, userID, purchaseID string) (Pet, error) {
	pu, err := s.store.GetPurchase(ctx, userID, purchaseID)
	if err != nil {
		return Pet{}, fmt.Errorf("load purchase %s: %w", purchaseID, err)
	}
	if pu.Category != CategoryFood {
		return Pet{}, apperr.Validationf("item %s is not food", pu.ItemID)
	}
	p, err := s.store.ConsumeAndFeed(ctx, userID, purchaseID)
	if err != nil {
		return Pet{}, fmt.Errorf("feed pet: %w", err)
	}
	return p, nil
}

// Purchase debits points for a catalog item and records the inventory row.
// Food and accessories cheer the pet up by 3 mood per unit, capped at 100.
func (s *Service) Purchase(ctx context.Context, userID, itemID string, qty int) (Purchase, error) {
	if qty <= 0 {
		return Purchase{}, apperr.Validationf("quantity must be greater than zero")
	}
	item, ok := LookupItem(itemID)
	if !ok {
		return Purchase{}, apperr.Validationf("unknown shop item %q", itemID)
	}

	moodDelta := 0
	if item.Category == CategoryFood || item.Category == CategoryAccessory {
		moodDelta = qty * 3
	}

	pu, err := s.store.PurchaseItem(ctx, userID, item, qty, moodDelta)
	if err != nil {
		return Purchase{}, fmt.Errorf("purchase %s x%d: %w", itemID, qty, err)
	}
	return pu, nil
}

// Restart resets points, meters and streak to seed values. Transactions,
// purchases and missions are untouched.
func (s *Service) Restart(ctx context.Context, userID string) (Pet, error) {
	now := s.clock.Now()
	return s.store.Restart(ctx, userID, now, s.clock.DayStart(now))
}

// PetFriend applies a capped mood bump to a friend's pet, never the
// caller's. Requires an accepted friendship edge.
func (s *Service) PetFriend(ctx context.Context, userID, friendID string) (Pet, error) {
	if err := s.checkFriend(ctx, userID, friendID); err != nil {
		return Pet{}, err
	}
	return s.store.BumpMeters(ctx, friendID, FriendPetMoodBonus, 0)
}

// FeedFriend applies a capped fullness bump to a friend's pet.
func (s *Service) FeedFriend(ctx context.Context, userID, friendID string) (Pet, error) {
	if err := s.checkFriend(ctx, userID, friendID); err != nil {
		return Pet{}, err
	}
	return s.store.BumpMeters(ctx, friendID, 0, FriendFeedFullnessBonus)
}

func (s *Service) checkFriend(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return apperr.Validationf("cannot interact with your own pet as a friend")
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

func (s *Service) Inventory(ctx context.Context, userID string) ([]Purchase, error) {
	return s.store.ListInventory(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID string) (Pet, error) {
	return s.store.GetOrCreate(ctx, userID)
}
