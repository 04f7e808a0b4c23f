package missions

import (
	"context"
	"fmt"
	"time"

	"github.com/pennypet/pennypet-backend/internal/apperr"
	"github.com/pennypet/pennypet-backend/internal/clock"
)

// Service tracks mission progress and converts completion into point
// grants through an explicit, exactly-once claim step.
type Service struct {
	store Store
	clock clock.Clock
}

func NewService(store Store, c clock.Clock) *Service {
	return &Service{store: store, clock: c}
}

func (s *Service) periodStart(def Definition, now time.Time) time.Time {
	if def.Type == TypeWeekly {
		return s.clock.WeekStart(now)
	}
	return s.clock.DayStart(now)
}

func (s *Service) keyFor(userID string, def Definition, now time.Time) Key {
	return Key{UserID: userID, Type: def.Type, MissionID: def.ID, PeriodStart: s.periodStart(def, now)}
}

// Progress increments a counter mission for the current period, creating
// the row on first report. Progress is monotonic; completion flips once
// when the target is crossed, but the reward waits for an explicit claim.
func (s *Service) Progress(ctx context.Context, userID, missionID string, delta int) (Mission, error) {
	def, ok := Lookup(missionID)
	if !ok {
		return Mission{}, apperr.Validationf("unknown mission %q", missionID)
	}
	if def.Aggregate {
		return Mission{}, apperr.Validationf("mission %q is recomputed from source data", missionID)
	}
	if delta <= 0 {
		return Mission{}, apperr.Validationf("progress delta must be positive")
	}

	now := s.clock.Now()
	key := s.keyFor(userID, def, now)
	if _, err := s.store.GetOrCreate(ctx, key, def.Target); err != nil {
		return Mission{}, fmt.Errorf("ensure mission row: %w", err)
	}
	m, err := s.store.AddProgress(ctx, key, delta)
	if err != nil {
		return Mission{}, fmt.Errorf("add progress: %w", err)
	}
	return s.completeIfDue(ctx, m, now)
}

// SetAggregate overwrites an aggregate mission's progress with a freshly
// recomputed count. The store keeps progress monotonic, so a stale
// recompute can never lower it.
func (s *Service) SetAggregate(ctx context.Context, userID, missionID string, value int) (Mission, error) {
	def, ok := Lookup(missionID)
	if !ok || !def.Aggregate {
		return Mission{}, apperr.Validationf("mission %q is not an aggregate mission", missionID)
	}
	if value < 0 {
		return Mission{}, apperr.Validationf("aggregate value must be non-negative")
	}

	now := s.clock.Now()
	key := s.keyFor(userID, def, now)
	if _, err := s.store.GetOrCreate(ctx, key, def.Target); err != nil {
		return Mission{}, fmt.Errorf("ensure mission row: %w", err)
	}
	m, err := s.store.RaiseProgress(ctx, key, value)
	if err != nil {
		return Mission{}, fmt.Errorf("raise progress: %w", err)
	}
	return s.completeIfDue(ctx, m, now)
}

// CheckCompletion lazily upgrades a row that crossed its target without an
// explicit progress call.
func (s *Service) CheckCompletion(ctx context.Context, userID, missionID string) (Mission, error) {
	def, ok := Lookup(missionID)
	if !ok {
		return Mission{}, apperr.Validationf("unknown mission %q", missionID)
	}
	now := s.clock.Now()
	key := s.keyFor(userID, def, now)
	m, err := s.store.Get(ctx, key)
	if err != nil {
		return Mission{}, err
	}
	return s.completeIfDue(ctx, m, now)
}

func (s *Service) completeIfDue(ctx context.Context, m Mission, now time.Time) (Mission, error) {
	if m.Completed || m.Progress < m.Target {
		return m, nil
	}
	flipped, err := s.store.MarkCompleted(ctx, m.Key(), now)
	if err != nil {
		return Mission{}, fmt.Errorf("mark completed: %w", err)
	}
	if flipped {
		m.Completed = true
		at := now
		m.CompletedAt = &at
	}
	return m, nil
}

// Claim grants the mission reward exactly once. Claiming before
// completion or a second time is rejected with apperr.ErrInvalidState.
func (s *Service) Claim(ctx context.Context, userID, missionID string) (Definition, error) {
	def, ok := Lookup(missionID)
	if !ok {
		return Definition{}, apperr.Validationf("unknown mission %q", missionID)
	}
	key := s.keyFor(userID, def, s.clock.Now())
	if err := s.store.ClaimReward(ctx, key, def.Reward); err != nil {
		return Definition{}, fmt.Errorf("claim %s: %w", missionID, err)
	}
	return def, nil
}

// Overview returns the current period's rows for every catalog mission,
// materializing zero-progress entries for missions not yet started.
func (s *Service) Overview(ctx context.Context, userID string) ([]Mission, []Mission, error) {
	now := s.clock.Now()
	daily, err := s.overviewFor(ctx, userID, TypeDaily, s.clock.DayStart(now))
	if err != nil {
		return nil, nil, err
	}
	weekly, err := s.overviewFor(ctx, userID, TypeWeekly, s.clock.WeekStart(now))
	if err != nil {
		return nil, nil, err
	}
	return daily, weekly, nil
}

func (s *Service) overviewFor(ctx context.Context, userID string, mtype MissionType, periodStart time.Time) ([]Mission, error) {
	stored, err := s.store.ListPeriod(ctx, userID, mtype, periodStart)
	if err != nil {
		return nil, fmt.Errorf("list %s missions: %w", mtype, err)
	}
	byID := make(map[string]Mission, len(stored))
	for _, m := range stored {
		byID[m.MissionID] = m
	}

	defs := CatalogByType(mtype)
	out := make([]Mission, 0, len(defs))
	for _, def := range defs {
		if m, ok := byID[def.ID]; ok {
			out = append(out, m)
			continue
		}
		out = append(out, Mission{
			UserID:      userID,
			Type:        def.Type,
			MissionID:   def.ID,
			PeriodStart: periodStart,
			Target:      def.Target,
		})
	}
	return out, nil
}
