package missions

import (
	"context"
	"sync"
	"time"

	"github.com/pennypet/pennypet-backend/internal/apperr"
)

// MemoryStore provides an in-memory implementation of Store for testing.
// Grant stands in for the pets-table point credit of the postgres store;
// tests wire it to a pet MemoryStore.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[Key]Mission

	Grant func(userID string, points int64) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[Key]Mission)}
}

func (s *MemoryStore) GetOrCreate(ctx context.Context, key Key, target int) (Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.rows[key]; ok {
		return m, nil
	}
	m := Mission{
		UserID:      key.UserID,
		Type:        key.Type,
		MissionID:   key.MissionID,
		PeriodStart: key.PeriodStart,
		Target:      target,
	}
	s.rows[key] = m
	return m, nil
}

func (s *MemoryStore) Get(ctx context.Context, key Key) (Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.rows[key]
	if !ok {
		return Mission{}, apperr.NotFoundf("mission %s for this period", key.MissionID)
	}
	return m, nil
}

func (s *MemoryStore) AddProgress(ctx context.Context, key Key, delta int) (Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.rows[key]
	if !ok {
		return Mission{}, apperr.NotFoundf("mission %s for this period", key.MissionID)
	}
	m.Progress += delta
	s.rows[key] = m
	return m, nil
}

func (s *MemoryStore) RaiseProgress(ctx context.Context, key Key, value int) (Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.rows[key]
	if !ok {
		return Mission{}, apperr.NotFoundf("mission %s for this period", key.MissionID)
	}
	if value > m.Progress {
		m.Progress = value
	}
	s.rows[key] = m
	return m, nil
}

func (s *MemoryStore) MarkCompleted(ctx context.Context, key Key, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.rows[key]
	if !ok || m.Completed || m.Progress < m.Target {
		return false, nil
	}
	m.Completed = true
	done := at
	m.CompletedAt = &done
	s.rows[key] = m
	return true, nil
}

func (s *MemoryStore) ClaimReward(ctx context.Context, key Key, points int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.rows[key]
	if !ok {
		return apperr.NotFoundf("mission %s for this period", key.MissionID)
	}
	if m.Claimed {
		return apperr.InvalidStatef("reward already claimed")
	}
	if !m.Completed {
		return apperr.InvalidStatef("mission not complete")
	}
	m.Claimed = true
	s.rows[key] = m
	if s.Grant != nil {
		return s.Grant(key.UserID, points)
	}
	return nil
}

func (s *MemoryStore) ListPeriod(ctx context.Context, userID string, mtype MissionType, periodStart time.Time) ([]Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Mission
	for _, m := range s.rows {
		if m.UserID == userID && m.Type == mtype && m.PeriodStart.Equal(periodStart) {
			out = append(out, m)
		}
	}
	return out, nil
}
