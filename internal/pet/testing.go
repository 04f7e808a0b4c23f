package pet

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pennypet/pennypet-backend/internal/apperr"
)

// MemoryStore provides an in-memory implementation of Store for testing.
type MemoryStore struct {
	mu        sync.Mutex
	pets      map[string]Pet
	purchases map[string]Purchase
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pets:      make(map[string]Pet),
		purchases: make(map[string]Purchase),
	}
}

// Put overwrites a pet row directly; test setup only.
func (s *MemoryStore) Put(p Pet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Version == 0 {
		p.Version = 1
	}
	s.pets[p.UserID] = p
}

func (s *MemoryStore) GetOrCreate(ctx context.Context, userID string) (Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pets[userID]; ok {
		return p, nil
	}
	now := time.Now().UTC()
	p := Pet{
		UserID:    userID,
		Points:    SeedPoints,
		Mood:      SeedMood,
		Fullness:  SeedFullness,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.pets[userID] = p
	return p, nil
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(userID)
}

func (s *MemoryStore) get(userID string) (Pet, error) {
	p, ok := s.pets[userID]
	if !ok {
		return Pet{}, apperr.NotFoundf("pet for user %s", userID)
	}
	return p, nil
}

func (s *MemoryStore) UpdateGuarded(ctx context.Context, p Pet, pointsDelta int64) (Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.get(p.UserID)
	if err != nil {
		return Pet{}, err
	}
	if cur.Version != p.Version {
		return Pet{}, apperr.ErrConflict
	}
	p.Points = cur.Points + pointsDelta
	if p.Points < 0 {
		p.Points = 0
	}
	p.Version = cur.Version + 1
	p.UpdatedAt = time.Now().UTC()
	s.pets[p.UserID] = p
	return p, nil
}

func (s *MemoryStore) BumpMeters(ctx context.Context, userID string, moodDelta, fullnessDelta int) (Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.get(userID)
	if err != nil {
		return Pet{}, err
	}
	p.Mood = clampMeter(p.Mood + moodDelta)
	p.Fullness = clampMeter(p.Fullness + fullnessDelta)
	p.Version++
	p.UpdatedAt = time.Now().UTC()
	s.pets[userID] = p
	return p, nil
}

func (s *MemoryStore) AddPoints(ctx context.Context, userID string, delta int64) (Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.get(userID)
	if err != nil {
		return Pet{}, err
	}
	if p.Points+delta < 0 {
		return Pet{}, apperr.InvalidStatef("insufficient points")
	}
	p.Points += delta
	p.Version++
	p.UpdatedAt = time.Now().UTC()
	s.pets[userID] = p
	return p, nil
}

func (s *MemoryStore) Restart(ctx context.Context, userID string, now, dayStart time.Time) (Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.get(userID)
	if err != nil {
		return Pet{}, err
	}
	login, reset := now, dayStart
	p.Points = SeedPoints
	p.Mood = SeedMood
	p.Fullness = SeedFullness
	p.LastLoginAt = &login
	p.LastDailyReset = &reset
	p.LastPageVisit = nil
	p.ConsecutiveLoginDays = 0
	p.Version++
	p.UpdatedAt = time.Now().UTC()
	s.pets[userID] = p
	return p, nil
}

func (s *MemoryStore) PurchaseItem(ctx context.Context, userID string, item ShopItem, qty int, moodDelta int) (Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.get(userID)
	if err != nil {
		return Purchase{}, err
	}
	cost := item.Cost * int64(qty)
	if p.Points < cost {
		return Purchase{}, apperr.InvalidStatef("insufficient points for %s x%d", item.ID, qty)
	}
	p.Points -= cost
	p.Mood = clampMeter(p.Mood + moodDelta)
	p.Version++
	s.pets[userID] = p

	for id, pu := range s.purchases {
		if pu.UserID == userID && pu.ItemID == item.ID {
			pu.Quantity += qty
			s.purchases[id] = pu
			return pu, nil
		}
	}
	pu := Purchase{
		ID:        uuid.New().String(),
		UserID:    userID,
		ItemID:    item.ID,
		Category:  item.Category,
		Cost:      item.Cost,
		Quantity:  qty,
		CreatedAt: time.Now().UTC(),
	}
	s.purchases[pu.ID] = pu
	return pu, nil
}

func (s *MemoryStore) ConsumeAndFeed(ctx context.Context, userID, purchaseID string) (Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pu, ok := s.purchases[purchaseID]
	if !ok || pu.UserID != userID {
		return Pet{}, apperr.NotFoundf("purchase %s", purchaseID)
	}
	if pu.Quantity <= 0 {
		return Pet{}, apperr.InvalidStatef("no units left of purchase %s", purchaseID)
	}
	pu.Quantity--
	if pu.Quantity == 0 {
		delete(s.purchases, purchaseID)
	} else {
		s.purchases[purchaseID] = pu
	}

	p, err := s.get(userID)
	if err != nil {
		return Pet{}, err
	}
	p.Fullness = clampMeter(p.Fullness + int(pu.Cost))
	p.Version++
	s.pets[userID] = p
	return p, nil
}

func (s *MemoryStore) GetPurchase(ctx context.Context, userID, purchaseID string) (Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pu, ok := s.purchases[purchaseID]
	if !ok || pu.UserID != userID {
		return Purchase{}, apperr.NotFoundf("purchase %s", purchaseID)
	}
	return pu, nil
}

func (s *MemoryStore) ListInventory(ctx context.Context, userID string) ([]Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Purchase
	for _, pu := range s.purchases {
		if pu.UserID == userID {
			out = append(out, pu)
		}
	}
	return out, nil
}
