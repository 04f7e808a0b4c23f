package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pennypet/pennypet-backend/internal/apperr"
)

// MemoryStore provides an in-memory implementation of Store for testing.
// Compound writes hold the mutex for their whole span, mirroring the
// single-transaction guarantee of the postgres store.
type MemoryStore struct {
	mu           sync.Mutex
	transactions map[string]Transaction
	balances     map[string]decimal.Decimal
	categories   []Category
	defaults     map[Type]int64

	// ApplyPoints mirrors the pets-table point increment of the postgres
	// store; tests wire it to a pet MemoryStore.
	ApplyPoints func(userID string, delta int64)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]Transaction),
		balances:     make(map[string]decimal.Decimal),
		defaults:     make(map[Type]int64),
	}
}

// AddUser seeds a user with a zero balance.
func (s *MemoryStore) AddUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[userID] = decimal.Zero
}

// SeedCategory registers a category; userID may be empty for a system
// category, and isDefault marks the per-type fallback.
func (s *MemoryStore) SeedCategory(id int64, userID, name string, typeID Type, isDefault bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Category{ID: id, Name: name, TypeID: typeID}
	if userID != "" {
		uid := userID
		c.UserID = &uid
	}
	s.categories = append(s.categories, c)
	if isDefault && userID == "" {
		s.defaults[typeID] = id
	}
}

func (s *MemoryStore) Insert(ctx context.Context, txn Transaction, balanceDelta decimal.Decimal, pointsDelta int64) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.balances[txn.UserID]; !ok {
		return Transaction{}, apperr.NotFoundf("user %s", txn.UserID)
	}
	now := time.Now().UTC()
	txn.CreatedAt = now
	txn.UpdatedAt = now
	s.transactions[txn.ID] = txn
	s.applyDeltas(txn.UserID, balanceDelta, pointsDelta)
	return txn, nil
}

func (s *MemoryStore) Get(ctx context.Context, userID, id string) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return Transaction{}, apperr.NotFoundf("transaction %s", id)
	}
	return t, nil
}

func (s *MemoryStore) Overwrite(ctx context.Context, txn Transaction, balanceDelta decimal.Decimal, pointsDelta int64) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.transactions[txn.ID]
	if !ok || old.UserID != txn.UserID {
		return Transaction{}, apperr.NotFoundf("transaction %s", txn.ID)
	}
	txn.CreatedAt = old.CreatedAt
	txn.UpdatedAt = time.Now().UTC()
	s.transactions[txn.ID] = txn
	s.applyDeltas(txn.UserID, balanceDelta, pointsDelta)
	return txn, nil
}

func (s *MemoryStore) Remove(ctx context.Context, userID, id string, balanceDelta decimal.Decimal, pointsDelta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return apperr.NotFoundf("transaction %s", id)
	}
	delete(s.transactions, id)
	s.applyDeltas(userID, balanceDelta, pointsDelta)
	return nil
}

func (s *MemoryStore) applyDeltas(userID string, balanceDelta decimal.Decimal, pointsDelta int64) {
	s.balances[userID] = s.balances[userID].Add(balanceDelta)
	if pointsDelta != 0 && s.ApplyPoints != nil {
		s.ApplyPoints(userID, pointsDelta)
	}
}

func (s *MemoryStore) List(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []Transaction
	for _, t := range s.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.balances[userID]
	if !ok {
		return decimal.Zero, apperr.NotFoundf("user %s", userID)
	}
	return b, nil
}

func (s *MemoryStore) Totals(ctx context.Context, userID string, from, to time.Time) (Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Totals{Income: decimal.Zero, Expense: decimal.Zero, Deposit: decimal.Zero}
	for _, txn := range s.transactions {
		if txn.UserID != userID || txn.Date.Before(from) || !txn.Date.Before(to) {
			continue
		}
		switch txn.TypeID {
		case TypeIncome:
			t.Income = t.Income.Add(txn.Amount)
		case TypeExpense:
			t.Expense = t.Expense.Add(txn.Amount)
		case TypeDeposit:
			t.Deposit = t.Deposit.Add(txn.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense).Sub(t.Deposit)
	return t, nil
}

func (s *MemoryStore) DistinctTransactionDays(ctx context.Context, userID string, from, to time.Time, loc *time.Location) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	days := make(map[string]struct{})
	for _, t := range s.transactions {
		if t.UserID == userID && !t.Date.Before(from) && t.Date.Before(to) {
			days[t.Date.In(loc).Format("2006-01-02")] = struct{}{}
		}
	}
	return len(days), nil
}

func (s *MemoryStore) FindUserCategory(ctx context.Context, userID, name string, typeID Type) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.UserID != nil && *c.UserID == userID && strings.EqualFold(c.Name, name) && c.TypeID == typeID {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("user category %q: %w", name, apperr.ErrNotFound)
}

func (s *MemoryStore) FindDefaultCategory(ctx context.Context, typeID Type) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.defaults[typeID]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("default category for type %s: %w", typeID, apperr.ErrNotFound)
}

func (s *MemoryStore) CategoryExists(ctx context.Context, userID string, id int64, typeID Type) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.ID == id && c.TypeID == typeID && (c.UserID == nil || *c.UserID == userID) {
			return true, nil
		}
	}
	return false, nil
}
