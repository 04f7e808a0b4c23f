package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennypet/pennypet-backend/internal/apperr"
	"github.com/pennypet/pennypet-backend/internal/money"
)

// Service enforces the ledger invariant: a user's balance always equals
// the signed sum of their current transactions. Every edit and delete
// applies the exact inverse of the prior contribution before the new one.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type RecordInput struct {
	UserID       string
	Amount       decimal.Decimal
	TypeID       Type
	CategoryID   int64  // resolved id, or 0 when CategoryName is used
	CategoryName string // human-readable name to resolve
	Date         time.Time
	Note         string
}

func (s *Service) Record(ctx context.Context, in RecordInput) (Transaction, error) {
	if !in.Amount.IsPositive() {
		return Transaction{}, apperr.Validationf("amount must be greater than zero")
	}
	if !in.TypeID.Valid() {
		return Transaction{}, apperr.Validationf("unknown transaction type %d", int(in.TypeID))
	}

	categoryID, err := s.categoryFor(ctx, in.UserID, in.CategoryID, in.CategoryName, in.TypeID)
	if err != nil {
		return Transaction{}, err
	}

	txn := Transaction{
		ID:         uuid.New().String(),
		UserID:     in.UserID,
		Amount:     in.Amount,
		TypeID:     in.TypeID,
		CategoryID: categoryID,
		Date:       in.Date,
		Note:       in.Note,
	}

	var pointsDelta int64
	if in.TypeID == TypeDeposit {
		pointsDelta = money.FloorPoints(in.Amount)
	}

	created, err := s.store.Insert(ctx, txn, txn.BalanceContribution(), pointsDelta)
	if err != nil {
		return Transaction{}, fmt.Errorf("record transaction: %w", err)
	}
	return created, nil
}

type UpdateInput struct {
	Amount       decimal.Decimal
	TypeID       Type
	CategoryID   int64
	CategoryName string
	Date         time.Time
	Note         string
}

// Update loads the existing row, reverses its old contribution and applies
// the new one in a single compound write. Pet points are reconciled with
// the deposit matrix: old-deposit-only decrements floor(oldAmount),
// new-deposit-only increments floor(newAmount), both apply the difference.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Transaction, error) {
	if !in.Amount.IsPositive() {
		return Transaction{}, apperr.Validationf("amount must be greater than zero")
	}
	if !in.TypeID.Valid() {
		return Transaction{}, apperr.Validationf("unknown transaction type %d", int(in.TypeID))
	}

	old, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return Transaction{}, fmt.Errorf("load transaction %s: %w", id, err)
	}

	categoryID, err := s.categoryFor(ctx, userID, in.CategoryID, in.CategoryName, in.TypeID)
	if err != nil {
		return Transaction{}, err
	}

	reversal := old.BalanceContribution().Neg()
	next := Transaction{
		ID:         old.ID,
		UserID:     userID,
		Amount:     in.Amount,
		TypeID:     in.TypeID,
		CategoryID: categoryID,
		Date:       in.Date,
		Note:       in.Note,
		CreatedAt:  old.CreatedAt,
	}
	balanceDelta := reversal.Add(next.BalanceContribution())

	pointsDelta := depositPointsDelta(old, next)

	updated, err := s.store.Overwrite(ctx, next, balanceDelta, pointsDelta)
	if err != nil {
		return Transaction{}, fmt.Errorf("update transaction %s: %w", id, err)
	}
	return updated, nil
}

// Delete reverses the row's balance contribution (and deposit points) and
// removes it.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	old, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("load transaction %s: %w", id, err)
	}

	var pointsDelta int64
	if old.TypeID == TypeDeposit {
		pointsDelta = -money.FloorPoints(old.Amount)
	}

	if err := s.store.Remove(ctx, userID, id, old.BalanceContribution().Neg(), pointsDelta); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

func depositPointsDelta(old, next Transaction) int64 {
	oldDep := old.TypeID == TypeDeposit
	newDep := next.TypeID == TypeDeposit
	switch {
	case oldDep && newDep:
		return money.FloorPoints(next.Amount) - money.FloorPoints(old.Amount)
	case oldDep:
		return -money.FloorPoints(old.Amount)
	case newDep:
		return money.FloorPoints(next.Amount)
	default:
		return 0
	}
}

// ResolveCategory maps a human-readable category name onto a concrete id:
// the user's custom category first, then the system default of the same
// type. Finding neither is a seeding defect, not a user error, and fails
// closed — a category is never invented.
func (s *Service) ResolveCategory(ctx context.Context, userID, name string, typeID Type) (int64, error) {
	id, err := s.store.FindUserCategory(ctx, userID, name, typeID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return 0, fmt.Errorf("resolve category %q: %w", name, err)
	}

	id, err = s.store.FindDefaultCategory(ctx, typeID)
	if err == nil {
		return id, nil
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return 0, apperr.Configurationf("no default %s category seeded", typeID)
	}
	return 0, fmt.Errorf("resolve default category: %w", err)
}

func (s *Service) categoryFor(ctx context.Context, userID string, categoryID int64, name string, typeID Type) (int64, error) {
	if categoryID != 0 {
		ok, err := s.store.CategoryExists(ctx, userID, categoryID, typeID)
		if err != nil {
			return 0, fmt.Errorf("check category %d: %w", categoryID, err)
		}
		if !ok {
			return 0, apperr.Validationf("category %d does not exist for type %s", categoryID, typeID)
		}
		return categoryID, nil
	}
	if name == "" {
		return 0, apperr.Validationf("category is required")
	}
	return s.ResolveCategory(ctx, userID, name, typeID)
}

func (s *Service) Get(ctx context.Context, userID, id string) (Transaction, error) {
	return s.store.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	return s.store.List(ctx, userID, limit)
}

func (s *Service) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	return s.store.Balance(ctx, userID)
}

func (s *Service) Totals(ctx context.Context, userID string, from, to time.Time) (Totals, error) {
	return s.store.Totals(ctx, userID, from, to)
}

func (s *Service) DistinctTransactionDays(ctx context.Context, userID string, from, to time.Time, loc *time.Location) (int, error) {
	return s.store.DistinctTransactionDays(ctx, userID, from, to, loc)
}
