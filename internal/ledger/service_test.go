package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pennypet/pennypet-backend/internal/apperr"
)

const testUser = "11111111-1111-1111-1111-111111111111"

func newTestService(t *testing.T) (*Service, *MemoryStore, map[string]int64) {
	t.Helper()
	store := NewMemoryStore()
	store.AddUser(testUser)
	store.SeedCategory(1, "", "General", TypeExpense, true)
	store.SeedCategory(2, "", "Salary", TypeIncome, true)
	store.SeedCategory(3, "", "Savings", TypeDeposit, true)
	store.SeedCategory(10, testUser, "Coffee", TypeExpense, false)

	points := make(map[string]int64)
	store.ApplyPoints = func(userID string, delta int64) {
		points[userID] += delta
		if points[userID] < 0 {
			points[userID] = 0
		}
	}
	return NewService(store), store, points
}

func record(t *testing.T, s *Service, amount string, typeID Type) Transaction {
	t.Helper()
	catID := int64(1)
	switch typeID {
	case TypeIncome:
		catID = 2
	case TypeDeposit:
		catID = 3
	}
	txn, err := s.Record(context.Background(), RecordInput{
		UserID:     testUser,
		Amount:     decimal.RequireFromString(amount),
		TypeID:     typeID,
		CategoryID: catID,
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return txn
}

func balance(t *testing.T, s *Service) string {
	t.Helper()
	b, err := s.Balance(context.Background(), testUser)
	require.NoError(t, err)
	return b.String()
}

func TestRecordAppliesSignedDeltas(t *testing.T) {
	s, _, points := newTestService(t)

	record(t, s, "100", TypeIncome)
	require.Equal(t, "100", balance(t, s))

	record(t, s, "30.50", TypeExpense)
	require.Equal(t, "69.5", balance(t, s))

	// Deposits subtract from spendable balance and credit floor(amount) points.
	record(t, s, "42.70", TypeDeposit)
	require.Equal(t, "26.8", balance(t, s))
	require.Equal(t, int64(42), points[testUser])
}

func TestUpdateReversesOldContribution(t *testing.T) {
	s, _, _ := newTestService(t)

	txn := record(t, s, "100", TypeExpense)
	require.Equal(t, "-100", balance(t, s))

	// EXPENSE 100 -> INCOME 50: +100 reversal, +50 forward = +150.
	_, err := s.Update(context.Background(), testUser, txn.ID, UpdateInput{
		Amount:     decimal.RequireFromString("50"),
		TypeID:     TypeIncome,
		CategoryID: 2,
		Date:       txn.Date,
	})
	require.NoError(t, err)
	require.Equal(t, "50", balance(t, s))
}

func TestUpdateReconcilesDepositPoints(t *testing.T) {
	ctx := context.Background()

	t.Run("deposit to expense removes points", func(t *testing.T) {
		s, _, points := newTestService(t)
		txn := record(t, s, "42.70", TypeDeposit)
		require.Equal(t, int64(42), points[testUser])

		_, err := s.Update(ctx, testUser, txn.ID, UpdateInput{
			Amount: decimal.RequireFromString("42.70"), TypeID: TypeExpense, CategoryID: 1, Date: txn.Date,
		})
		require.NoError(t, err)
		require.Equal(t, int64(0), points[testUser])
		// Balance unchanged: both types subtract.
		require.Equal(t, "-42.7", balance(t, s))
	})

	t.Run("expense to deposit grants points", func(t *testing.T) {
		s, _, points := newTestService(t)
		txn := record(t, s, "10", TypeExpense)

		_, err := s.Update(ctx, testUser, txn.ID, UpdateInput{
			Amount: decimal.RequireFromString("15.90"), TypeID: TypeDeposit, CategoryID: 3, Date: txn.Date,
		})
		require.NoError(t, err)
		require.Equal(t, int64(15), points[testUser])
		require.Equal(t, "-15.9", balance(t, s))
	})

	t.Run("deposit to deposit applies the difference", func(t *testing.T) {
		s, _, points := newTestService(t)
		txn := record(t, s, "42.70", TypeDeposit)

		_, err := s.Update(ctx, testUser, txn.ID, UpdateInput{
			Amount: decimal.RequireFromString("10.20"), TypeID: TypeDeposit, CategoryID: 3, Date: txn.Date,
		})
		require.NoError(t, err)
		require.Equal(t, int64(10), points[testUser])
		require.Equal(t, "-10.2", balance(t, s))
	})
}

func TestDeleteReversesContribution(t *testing.T) {
	s, _, points := newTestService(t)

	txn := record(t, s, "42.70", TypeDeposit)
	require.Equal(t, "-42.7", balance(t, s))
	require.Equal(t, int64(42), points[testUser])

	require.NoError(t, s.Delete(context.Background(), testUser, txn.ID))
	require.Equal(t, "0", balance(t, s))
	require.Equal(t, int64(0), points[testUser])
}

func TestBalanceEqualsSignedSum(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()

	a := record(t, s, "200", TypeIncome)
	record(t, s, "75.25", TypeExpense)
	b := record(t, s, "50", TypeDeposit)
	record(t, s, "19.99", TypeExpense)

	_, err := s.Update(ctx, testUser, a.ID, UpdateInput{
		Amount: decimal.RequireFromString("180"), TypeID: TypeIncome, CategoryID: 2, Date: a.Date,
	})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, testUser, b.ID))

	// Recompute the signed sum over surviving rows.
	rows, err := s.List(ctx, testUser, 50)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.BalanceContribution())
	}
	got, err := store.Balance(ctx, testUser)
	require.NoError(t, err)
	require.True(t, got.Equal(sum), "balance %s != signed sum %s", got, sum)
}

func TestResolveCategory(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("user custom category wins", func(t *testing.T) {
		id, err := s.ResolveCategory(ctx, testUser, "coffee", TypeExpense)
		require.NoError(t, err)
		require.Equal(t, int64(10), id)
	})

	t.Run("falls back to system default", func(t *testing.T) {
		id, err := s.ResolveCategory(ctx, testUser, "groceries", TypeExpense)
		require.NoError(t, err)
		require.Equal(t, int64(1), id)
	})

	t.Run("missing default is a configuration error", func(t *testing.T) {
		store := NewMemoryStore()
		store.AddUser(testUser)
		svc := NewService(store)
		_, err := svc.ResolveCategory(ctx, testUser, "anything", TypeExpense)
		require.True(t, errors.Is(err, apperr.ErrConfiguration))
	})
}

func TestRecordValidation(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Record(ctx, RecordInput{UserID: testUser, Amount: decimal.Zero, TypeID: TypeExpense, CategoryID: 1})
	require.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = s.Record(ctx, RecordInput{UserID: testUser, Amount: decimal.NewFromInt(5), TypeID: Type(9), CategoryID: 1})
	require.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = s.Record(ctx, RecordInput{UserID: testUser, Amount: decimal.NewFromInt(5), TypeID: TypeExpense, CategoryID: 999})
	require.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestUpdateUnknownTransaction(t *testing.T) {
	s, _, _ := newTestService(t)
	_, err := s.Update(context.Background(), testUser, "does-not-exist", UpdateInput{
		Amount: decimal.NewFromInt(1), TypeID: TypeExpense, CategoryID: 1,
	})
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDistinctTransactionDays(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	week := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	for _, day := range []int{10, 10, 11, 12, 12} {
		_, err := s.Record(ctx, RecordInput{
			UserID:     testUser,
			Amount:     decimal.NewFromInt(5),
			TypeID:     TypeExpense,
			CategoryID: 1,
			Date:       time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	n, err := s.DistinctTransactionDays(ctx, testUser, week, week.AddDate(0, 0, 7), time.UTC)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestDistinctTransactionDaysUsesConfiguredZone(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// Both rows fall on March 12 UTC, but the later one is already past
	// midnight in Tokyo (15:30Z = 00:30 JST on March 13).
	for _, ts := range []time.Time{
		time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC),
	} {
		_, err := s.Record(ctx, RecordInput{
			UserID:     testUser,
			Amount:     decimal.NewFromInt(5),
			TypeID:     TypeExpense,
			CategoryID: 1,
			Date:       ts,
		})
		require.NoError(t, err)
	}

	week := time.Date(2025, 3, 10, 0, 0, 0, 0, tokyo)

	n, err := s.DistinctTransactionDays(ctx, testUser, week, week.AddDate(0, 0, 7), tokyo)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = s.DistinctTransactionDays(ctx, testUser, week, week.AddDate(0, 0, 7), time.UTC)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestRecordRejectsForeignCustomCategory(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()

	const otherUser = "22222222-2222-2222-2222-222222222222"
	store.AddUser(otherUser)
	store.SeedCategory(20, otherUser, "Their Coffee", TypeExpense, false)

	_, err := s.Record(ctx, RecordInput{
		UserID:     testUser,
		Amount:     decimal.NewFromInt(5),
		TypeID:     TypeExpense,
		CategoryID: 20,
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.True(t, errors.Is(err, apperr.ErrValidation))

	// The owner can still use it, and system categories stay shared.
	_, err = s.Record(ctx, RecordInput{
		UserID:     otherUser,
		Amount:     decimal.NewFromInt(5),
		TypeID:     TypeExpense,
		CategoryID: 20,
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = s.Record(ctx, RecordInput{
		UserID:     otherUser,
		Amount:     decimal.NewFromInt(5),
		TypeID:     TypeExpense,
		CategoryID: 1,
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
}
