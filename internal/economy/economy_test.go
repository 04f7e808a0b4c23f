package economy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pennypet/pennypet-backend/internal/apperr"
	"github.com/pennypet/pennypet-backend/internal/clock"
	"github.com/pennypet/pennypet-backend/internal/friends"
	"github.com/pennypet/pennypet-backend/internal/ledger"
	"github.com/pennypet/pennypet-backend/internal/missions"
	"github.com/pennypet/pennypet-backend/internal/pet"
)

const (
	alice = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	bob   = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	carol = "cccccccc-cccc-cccc-cccc-cccccccccccc"
	dave  = "dddddddd-dddd-dddd-dddd-dddddddddddd"
)

type fixture struct {
	svc *Service

	ledgerStore  *ledger.MemoryStore
	petStore     *pet.MemoryStore
	missionStore *missions.MemoryStore
	friendStore  *friends.MemoryStore

	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ledgerStore:  ledger.NewMemoryStore(),
		petStore:     pet.NewMemoryStore(),
		missionStore: missions.NewMemoryStore(),
		friendStore:  friends.NewMemoryStore(),
		now:          time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC), // a Wednesday
	}
	c := clock.New(time.UTC).WithNow(func() time.Time { return f.now })
	ctx := context.Background()

	// Wire the cross-table point writes the postgres stores do in one
	// transaction.
	f.ledgerStore.ApplyPoints = func(userID string, delta int64) {
		if _, err := f.petStore.GetOrCreate(ctx, userID); err != nil {
			t.Fatal(err)
		}
		if _, err := f.petStore.AddPoints(ctx, userID, delta); err != nil {
			t.Fatal(err)
		}
	}
	f.missionStore.Grant = func(userID string, points int64) error {
		if _, err := f.petStore.GetOrCreate(ctx, userID); err != nil {
			return err
		}
		_, err := f.petStore.AddPoints(ctx, userID, points)
		return err
	}

	friendSvc := friends.NewService(f.friendStore)
	f.svc = NewService(
		ledger.NewService(f.ledgerStore),
		pet.NewService(f.petStore, c, f.friendStore),
		missions.NewService(f.missionStore, c),
		friendSvc,
		c,
	)

	for _, u := range []string{alice, bob, carol, dave} {
		f.ledgerStore.AddUser(u)
	}
	f.ledgerStore.SeedCategory(1, "", "Other Expense", ledger.TypeExpense, true)
	f.ledgerStore.SeedCategory(2, "", "Other Income", ledger.TypeIncome, true)
	f.ledgerStore.SeedCategory(3, "", "Savings", ledger.TypeDeposit, true)
	return f
}

func (f *fixture) befriend(t *testing.T, a, b string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.friendStore.Request(ctx, a, b))
	require.NoError(t, f.friendStore.Accept(ctx, b, a))
}

func (f *fixture) missionFor(t *testing.T, userID, missionID string) missions.Mission {
	t.Helper()
	daily, weekly, err := f.svc.Missions(context.Background(), userID)
	require.NoError(t, err)
	for _, m := range append(daily, weekly...) {
		if m.MissionID == missionID {
			return m
		}
	}
	t.Fatalf("mission %s not in overview", missionID)
	return missions.Mission{}
}

func TestDepositCreditsPetAndMissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RecordTransaction(ctx, ledger.RecordInput{
		UserID:       alice,
		Amount:       decimal.RequireFromString("42.70"),
		TypeID:       ledger.TypeDeposit,
		CategoryName: "Savings",
		Date:         f.now,
	})
	require.NoError(t, err)

	p, err := f.petStore.Get(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, int64(pet.SeedPoints+42), p.Points, "deposit credits floor(amount)")

	m := f.missionFor(t, alice, missions.RecordTransaction)
	require.True(t, m.Completed)

	weekly := f.missionFor(t, alice, missions.RecordFiveDays)
	require.Equal(t, 1, weekly.Progress)
}

func TestEditAndDeleteReconcileEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.svc.RecordTransaction(ctx, ledger.RecordInput{
		UserID:       alice,
		Amount:       decimal.RequireFromString("100"),
		TypeID:       ledger.TypeDeposit,
		CategoryName: "Savings",
		Date:         f.now,
	})
	require.NoError(t, err)

	// Deposit -> expense takes the 100 deposit points back.
	_, err = f.svc.UpdateTransaction(ctx, alice, txn.ID, ledger.UpdateInput{
		Amount:       decimal.RequireFromString("100"),
		TypeID:       ledger.TypeExpense,
		CategoryName: "Other Expense",
		Date:         f.now,
	})
	require.NoError(t, err)

	p, err := f.petStore.Get(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, int64(pet.SeedPoints), p.Points)

	require.True(t, f.missionFor(t, alice, missions.EditTransaction).Completed)

	// Balance follows the reversal: -100 after the edit, 0 after delete.
	bal, err := f.ledgerStore.Balance(ctx, alice)
	require.NoError(t, err)
	require.True(t, bal.Equal(decimal.RequireFromString("-100")))

	require.NoError(t, f.svc.DeleteTransaction(ctx, alice, txn.ID))
	bal, err = f.ledgerStore.Balance(ctx, alice)
	require.NoError(t, err)
	require.True(t, bal.IsZero())
}

func TestTransactionDaysAggregateIsRecomputedNotAccumulated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record := func(day time.Time) {
		_, err := f.svc.RecordTransaction(ctx, ledger.RecordInput{
			UserID:       alice,
			Amount:       decimal.RequireFromString("5"),
			TypeID:       ledger.TypeExpense,
			CategoryName: "Other Expense",
			Date:         day,
		})
		require.NoError(t, err)
	}

	// Three records on the same day count as one transacting day.
	record(f.now)
	record(f.now.Add(time.Hour))
	record(f.now.Add(2 * time.Hour))
	require.Equal(t, 1, f.missionFor(t, alice, missions.RecordFiveDays).Progress)

	f.now = f.now.AddDate(0, 0, 1)
	record(f.now)
	require.Equal(t, 2, f.missionFor(t, alice, missions.RecordFiveDays).Progress)
}

func TestVisitPetPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.VisitPetPage(ctx, alice)
	require.NoError(t, err)

	// Lazy seed plus first-day transitions and visit bonus.
	require.Equal(t, int64(pet.SeedPoints+pet.VisitPointsBonus), p.Points)
	require.True(t, f.missionFor(t, alice, missions.CheckPet).Completed)

	// Same day again: no second visit bonus.
	again, err := f.svc.VisitPetPage(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, p.Points, again.Points)
}

func TestFriendInteractions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.befriend(t, alice, bob)

	// Seed bob's pet so the bump has a target row.
	_, err := f.petStore.GetOrCreate(ctx, bob)
	require.NoError(t, err)

	p, err := f.svc.PetFriend(ctx, alice, bob)
	require.NoError(t, err)
	require.Equal(t, bob, p.UserID)
	require.Equal(t, pet.SeedMood+pet.FriendPetMoodBonus, p.Mood)

	require.True(t, f.missionFor(t, alice, missions.PetFriend).Completed)
	require.Equal(t, 1, f.missionFor(t, alice, missions.InteractThree).Progress)

	// Visiting requires an accepted edge.
	_, err = f.svc.VisitFriend(ctx, alice, carol)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))

	_, err = f.svc.VisitFriend(ctx, alice, alice)
	require.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestWeeklyFriendMissionCountsDistinctFriends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, friend := range []string{bob, carol, dave} {
		f.befriend(t, alice, friend)
		_, err := f.petStore.GetOrCreate(ctx, friend)
		require.NoError(t, err)
	}

	// Repeat interactions with bob count once.
	_, err := f.svc.PetFriend(ctx, alice, bob)
	require.NoError(t, err)
	_, err = f.svc.FeedFriend(ctx, alice, bob)
	require.NoError(t, err)
	require.Equal(t, 1, f.missionFor(t, alice, missions.InteractThree).Progress)

	_, err = f.svc.PetFriend(ctx, alice, carol)
	require.NoError(t, err)
	_, err = f.svc.VisitFriend(ctx, alice, dave)
	require.NoError(t, err)

	m := f.missionFor(t, alice, missions.InteractThree)
	require.Equal(t, 3, m.Progress)
	require.True(t, m.Completed)
}

func TestClaimMissionCreditsPet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.VisitPetPage(ctx, alice)
	require.NoError(t, err)

	before, err := f.petStore.Get(ctx, alice)
	require.NoError(t, err)

	def, err := f.svc.ClaimMission(ctx, alice, missions.CheckPet)
	require.NoError(t, err)

	after, err := f.petStore.Get(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, before.Points+def.Reward, after.Points)

	_, err = f.svc.ClaimMission(ctx, alice, missions.CheckPet)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))
}

// flakyPetStore loses the compare-and-swap a fixed number of times before
// delegating, to exercise the transparent retry.
type flakyPetStore struct {
	pet.Store
	conflicts int
}

func (s *flakyPetStore) UpdateGuarded(ctx context.Context, p pet.Pet, pointsDelta int64) (pet.Pet, error) {
	if s.conflicts > 0 {
		s.conflicts--
		// Mirror a lost race: another writer bumped the version.
		if _, err := s.Store.BumpMeters(ctx, p.UserID, 0, 0); err != nil {
			return pet.Pet{}, err
		}
		return pet.Pet{}, apperr.ErrConflict
	}
	return s.Store.UpdateGuarded(ctx, p, pointsDelta)
}

func TestConflictIsRetriedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := clock.New(time.UTC).WithNow(func() time.Time { return f.now })

	flaky := &flakyPetStore{Store: f.petStore, conflicts: 1}
	svc := NewService(
		ledger.NewService(f.ledgerStore),
		pet.NewService(flaky, c, f.friendStore),
		missions.NewService(f.missionStore, c),
		friends.NewService(f.friendStore),
		c,
	)

	_, err := svc.Pet(ctx, alice)
	require.NoError(t, err, "one lost race is retried transparently")

	flaky.conflicts = 2
	f.now = f.now.AddDate(0, 0, 1)
	_, err = svc.Pet(ctx, alice)
	require.True(t, errors.Is(err, apperr.ErrConflict), "a second loss surfaces")
}
