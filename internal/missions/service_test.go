package missions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pennypet/pennypet-backend/internal/apperr"
	"github.com/pennypet/pennypet-backend/internal/clock"
)

const user = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"

type missionFixture struct {
	svc    *Service
	store  *MemoryStore
	now    time.Time
	points map[string]int64
}

func newMissionFixture(t *testing.T) *missionFixture {
	t.Helper()
	f := &missionFixture{
		store:  NewMemoryStore(),
		now:    time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC), // a Wednesday
		points: make(map[string]int64),
	}
	f.store.Grant = func(userID string, points int64) error {
		f.points[userID] += points
		return nil
	}
	c := clock.New(time.UTC).WithNow(func() time.Time { return f.now })
	f.svc = NewService(f.store, c)
	return f
}

func TestProgressCompletesOnce(t *testing.T) {
	f := newMissionFixture(t)
	ctx := context.Background()

	m, err := f.svc.Progress(ctx, user, RecordTransaction, 1)
	require.NoError(t, err)
	require.True(t, m.Completed)
	require.False(t, m.Claimed)
	require.NotNil(t, m.CompletedAt)

	// Further progress keeps the row completed without re-stamping.
	firstCompleted := *m.CompletedAt
	f.now = f.now.Add(time.Hour)
	m, err = f.svc.Progress(ctx, user, RecordTransaction, 1)
	require.NoError(t, err)
	require.True(t, m.Completed)
	require.Equal(t, 2, m.Progress)

	stored, err := f.store.Get(ctx, m.Key())
	require.NoError(t, err)
	require.Equal(t, firstCompleted, *stored.CompletedAt)
}

func TestProgressRejectsUnknownAndAggregate(t *testing.T) {
	f := newMissionFixture(t)
	ctx := context.Background()

	_, err := f.svc.Progress(ctx, user, "slay_dragon", 1)
	require.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = f.svc.Progress(ctx, user, RecordFiveDays, 1)
	require.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestDailyRowsAreDayScoped(t *testing.T) {
	f := newMissionFixture(t)
	ctx := context.Background()

	m1, err := f.svc.Progress(ctx, user, CheckPet, 1)
	require.NoError(t, err)
	require.True(t, m1.Completed)

	// The next day starts from a fresh row.
	f.now = f.now.AddDate(0, 0, 1)
	m2, err := f.svc.Progress(ctx, user, CheckPet, 1)
	require.NoError(t, err)
	require.Equal(t, 1, m2.Progress)
	require.False(t, m1.PeriodStart.Equal(m2.PeriodStart))
}

func TestClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("grants reward exactly once", func(t *testing.T) {
		f := newMissionFixture(t)
		_, err := f.svc.Progress(ctx, user, RecordTransaction, 1)
		require.NoError(t, err)

		def, err := f.svc.Claim(ctx, user, RecordTransaction)
		require.NoError(t, err)
		require.Equal(t, int64(10), def.Reward)
		require.Equal(t, int64(10), f.points[user])

		_, err = f.svc.Claim(ctx, user, RecordTransaction)
		require.True(t, errors.Is(err, apperr.ErrInvalidState))
		require.Equal(t, int64(10), f.points[user], "points unchanged after rejected claim")
	})

	t.Run("rejects claim before completion", func(t *testing.T) {
		f := newMissionFixture(t)
		_, err := f.svc.SetAggregate(ctx, user, RecordFiveDays, 2)
		require.NoError(t, err)

		_, err = f.svc.Claim(ctx, user, RecordFiveDays)
		require.True(t, errors.Is(err, apperr.ErrInvalidState))
		require.Zero(t, f.points[user])
	})

	t.Run("rejects claim with no row", func(t *testing.T) {
		f := newMissionFixture(t)
		_, err := f.svc.Claim(ctx, user, CheckPet)
		require.True(t, errors.Is(err, apperr.ErrNotFound))
	})
}

func TestAggregateRecomputeDoesNotAccumulate(t *testing.T) {
	f := newMissionFixture(t)
	ctx := context.Background()

	// Reporting the same 3 transacting days repeatedly stays at 3.
	for i := 0; i < 4; i++ {
		m, err := f.svc.SetAggregate(ctx, user, RecordFiveDays, 3)
		require.NoError(t, err)
		require.Equal(t, 3, m.Progress)
		require.False(t, m.Completed)
	}

	// A stale lower recompute never lowers progress.
	m, err := f.svc.SetAggregate(ctx, user, RecordFiveDays, 2)
	require.NoError(t, err)
	require.Equal(t, 3, m.Progress)

	m, err = f.svc.SetAggregate(ctx, user, RecordFiveDays, 5)
	require.NoError(t, err)
	require.True(t, m.Completed)
}

func TestWeeklyRowsSpanTheWeek(t *testing.T) {
	f := newMissionFixture(t)
	ctx := context.Background()

	m1, err := f.svc.SetAggregate(ctx, user, InteractThree, 2)
	require.NoError(t, err)

	// Sunday still belongs to the same ISO week.
	f.now = time.Date(2025, 3, 16, 22, 0, 0, 0, time.UTC)
	m2, err := f.svc.SetAggregate(ctx, user, InteractThree, 3)
	require.NoError(t, err)
	require.True(t, m1.PeriodStart.Equal(m2.PeriodStart))
	require.True(t, m2.Completed)

	// Monday starts a new week and a new row.
	f.now = time.Date(2025, 3, 17, 1, 0, 0, 0, time.UTC)
	m3, err := f.svc.SetAggregate(ctx, user, InteractThree, 1)
	require.NoError(t, err)
	require.False(t, m3.PeriodStart.Equal(m2.PeriodStart))
	require.Equal(t, 1, m3.Progress)
}

func TestCheckCompletionUpgradesLazily(t *testing.T) {
	f := newMissionFixture(t)
	ctx := context.Background()

	_, err := f.svc.SetAggregate(ctx, user, RecordFiveDays, 4)
	require.NoError(t, err)

	// Bypass the service to simulate a row that crossed target without a
	// completion write.
	key := Key{UserID: user, Type: TypeWeekly, MissionID: RecordFiveDays, PeriodStart: f.svc.clock.WeekStart(f.now)}
	_, err = f.store.RaiseProgress(ctx, key, 5)
	require.NoError(t, err)

	m, err := f.svc.CheckCompletion(ctx, user, RecordFiveDays)
	require.NoError(t, err)
	require.True(t, m.Completed)
}

func TestOverviewMaterializesCatalog(t *testing.T) {
	f := newMissionFixture(t)
	ctx := context.Background()

	_, err := f.svc.Progress(ctx, user, CheckPet, 1)
	require.NoError(t, err)

	daily, weekly, err := f.svc.Overview(ctx, user)
	require.NoError(t, err)
	require.Len(t, daily, len(CatalogByType(TypeDaily)))
	require.Len(t, weekly, len(CatalogByType(TypeWeekly)))

	var checked Mission
	for _, m := range daily {
		if m.MissionID == CheckPet {
			checked = m
		} else {
			require.Zero(t, m.Progress)
			require.False(t, m.Completed)
		}
	}
	require.True(t, checked.Completed)
}
