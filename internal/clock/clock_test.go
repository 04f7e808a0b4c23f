package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayStart(t *testing.T) {
	c := New(time.UTC)

	at := time.Date(2025, 3, 14, 17, 42, 9, 0, time.UTC)
	require.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), c.DayStart(at))

	// Already midnight stays put.
	mid := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	require.Equal(t, mid, c.DayStart(mid))
}

func TestDayStartCrossesZones(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	c := New(tokyo)

	// 23:00 UTC on the 14th is already the 15th in Tokyo.
	at := time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, tokyo), c.DayStart(at))
}

func TestWeekStart(t *testing.T) {
	c := New(time.UTC)

	cases := []struct {
		name string
		at   time.Time
		want time.Time
	}{
		{
			name: "wednesday maps to monday",
			at:   time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "monday maps to itself",
			at:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday belongs to the previous week",
			at:   time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "saturday",
			at:   time.Date(2025, 3, 15, 1, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, c.WeekStart(tc.at))
		})
	}
}

func TestSameDayAndYesterday(t *testing.T) {
	c := New(time.UTC)

	d1 := time.Date(2025, 3, 14, 1, 0, 0, 0, time.UTC)
	d1b := time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 15, 0, 30, 0, 0, time.UTC)

	require.True(t, c.SameDay(d1, d1b))
	require.False(t, c.SameDay(d1, d2))
	require.True(t, c.IsYesterday(d1, d2))
	require.False(t, c.IsYesterday(d1, d1b))

	// Two days apart is not yesterday.
	d3 := time.Date(2025, 3, 16, 12, 0, 0, 0, time.UTC)
	require.False(t, c.IsYesterday(d1, d3))
}

func TestWithNow(t *testing.T) {
	pinned := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	c := New(time.UTC).WithNow(func() time.Time { return pinned })
	require.Equal(t, pinned, c.Now())
}
