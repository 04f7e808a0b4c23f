// Package clock owns every day/week boundary computation in the engine.
// One Clock value, in one fixed zone, gates pet decay, login streaks,
// visit bonuses, daily missions and weekly missions alike.
package clock

import "time"

type Clock struct {
	loc   *time.Location
	nowFn func() time.Time
}

// New returns a Clock anchored to loc. A nil loc means UTC.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{loc: loc, nowFn: time.Now}
}

// WithNow returns a copy of c that reports nowFn as the current time.
// Used by tests to pin the calendar.
func (c Clock) WithNow(nowFn func() time.Time) Clock {
	c.nowFn = nowFn
	return c
}

func (c Clock) Now() time.Time {
	return c.nowFn().In(c.loc)
}

func (c Clock) Location() *time.Location {
	return c.loc
}

// DayStart returns midnight of t's calendar day in the clock's zone.
func (c Clock) DayStart(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// WeekStart returns the Monday 00:00 on or before t. Sunday counts as
// day 7 of the previous week.
func (c Clock) WeekStart(t time.Time) time.Time {
	day := c.DayStart(t)
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7
	}
	return day.AddDate(0, 0, -(wd - 1))
}

// SameDay reports whether a and b fall on the same calendar day.
func (c Clock) SameDay(a, b time.Time) bool {
	return c.DayStart(a).Equal(c.DayStart(b))
}

// IsYesterday reports whether prev's calendar day is exactly one day
// before ref's.
func (c Clock) IsYesterday(prev, ref time.Time) bool {
	return c.DayStart(prev).AddDate(0, 0, 1).Equal(c.DayStart(ref))
}
