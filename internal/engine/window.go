package engine

import (
	"fmt"
	"time"

	"HealthRocket/internal/catalog"
	"HealthRocket/pkg/errors"
)

const windowLayout = "2006-01-02"

// ResetScheduler computes daily and weekly boost windows in one timezone.
// Daily windows are local calendar days. Weekly windows start on ResetWeekday
// at ResetHour local time and are named by that start date.
type ResetScheduler struct {
	Location     *time.Location
	ResetWeekday time.Weekday
	ResetHour    int
}

// NewResetScheduler clamps hour into 0-23 and defaults to UTC.
func NewResetScheduler(loc *time.Location, weekday time.Weekday, hour int) ResetScheduler {
	if loc == nil {
		loc = time.UTC
	}
	if hour < 0 || hour > 23 {
		hour = 0
	}
	return ResetScheduler{Location: loc, ResetWeekday: weekday, ResetHour: hour}
}

// In returns a copy evaluating windows in loc, keeping the weekly anchor.
func (s ResetScheduler) In(loc *time.Location) ResetScheduler {
	if loc == nil {
		return s
	}
	s.Location = loc
	return s
}

func (s ResetScheduler) local(now time.Time) time.Time {
	if s.Location == nil {
		return now.UTC()
	}
	return now.In(s.Location)
}

func (s ResetScheduler) CurrentDailyWindow(now time.Time) WindowID {
	return WindowID(s.local(now).Format(windowLayout))
}

// DailyWindowStart is the local midnight opening the current daily window.
func (s ResetScheduler) DailyWindowStart(now time.Time) time.Time {
	t := s.local(now)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextDailyReset is the next local midnight.
func (s ResetScheduler) NextDailyReset(now time.Time) time.Time {
	t := s.local(now)
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}

func (s ResetScheduler) CurrentWeeklyWindow(now time.Time) WindowID {
	return WindowID(s.weekStart(now).Format(windowLayout))
}

func (s ResetScheduler) WeeklyWindowStart(now time.Time) time.Time {
	return s.weekStart(now)
}

// WindowsStart is the earliest instant that can still count toward either
// current window. With a non-midnight weekly reset the daily window may open
// before the weekly one.
func (s ResetScheduler) WindowsStart(now time.Time) time.Time {
	daily, weekly := s.DailyWindowStart(now), s.weekStart(now)
	if daily.Before(weekly) {
		return daily
	}
	return weekly
}

// NextWeeklyReset is the boundary that closes the current weekly window.
func (s ResetScheduler) NextWeeklyReset(now time.Time) time.Time {
	start := s.weekStart(now)
	return time.Date(start.Year(), start.Month(), start.Day()+7, s.ResetHour, 0, 0, 0, start.Location())
}

// DaysUntilReset counts local calendar days to the next weekly boundary, so it
// is 0 on the reset day before the boundary hour.
func (s ResetScheduler) DaysUntilReset(now time.Time) int {
	t := s.local(now)
	next := s.NextWeeklyReset(now)
	return civilDays(next) - civilDays(t)
}

func (s ResetScheduler) weekStart(now time.Time) time.Time {
	t := s.local(now)
	back := (int(t.Weekday()) - int(s.ResetWeekday) + 7) % 7
	start := time.Date(t.Year(), t.Month(), t.Day()-back, s.ResetHour, 0, 0, 0, t.Location())
	if start.After(t) {
		start = time.Date(start.Year(), start.Month(), start.Day()-7, s.ResetHour, 0, 0, 0, t.Location())
	}
	return start
}

// civilDays is the day number of t's local calendar date, immune to DST.
func civilDays(t time.Time) int {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Unix() / 86400)
}

func (s ResetScheduler) dailyCurrent(snap Snapshot, now time.Time) bool {
	return snap.DailyWindow == "" || snap.DailyWindow == s.CurrentDailyWindow(now)
}

func (s ResetScheduler) weeklyCurrent(snap Snapshot, now time.Time) bool {
	return snap.WeeklyWindow == "" || snap.WeeklyWindow == s.CurrentWeeklyWindow(now)
}

// RemainingQuota never goes negative, even if a race let the store exceed the
// daily maximum.
func (s ResetScheduler) RemainingQuota(category catalog.BoostCategory, snap Snapshot, now time.Time) int {
	used := 0
	if s.dailyCurrent(snap, now) {
		used = snap.BoostCompletionsThisPeriod[category.ID]
	}
	if remaining := category.MaxDailyBoosts - used; remaining > 0 {
		return remaining
	}
	return 0
}

// WeeklyRemaining is -1 for boosts without a weekly limit.
func (s ResetScheduler) WeeklyRemaining(boost catalog.BoostDefinition, snap Snapshot, now time.Time) int {
	if boost.WeeklyLimit == 0 {
		return -1
	}
	used := 0
	if s.weeklyCurrent(snap, now) {
		used = snap.BoostCompletionsThisWeek[boost.ID]
	}
	if remaining := boost.WeeklyLimit - used; remaining > 0 {
		return remaining
	}
	return 0
}

// CompletedToday reports whether boost was already done in the current daily window.
func (s ResetScheduler) CompletedToday(boostID string, snap Snapshot, now time.Time) bool {
	if !s.dailyCurrent(snap, now) {
		return false
	}
	_, ok := snap.BoostsCompletedToday[boostID]
	return ok
}

// CanCompleteBoost is advisory like CanStart. Repeating a boost inside its
// window reports AlreadyCompletedThisWindow before any quota check, so a
// retried request gets the same answer whatever the remaining quota.
func (s ResetScheduler) CanCompleteBoost(boost catalog.BoostDefinition, category catalog.BoostCategory, snap Snapshot, now time.Time) error {
	if boost.Category != category.ID {
		return fmt.Errorf("%w: boost %s is not in category %s", errors.InvalidReference, boost.ID, category.ID)
	}
	if s.CompletedToday(boost.ID, snap, now) {
		return errors.AlreadyCompletedThisWindow
	}
	if s.RemainingQuota(category, snap, now) == 0 {
		return errors.DailyQuotaExceeded
	}
	if s.WeeklyRemaining(boost, snap, now) == 0 {
		return errors.WeeklyQuotaExceeded
	}
	return nil
}
