package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HealthRocket/internal/catalog"
	"HealthRocket/pkg/errors"
)

var sleepCategory = catalog.BoostCategory{ID: catalog.CategorySleep, Name: "Sleep", MaxDailyBoosts: 3}

func mondayScheduler() ResetScheduler {
	return NewResetScheduler(time.UTC, time.Monday, 0)
}

func TestDailyWindow(t *testing.T) {
	s := mondayScheduler()
	assert.Equal(t, WindowID("2024-03-06"), s.CurrentDailyWindow(time.Date(2024, 3, 6, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, WindowID("2024-03-07"), s.CurrentDailyWindow(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)))

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// 03:00 UTC is still the previous evening in New York
	assert.Equal(t, WindowID("2024-03-06"), s.In(ny).CurrentDailyWindow(time.Date(2024, 3, 7, 3, 0, 0, 0, time.UTC)))
}

func TestWeeklyWindow(t *testing.T) {
	s := mondayScheduler()

	// 2024-03-04 is a Monday
	tests := []struct {
		name string
		now  time.Time
		want WindowID
		days int
	}{
		{name: "monday boundary", now: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), want: "2024-03-04", days: 7},
		{name: "wednesday", now: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC), want: "2024-03-04", days: 5},
		{name: "sunday night", now: time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC), want: "2024-03-04", days: 1},
		{name: "next monday", now: time.Date(2024, 3, 11, 0, 30, 0, 0, time.UTC), want: "2024-03-11", days: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.CurrentWeeklyWindow(tt.now))
			assert.Equal(t, tt.days, s.DaysUntilReset(tt.now))
		})
	}
}

func TestDaysUntilResetZeroBeforeBoundaryOnResetDay(t *testing.T) {
	s := NewResetScheduler(time.UTC, time.Monday, 6)

	now := time.Date(2024, 3, 11, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, s.DaysUntilReset(now))
	assert.Equal(t, WindowID("2024-03-04"), s.CurrentWeeklyWindow(now))
	assert.Equal(t, time.Date(2024, 3, 11, 6, 0, 0, 0, time.UTC), s.NextWeeklyReset(now))

	after := time.Date(2024, 3, 11, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, 7, s.DaysUntilReset(after))
	assert.Equal(t, WindowID("2024-03-11"), s.CurrentWeeklyWindow(after))
}

func TestWeeklyWindowAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	s := NewResetScheduler(ny, time.Sunday, 0)

	// DST starts 2024-03-10 02:00 local
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, ny)
	assert.Equal(t, WindowID("2024-03-10"), s.CurrentWeeklyWindow(now))
	assert.Equal(t, 7, s.DaysUntilReset(now))
	assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, ny), s.NextWeeklyReset(now))
}

func TestNextDailyReset(t *testing.T) {
	s := mondayScheduler()
	now := time.Date(2024, 12, 31, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), s.NextDailyReset(now))
}

func TestRemainingQuota(t *testing.T) {
	s := mondayScheduler()
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

	snap := Snapshot{BoostCompletionsThisPeriod: map[catalog.Category]int{catalog.CategorySleep: 3}}
	assert.Equal(t, 0, s.RemainingQuota(sleepCategory, snap, now))

	snap.BoostCompletionsThisPeriod[catalog.CategorySleep] = 5
	assert.Equal(t, 0, s.RemainingQuota(sleepCategory, snap, now), "never negative")

	snap.BoostCompletionsThisPeriod[catalog.CategorySleep] = 1
	assert.Equal(t, 2, s.RemainingQuota(sleepCategory, snap, now))

	assert.Equal(t, 3, s.RemainingQuota(sleepCategory, Snapshot{}, now))
}

func TestRemainingQuotaStaleSnapshot(t *testing.T) {
	s := mondayScheduler()
	snap := Snapshot{
		DailyWindow:                "2024-03-05",
		BoostCompletionsThisPeriod: map[catalog.Category]int{catalog.CategorySleep: 3},
		BoostsCompletedToday:       map[string]struct{}{"sb1": {}},
	}
	now := time.Date(2024, 3, 6, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 3, s.RemainingQuota(sleepCategory, snap, now))
	assert.False(t, s.CompletedToday("sb1", snap, now))
}

func TestCanCompleteBoost(t *testing.T) {
	s := mondayScheduler()
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	boost := catalog.BoostDefinition{ID: "sb1", Category: catalog.CategorySleep, FuelPoints: 1}
	weekly := catalog.BoostDefinition{ID: "sb4", Category: catalog.CategorySleep, FuelPoints: 2, WeeklyLimit: 2}

	tests := []struct {
		name  string
		boost catalog.BoostDefinition
		snap  Snapshot
		want  error
	}{
		{name: "fresh", boost: boost, snap: Snapshot{}},
		{
			name:  "daily quota spent",
			boost: boost,
			snap:  Snapshot{BoostCompletionsThisPeriod: map[catalog.Category]int{catalog.CategorySleep: 3}},
			want:  errors.DailyQuotaExceeded,
		},
		{
			name:  "same boost again with quota left",
			boost: boost,
			snap: Snapshot{
				BoostCompletionsThisPeriod: map[catalog.Category]int{catalog.CategorySleep: 1},
				BoostsCompletedToday:       map[string]struct{}{"sb1": {}},
			},
			want: errors.AlreadyCompletedThisWindow,
		},
		{
			name:  "same boost again with quota spent",
			boost: boost,
			snap: Snapshot{
				BoostCompletionsThisPeriod: map[catalog.Category]int{catalog.CategorySleep: 3},
				BoostsCompletedToday:       map[string]struct{}{"sb1": {}},
			},
			want: errors.AlreadyCompletedThisWindow,
		},
		{
			name:  "weekly limit",
			boost: weekly,
			snap:  Snapshot{BoostCompletionsThisWeek: map[string]int{"sb4": 2}},
			want:  errors.WeeklyQuotaExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CanCompleteBoost(tt.boost, sleepCategory, tt.snap, now)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, err)
		})
	}
}

func TestCanCompleteBoostCategoryMismatch(t *testing.T) {
	s := mondayScheduler()
	boost := catalog.BoostDefinition{ID: "eb1", Category: catalog.CategoryExercise, FuelPoints: 1}
	err := s.CanCompleteBoost(boost, sleepCategory, Snapshot{}, time.Now())
	assert.True(t, errors.Is(err, errors.InvalidReference))
}

func TestWeeklyRemaining(t *testing.T) {
	s := mondayScheduler()
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

	unlimited := catalog.BoostDefinition{ID: "a"}
	assert.Equal(t, -1, s.WeeklyRemaining(unlimited, Snapshot{}, now))

	limited := catalog.BoostDefinition{ID: "b", WeeklyLimit: 3}
	snap := Snapshot{WeeklyWindow: "2024-03-04", BoostCompletionsThisWeek: map[string]int{"b": 1}}
	assert.Equal(t, 2, s.WeeklyRemaining(limited, snap, now))

	snap.WeeklyWindow = "2024-02-26"
	assert.Equal(t, 3, s.WeeklyRemaining(limited, snap, now))
}

func TestWindowsStart(t *testing.T) {
	s := NewResetScheduler(time.UTC, time.Monday, 6)

	// Monday 08:00, weekly window opened at 06:00 today, daily at midnight
	now := time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), s.WindowsStart(now))

	// Wednesday, weekly window is older
	now = time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 11, 6, 0, 0, 0, time.UTC), s.WindowsStart(now))
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), s.DailyWindowStart(now))
}
