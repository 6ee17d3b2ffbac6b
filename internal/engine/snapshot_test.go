package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HealthRocket/internal/catalog"
	"HealthRocket/pkg/errors"
)

func TestBuildSnapshot(t *testing.T) {
	cat := catalog.Default()
	s := mondayScheduler()
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC) // Wednesday
	done := now.Add(-48 * time.Hour)

	progress := []ChallengeProgress{
		{ChallengeID: "tc0", Status: ProgressCompleted, StartedAt: done, CompletedAt: &done},
		{ChallengeID: "sc1", Status: ProgressActive, StartedAt: done},
	}
	completions := []BoostCompletion{
		{BoostID: "sb1", CompletedAt: now.Add(-time.Hour)},
		{BoostID: "sb4", CompletedAt: now.Add(-2 * time.Hour)},
		{BoostID: "sb4", CompletedAt: now.Add(-24 * time.Hour)},  // Tuesday
		{BoostID: "sb2", CompletedAt: now.Add(-4 * 24 * time.Hour)}, // previous week
	}

	snap, err := BuildSnapshot(cat, progress, completions, s, now)
	require.NoError(t, err)

	assert.Equal(t, WindowID("2024-03-06"), snap.DailyWindow)
	assert.Equal(t, WindowID("2024-03-04"), snap.WeeklyWindow)
	assert.True(t, snap.IsCompleted("tc0"))
	assert.True(t, snap.IsActive("sc1"))
	assert.Equal(t, 2, snap.BoostCompletionsThisPeriod[catalog.CategorySleep])
	assert.Contains(t, snap.BoostsCompletedToday, "sb1")
	assert.NotContains(t, snap.BoostsCompletedToday, "sb2")
	assert.Equal(t, 2, snap.BoostCompletionsThisWeek["sb4"])
	assert.Zero(t, snap.BoostCompletionsThisWeek["sb2"])

	sleep, _ := cat.BoostCategory(catalog.CategorySleep)
	assert.Equal(t, 1, s.RemainingQuota(sleep, snap, now))
}

func TestBuildSnapshotUnknownBoost(t *testing.T) {
	_, err := BuildSnapshot(catalog.Default(), nil,
		[]BoostCompletion{{BoostID: "ghost", CompletedAt: time.Now()}},
		mondayScheduler(), time.Now())
	assert.True(t, errors.Is(err, errors.InvalidReference))
}

func TestBuildSnapshotUnknownStatus(t *testing.T) {
	_, err := BuildSnapshot(catalog.Default(),
		[]ChallengeProgress{{ChallengeID: "tc0", Status: "paused"}},
		nil, mondayScheduler(), time.Now())
	assert.True(t, errors.Is(err, errors.InvalidReference))
}
