package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HealthRocket/internal/catalog"
	"HealthRocket/pkg/errors"
)

func TestRulesSchedulerFor(t *testing.T) {
	r := NewRules(catalog.Default(), 2, NewResetScheduler(time.UTC, time.Monday, 0))

	assert.Equal(t, time.UTC, r.SchedulerFor("").Location)
	assert.Equal(t, time.UTC, r.SchedulerFor("Not/AZone").Location)

	tokyo := r.SchedulerFor("Asia/Tokyo")
	assert.Equal(t, "Asia/Tokyo", tokyo.Location.String())
	assert.Equal(t, time.Monday, tokyo.ResetWeekday)
}

func TestRulesChecks(t *testing.T) {
	r := NewRules(catalog.Default(), 2, NewResetScheduler(time.UTC, time.Monday, 0))
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

	_, err := r.CheckStart("nope", Snapshot{})
	assert.True(t, errors.Is(err, errors.UnknownChallenge))

	def, err := r.CheckStart("tc0", Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, 0, def.Tier)

	_, err = r.CheckStart("sc1", Snapshot{})
	assert.Equal(t, errors.Locked, err)

	_, err = r.CheckComplete("tc0", Snapshot{})
	assert.Equal(t, errors.NotActive, err)

	_, _, err = r.CheckBoost("nope", Snapshot{}, r.Scheduler, now)
	assert.True(t, errors.Is(err, errors.UnknownBoost))

	boost, category, err := r.CheckBoost("sb1", Snapshot{}, r.Scheduler, now)
	require.NoError(t, err)
	assert.Equal(t, catalog.CategorySleep, boost.Category)
	assert.Equal(t, 3, category.MaxDailyBoosts)
}
