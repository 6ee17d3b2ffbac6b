package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HealthRocket/internal/catalog"
	"HealthRocket/pkg/errors"
)

func testChallenges() []catalog.ChallengeDefinition {
	return []catalog.ChallengeDefinition{
		{ID: "t0", Category: catalog.CategoryBonus, Tier: 0, FuelPoints: 50},
		{ID: "t1-sleep", Category: catalog.CategorySleep, Tier: 1, FuelPoints: 50},
		{ID: "t1-sleep-b", Category: catalog.CategorySleep, Tier: 1, FuelPoints: 50},
		{ID: "t2-sleep", Category: catalog.CategorySleep, Tier: 2, FuelPoints: 100},
		{ID: "t1-mind", Category: catalog.CategoryMindset, Tier: 1, FuelPoints: 50},
		{ID: "t2-exercise", Category: catalog.CategoryExercise, Tier: 2, FuelPoints: 100},
		{ID: "again", Category: catalog.CategoryBonus, Tier: 1, FuelPoints: 10, Repeatable: true},
	}
}

func snapshot(active []string, completed ...string) Snapshot {
	s := Snapshot{CompletedChallengeIDs: map[string]struct{}{}}
	for _, id := range active {
		s.ActiveChallenges = append(s.ActiveChallenges, ChallengeProgress{
			ChallengeID: id,
			Status:      ProgressActive,
			StartedAt:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		})
	}
	for _, id := range completed {
		s.CompletedChallengeIDs[id] = struct{}{}
	}
	return s
}

func statusByID(t *testing.T, out []ClassifiedChallenge) map[string]Status {
	t.Helper()
	m := make(map[string]Status, len(out))
	for _, c := range out {
		m[c.ID] = c.Status
	}
	return m
}

func TestClassifyTier1UnlocksAfterTier0(t *testing.T) {
	e := NewEligibility(testChallenges(), 2)

	out, err := e.Classify(snapshot(nil), nil)
	require.NoError(t, err)
	got := statusByID(t, out)
	assert.Equal(t, StatusAvailable, got["t0"])
	assert.Equal(t, StatusLocked, got["t1-sleep"])

	out, err = e.Classify(snapshot(nil, "t0"), nil)
	require.NoError(t, err)
	got = statusByID(t, out)
	assert.Equal(t, StatusCompleted, got["t0"])
	assert.Equal(t, StatusAvailable, got["t1-sleep"])
}

func TestClassifyTier2NeedsAllTier1OfCategory(t *testing.T) {
	e := NewEligibility(testChallenges(), 2)

	out, err := e.Classify(snapshot(nil, "t0", "t1-sleep"), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusLocked, statusByID(t, out)["t2-sleep"])

	out, err = e.Classify(snapshot(nil, "t0", "t1-sleep", "t1-sleep-b"), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, statusByID(t, out)["t2-sleep"])
}

func TestClassifyTier2WithoutTier1IsUnlocked(t *testing.T) {
	e := NewEligibility(testChallenges(), 2)

	out, err := e.Classify(snapshot(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, statusByID(t, out)["t2-exercise"])
}

func TestClassifyPrecedence(t *testing.T) {
	e := NewEligibility(testChallenges(), 2)

	// active and locked at the same time reports active
	out, err := e.Classify(snapshot([]string{"t1-mind"}), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, statusByID(t, out)["t1-mind"])

	// a repeatable challenge that is both completed and active reports completed
	out, err = e.Classify(snapshot([]string{"again"}, "t0", "again"), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, statusByID(t, out)["again"])
}

func TestClassifyKeepsCatalogOrderAndFlagsRecommended(t *testing.T) {
	defs := testChallenges()
	e := NewEligibility(defs, 2)

	out, err := e.Classify(snapshot(nil), []string{"t2-sleep", "missing"})
	require.NoError(t, err)
	require.Len(t, out, len(defs))
	for i := range defs {
		assert.Equal(t, defs[i].ID, out[i].ID)
		assert.Equal(t, defs[i].ID == "t2-sleep", out[i].Recommended)
	}
	assert.NotEmpty(t, out[3].LockReason)
}

func TestClassifyInvalidReference(t *testing.T) {
	e := NewEligibility(testChallenges(), 2)

	_, err := e.Classify(snapshot([]string{"ghost"}), nil)
	assert.True(t, errors.Is(err, errors.InvalidReference))

	_, err = e.Classify(snapshot(nil, "ghost"), nil)
	assert.True(t, errors.Is(err, errors.InvalidReference))
}

func TestClassifyDoesNotMutateInput(t *testing.T) {
	e := NewEligibility(testChallenges(), 2)
	snap := snapshot([]string{"t0"})
	recommended := []string{"t1-mind", "t0"}

	_, err := e.Classify(snap, recommended)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1-mind", "t0"}, recommended)
	assert.Len(t, snap.ActiveChallenges, 1)
	assert.Empty(t, snap.CompletedChallengeIDs)
}

func TestCanStart(t *testing.T) {
	defs := testChallenges()
	byID := make(map[string]catalog.ChallengeDefinition)
	for _, d := range defs {
		byID[d.ID] = d
	}
	e := NewEligibility(defs, 2)

	tests := []struct {
		name      string
		challenge string
		snap      Snapshot
		want      error
	}{
		{name: "tier 0 available", challenge: "t0", snap: snapshot(nil)},
		{name: "already active", challenge: "t0", snap: snapshot([]string{"t0"}), want: errors.AlreadyActive},
		{name: "active wins over cap", challenge: "t0", snap: snapshot([]string{"t0", "t2-exercise"}), want: errors.AlreadyActive},
		{name: "capped", challenge: "t1-sleep", snap: snapshot([]string{"t0", "t2-exercise"}, "t0"), want: errors.AlreadyCapped},
		{name: "locked", challenge: "t1-sleep", snap: snapshot(nil), want: errors.Locked},
		{name: "tier 2 locked", challenge: "t2-sleep", snap: snapshot(nil, "t0", "t1-sleep"), want: errors.Locked},
		{name: "one shot", challenge: "t0", snap: snapshot(nil, "t0"), want: errors.AlreadyCompleted},
		{name: "repeatable restarts", challenge: "again", snap: snapshot(nil, "t0", "again")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.CanStart(byID[tt.challenge], tt.snap)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, err)
		})
	}
}

func TestCanStartThirdWhenCapIsTwo(t *testing.T) {
	e := NewEligibility(testChallenges(), 2)
	snap := snapshot([]string{"t1-sleep", "t1-mind"}, "t0")

	def := testChallenges()[2]
	assert.Equal(t, errors.AlreadyCapped, e.CanStart(def, snap))
}

func TestCanStartUnknown(t *testing.T) {
	e := NewEligibility(testChallenges(), 2)
	err := e.CanStart(catalog.ChallengeDefinition{ID: "nope"}, snapshot(nil))
	assert.True(t, errors.Is(err, errors.UnknownChallenge))
}

func TestCanComplete(t *testing.T) {
	defs := testChallenges()
	e := NewEligibility(defs, 2)

	assert.NoError(t, e.CanComplete(defs[0], snapshot([]string{"t0"})))
	assert.Equal(t, errors.AlreadyCompleted, e.CanComplete(defs[0], snapshot(nil, "t0")))
	assert.Equal(t, errors.NotActive, e.CanComplete(defs[0], snapshot(nil)))
}

func TestNewEligibilityDefaultCap(t *testing.T) {
	assert.Equal(t, DefaultActiveChallengeCap, NewEligibility(nil, 0).Cap())
	assert.Equal(t, 5, NewEligibility(nil, 5).Cap())
}

func ExampleRank() {
	fmt.Println(Rank([]string{"a", "b", "c"}, func(s string) string { return s }, []string{"b"}))
	// Output: [b a c]
}
