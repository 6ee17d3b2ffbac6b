package engine

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"HealthRocket/internal/catalog"
	"HealthRocket/pkg/errors"
)

// snapshotFrom marks catalog entries active or completed by position.
func snapshotFrom(defs []catalog.ChallengeDefinition, active, completed []bool) Snapshot {
	s := Snapshot{CompletedChallengeIDs: map[string]struct{}{}}
	for i, d := range defs {
		if i < len(active) && active[i] {
			s.ActiveChallenges = append(s.ActiveChallenges, ChallengeProgress{ChallengeID: d.ID, Status: ProgressActive})
		}
		if i < len(completed) && completed[i] {
			s.CompletedChallengeIDs[d.ID] = struct{}{}
		}
	}
	return s
}

func TestClassifyProperties(t *testing.T) {
	defs := catalog.Default().Challenges()
	n := len(defs)
	e := NewEligibility(defs, 2)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("one status per definition", prop.ForAll(
		func(active, completed []bool) bool {
			out, err := e.Classify(snapshotFrom(defs, active, completed), nil)
			if err != nil || len(out) != n {
				return false
			}
			seen := make(map[string]bool, n)
			for i, c := range out {
				if c.ID != defs[i].ID || seen[c.ID] {
					return false
				}
				seen[c.ID] = true
				switch c.Status {
				case StatusLocked, StatusAvailable, StatusActive, StatusCompleted:
				default:
					return false
				}
			}
			return true
		},
		gen.SliceOfN(n, gen.Bool()),
		gen.SliceOfN(n, gen.Bool()),
	))

	properties.Property("tier 2 never available before its tier 1 is done", prop.ForAll(
		func(active, completed []bool) bool {
			snap := snapshotFrom(defs, active, completed)
			out, err := e.Classify(snap, nil)
			if err != nil {
				return false
			}
			for _, c := range out {
				if c.Tier != 2 || c.Status != StatusAvailable {
					continue
				}
				for _, d := range defs {
					if d.Tier == 1 && d.Category == c.Category && !snap.IsCompleted(d.ID) {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(n, gen.Bool()),
		gen.SliceOfN(n, gen.Bool()),
	))

	properties.Property("start never succeeds at the cap", prop.ForAll(
		func(active, completed []bool, pick int) bool {
			snap := snapshotFrom(defs, active, completed)
			err := e.CanStart(defs[pick], snap)
			if len(snap.ActiveChallenges) >= e.Cap() {
				return err != nil
			}
			return true
		},
		gen.SliceOfN(n, gen.Bool()),
		gen.SliceOfN(n, gen.Bool()),
		gen.IntRange(0, n-1),
	))

	properties.TestingRun(t)
}

func TestQuotaProperties(t *testing.T) {
	s := NewResetScheduler(time.UTC, time.Monday, 0)
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	boost := catalog.BoostDefinition{ID: "sb1", Category: catalog.CategorySleep, FuelPoints: 1}

	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("remaining quota is non-increasing and never negative", prop.ForAll(
		func(max, used int) bool {
			bc := catalog.BoostCategory{ID: catalog.CategorySleep, MaxDailyBoosts: max}
			a := s.RemainingQuota(bc, Snapshot{BoostCompletionsThisPeriod: map[catalog.Category]int{catalog.CategorySleep: used}}, now)
			b := s.RemainingQuota(bc, Snapshot{BoostCompletionsThisPeriod: map[catalog.Category]int{catalog.CategorySleep: used + 1}}, now)
			return a >= 0 && b >= 0 && b <= a
		},
		gen.IntRange(1, 10),
		gen.IntRange(0, 20),
	))

	properties.Property("second completion in a window is always AlreadyCompletedThisWindow", prop.ForAll(
		func(max, used int) bool {
			bc := catalog.BoostCategory{ID: catalog.CategorySleep, MaxDailyBoosts: max}
			snap := Snapshot{
				BoostCompletionsThisPeriod: map[catalog.Category]int{catalog.CategorySleep: used},
				BoostsCompletedToday:       map[string]struct{}{"sb1": {}},
			}
			return s.CanCompleteBoost(boost, bc, snap, now) == errors.AlreadyCompletedThisWindow
		},
		gen.IntRange(1, 10),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}

func TestRankProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("rank is a stable permutation with recommended first", prop.ForAll(
		func(items []string, recommended []string) bool {
			out := Rank(items, identity, recommended)
			if len(out) != len(items) {
				return false
			}
			rec := toSet(recommended)
			var wantFirst, wantRest []string
			for _, it := range items {
				if _, ok := rec[it]; ok {
					wantFirst = append(wantFirst, it)
				} else {
					wantRest = append(wantRest, it)
				}
			}
			want := append(wantFirst, wantRest...)
			for i := range want {
				if out[i] != want[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
