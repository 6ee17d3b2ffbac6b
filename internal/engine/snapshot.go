package engine

import (
	"fmt"
	"time"

	"HealthRocket/internal/catalog"
	"HealthRocket/pkg/errors"
)

// BuildSnapshot folds stored rows into a Snapshot for the windows containing
// now. Completions outside the current windows are ignored. A row that names a
// challenge or boost missing from the catalog is an integrity fault.
func BuildSnapshot(cat *catalog.Catalog, progress []ChallengeProgress, completions []BoostCompletion, sched ResetScheduler, now time.Time) (Snapshot, error) {
	snap := Snapshot{
		ActiveChallenges:           make([]ChallengeProgress, 0, len(progress)),
		CompletedChallengeIDs:      make(map[string]struct{}),
		BoostCompletionsThisPeriod: make(map[catalog.Category]int),
		BoostsCompletedToday:       make(map[string]struct{}),
		BoostCompletionsThisWeek:   make(map[string]int),
		DailyWindow:                sched.CurrentDailyWindow(now),
		WeeklyWindow:               sched.CurrentWeeklyWindow(now),
	}

	for _, p := range progress {
		if _, ok := cat.Challenge(p.ChallengeID); !ok {
			return Snapshot{}, fmt.Errorf("%w: challenge %q", errors.InvalidReference, p.ChallengeID)
		}
		switch p.Status {
		case ProgressActive:
			snap.ActiveChallenges = append(snap.ActiveChallenges, p)
		case ProgressCompleted:
			snap.CompletedChallengeIDs[p.ChallengeID] = struct{}{}
		default:
			return Snapshot{}, fmt.Errorf("%w: challenge %q has status %q", errors.InvalidReference, p.ChallengeID, p.Status)
		}
	}

	for _, c := range completions {
		category, ok := cat.CategoryOfBoost(c.BoostID)
		if !ok {
			return Snapshot{}, fmt.Errorf("%w: boost %q", errors.InvalidReference, c.BoostID)
		}
		if sched.CurrentWeeklyWindow(c.CompletedAt) == snap.WeeklyWindow {
			snap.BoostCompletionsThisWeek[c.BoostID]++
		}
		if sched.CurrentDailyWindow(c.CompletedAt) == snap.DailyWindow {
			snap.BoostCompletionsThisPeriod[category]++
			snap.BoostsCompletedToday[c.BoostID] = struct{}{}
		}
	}

	return snap, nil
}
