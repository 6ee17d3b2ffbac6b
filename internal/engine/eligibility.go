package engine

import (
	"fmt"

	"HealthRocket/internal/catalog"
	"HealthRocket/pkg/errors"
)

// DefaultActiveChallengeCap is the number of challenges a user may run at once.
const DefaultActiveChallengeCap = 2

// Eligibility evaluates challenge rules against one immutable list of
// definitions.
type Eligibility struct {
	challenges []catalog.ChallengeDefinition
	known      map[string]struct{}
	// tier1 challenge ids per category, for tier 2 gating
	tier1 map[catalog.Category][]string
	tier0 []string
	cap   int
}

// NewEligibility copies challenges. A cap below 1 falls back to the default.
func NewEligibility(challenges []catalog.ChallengeDefinition, cap int) *Eligibility {
	if cap < 1 {
		cap = DefaultActiveChallengeCap
	}
	e := &Eligibility{
		challenges: append([]catalog.ChallengeDefinition(nil), challenges...),
		known:      make(map[string]struct{}, len(challenges)),
		tier1:      make(map[catalog.Category][]string),
		cap:        cap,
	}
	for _, ch := range e.challenges {
		e.known[ch.ID] = struct{}{}
		switch ch.Tier {
		case 0:
			e.tier0 = append(e.tier0, ch.ID)
		case 1:
			e.tier1[ch.Category] = append(e.tier1[ch.Category], ch.ID)
		}
	}
	return e
}

func (e *Eligibility) Cap() int {
	return e.cap
}

// Classify returns one entry per definition, in catalog order. Recommended
// ids only set the Recommended flag; ordering is the ranker's job.
func (e *Eligibility) Classify(snap Snapshot, recommendedIDs []string) ([]ClassifiedChallenge, error) {
	if err := e.checkReferences(snap); err != nil {
		return nil, err
	}

	recommended := toSet(recommendedIDs)
	out := make([]ClassifiedChallenge, 0, len(e.challenges))
	for _, def := range e.challenges {
		c := ClassifiedChallenge{ChallengeDefinition: def}
		_, c.Recommended = recommended[def.ID]

		switch {
		case snap.IsCompleted(def.ID):
			c.Status = StatusCompleted
		case snap.IsActive(def.ID):
			c.Status = StatusActive
		case !e.Unlocked(def, snap):
			c.Status = StatusLocked
			c.LockReason = lockReason(def)
		default:
			c.Status = StatusAvailable
		}
		out = append(out, c)
	}
	return out, nil
}

// Unlocked reports whether def passes tier gating. Tier 1 needs any tier 0
// challenge completed. Tier 2 needs every tier 1 challenge of its category
// completed, which holds trivially when the category has none.
func (e *Eligibility) Unlocked(def catalog.ChallengeDefinition, snap Snapshot) bool {
	switch def.Tier {
	case 0:
		return true
	case 1:
		for _, id := range e.tier0 {
			if snap.IsCompleted(id) {
				return true
			}
		}
		return false
	default:
		for _, id := range e.tier1[def.Category] {
			if !snap.IsCompleted(id) {
				return false
			}
		}
		return true
	}
}

// CanStart is an advisory check; the store repeats it inside its transaction.
// Reasons are checked in a fixed order so a challenge that is both active and
// over the cap always reports AlreadyActive.
func (e *Eligibility) CanStart(def catalog.ChallengeDefinition, snap Snapshot) error {
	if _, ok := e.known[def.ID]; !ok {
		return fmt.Errorf("%w: %s", errors.UnknownChallenge, def.ID)
	}
	if snap.IsActive(def.ID) {
		return errors.AlreadyActive
	}
	if snap.IsCompleted(def.ID) && !def.Repeatable {
		return errors.AlreadyCompleted
	}
	if len(snap.ActiveChallenges) >= e.cap {
		return errors.AlreadyCapped
	}
	if !e.Unlocked(def, snap) {
		return errors.Locked
	}
	return nil
}

// CanComplete checks the active -> completed transition.
func (e *Eligibility) CanComplete(def catalog.ChallengeDefinition, snap Snapshot) error {
	if _, ok := e.known[def.ID]; !ok {
		return fmt.Errorf("%w: %s", errors.UnknownChallenge, def.ID)
	}
	if snap.IsActive(def.ID) {
		return nil
	}
	if snap.IsCompleted(def.ID) {
		return errors.AlreadyCompleted
	}
	return errors.NotActive
}

func (e *Eligibility) checkReferences(snap Snapshot) error {
	for _, p := range snap.ActiveChallenges {
		if _, ok := e.known[p.ChallengeID]; !ok {
			return fmt.Errorf("%w: active challenge %q", errors.InvalidReference, p.ChallengeID)
		}
	}
	for id := range snap.CompletedChallengeIDs {
		if _, ok := e.known[id]; !ok {
			return fmt.Errorf("%w: completed challenge %q", errors.InvalidReference, id)
		}
	}
	return nil
}

func lockReason(def catalog.ChallengeDefinition) string {
	if def.Tier == 1 {
		return "Complete the required first challenge to unlock"
	}
	return fmt.Sprintf("Complete all Tier 1 %s challenges to unlock", def.Category)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
