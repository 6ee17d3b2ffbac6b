package engine

import (
	"fmt"
	"time"

	"HealthRocket/internal/catalog"
	"HealthRocket/pkg/errors"
)

// Rules bundles the immutable inputs shared by the advisory checks in the
// service and the authoritative checks inside store transactions, so both run
// the same code.
type Rules struct {
	Catalog     *catalog.Catalog
	Eligibility *Eligibility
	Scheduler   ResetScheduler
}

func NewRules(cat *catalog.Catalog, activeCap int, sched ResetScheduler) *Rules {
	return &Rules{
		Catalog:     cat,
		Eligibility: NewEligibility(cat.Challenges(), activeCap),
		Scheduler:   sched,
	}
}

// SchedulerFor evaluates windows in the user's IANA timezone. An empty or
// unknown zone falls back to the configured one.
func (r *Rules) SchedulerFor(timezone string) ResetScheduler {
	if timezone == "" {
		return r.Scheduler
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return r.Scheduler
	}
	return r.Scheduler.In(loc)
}

// CheckStart resolves challengeID and runs CanStart.
func (r *Rules) CheckStart(challengeID string, snap Snapshot) (catalog.ChallengeDefinition, error) {
	def, ok := r.Catalog.Challenge(challengeID)
	if !ok {
		return catalog.ChallengeDefinition{}, fmt.Errorf("%w: %s", errors.UnknownChallenge, challengeID)
	}
	return def, r.Eligibility.CanStart(def, snap)
}

func (r *Rules) CheckComplete(challengeID string, snap Snapshot) (catalog.ChallengeDefinition, error) {
	def, ok := r.Catalog.Challenge(challengeID)
	if !ok {
		return catalog.ChallengeDefinition{}, fmt.Errorf("%w: %s", errors.UnknownChallenge, challengeID)
	}
	return def, r.Eligibility.CanComplete(def, snap)
}

// CheckBoost resolves boostID and its category and runs CanCompleteBoost.
func (r *Rules) CheckBoost(boostID string, snap Snapshot, sched ResetScheduler, now time.Time) (catalog.BoostDefinition, catalog.BoostCategory, error) {
	boost, ok := r.Catalog.Boost(boostID)
	if !ok {
		return catalog.BoostDefinition{}, catalog.BoostCategory{}, fmt.Errorf("%w: %s", errors.UnknownBoost, boostID)
	}
	category, ok := r.Catalog.BoostCategory(boost.Category)
	if !ok {
		return boost, catalog.BoostCategory{}, fmt.Errorf("%w: boost %s category %s", errors.InvalidReference, boostID, boost.Category)
	}
	return boost, category, sched.CanCompleteBoost(boost, category, snap, now)
}
