// Package engine derives challenge and boost eligibility from a user's
// progress. Everything here is a pure function of its arguments: no I/O, no
// clock reads and no package state.
package engine

import (
	"time"

	"HealthRocket/internal/catalog"
)

// Status is the classification of one challenge for one user.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusAvailable Status = "available"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ProgressStatus is the stored lifecycle state of a challenge instance.
type ProgressStatus string

const (
	ProgressActive    ProgressStatus = "active"
	ProgressCompleted ProgressStatus = "completed"
)

type ChallengeProgress struct {
	ChallengeID string         `json:"challenge_id"`
	Status      ProgressStatus `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

type BoostCompletion struct {
	BoostID     string    `json:"boost_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// WindowID names a daily or weekly reset window by its local start date.
type WindowID string

// Snapshot is the read-only view of a user's progress the rules run against.
//
// DailyWindow and WeeklyWindow record the windows the counters were computed
// for. When they do not match the window of the evaluation time the counters
// are stale and treated as zero. An empty window means the snapshot was
// assembled for the evaluation time and is always current.
type Snapshot struct {
	ActiveChallenges      []ChallengeProgress `json:"active_challenges"`
	CompletedChallengeIDs map[string]struct{} `json:"completed_challenge_ids"`

	BoostCompletionsThisPeriod map[catalog.Category]int `json:"boost_completions_this_period"`
	BoostsCompletedToday       map[string]struct{}      `json:"boosts_completed_today"`
	BoostCompletionsThisWeek   map[string]int           `json:"boost_completions_this_week"`

	DailyWindow  WindowID `json:"daily_window"`
	WeeklyWindow WindowID `json:"weekly_window"`
}

func (s Snapshot) IsActive(challengeID string) bool {
	for _, p := range s.ActiveChallenges {
		if p.ChallengeID == challengeID {
			return true
		}
	}
	return false
}

func (s Snapshot) IsCompleted(challengeID string) bool {
	_, ok := s.CompletedChallengeIDs[challengeID]
	return ok
}

// ClassifiedChallenge is one catalog entry annotated for display.
type ClassifiedChallenge struct {
	catalog.ChallengeDefinition
	Status      Status `json:"status"`
	Recommended bool   `json:"recommended"`
	LockReason  string `json:"lock_reason,omitempty"`
}
