package model

import "time"

type ChallengeStatus string

const (
	ChallengeStatusActive    ChallengeStatus = "active"
	ChallengeStatusCompleted ChallengeStatus = "completed"
)

// ChallengeProgress is one started instance of a challenge. Rows are never
// deleted; a repeatable challenge gets a new row per run.
type ChallengeProgress struct {
	BaseModel
	UserID      int64           `gorm:"not null;index:idx_challenge_progress_user_status,priority:1" json:"user_id"`
	ChallengeID string          `gorm:"type:varchar(64);not null" json:"challenge_id"`
	Status      ChallengeStatus `gorm:"type:varchar(16);not null;index:idx_challenge_progress_user_status,priority:2" json:"status"`
	StartedAt   time.Time       `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

func (ChallengeProgress) TableName() string {
	return "challenge_progress"
}

// BoostCompletion is immutable. The unique index makes a second completion of
// the same boost in the same daily window fail at the database even if two
// requests pass the in-transaction check together. The window is keyed by its
// UTC start instant: the local date alone repeats when a user changes timezone.
type BoostCompletion struct {
	BaseModel
	UserID      int64     `gorm:"not null;uniqueIndex:uk_boost_completion_window,priority:1;index:idx_boost_completion_user_time,priority:1" json:"user_id"`
	BoostID     string    `gorm:"type:varchar(64);not null;uniqueIndex:uk_boost_completion_window,priority:2" json:"boost_id"`
	Category    string    `gorm:"type:varchar(32);not null" json:"category"`
	WindowDate  string    `gorm:"type:varchar(10);not null" json:"window_date"`
	WindowStart time.Time `gorm:"not null;uniqueIndex:uk_boost_completion_window,priority:3" json:"window_start"`
	CompletedAt time.Time `gorm:"not null;index:idx_boost_completion_user_time,priority:2" json:"completed_at"`
}

func (BoostCompletion) TableName() string {
	return "boost_completions"
}

// Recommendation holds the externally computed recommended challenge ids.
type Recommendation struct {
	BaseModel
	UserID       int64    `gorm:"uniqueIndex;not null" json:"user_id"`
	ChallengeIDs []string `gorm:"type:text;serializer:json" json:"challenge_ids"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
