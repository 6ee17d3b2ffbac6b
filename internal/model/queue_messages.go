package model

type ProgressEventType string

const (
	EventChallengeStarted   ProgressEventType = "challenge_started"
	EventChallengeCompleted ProgressEventType = "challenge_completed"
	EventBoostCompleted     ProgressEventType = "boost_completed"
)

// ProgressEventMessage is published after every successful progress mutation.
type ProgressEventMessage struct {
	MessageID  string            `json:"message_id"` // derived from the stored row, stable across republish
	Type       ProgressEventType `json:"type"`
	UserID     int64             `json:"user_id"`
	SourceID   string            `json:"source_id"` // challenge or boost id
	Category   string            `json:"category"`
	Tier       int               `json:"tier,omitempty"`
	FuelPoints int               `json:"fuel_points"`
	OccurredAt string            `json:"occurred_at"`
}

// BoostReminderMessage nudges a user who still has boost quota left today.
type BoostReminderMessage struct {
	MessageID      string         `json:"message_id"`
	UserID         int64          `json:"user_id"`
	WindowDate     string         `json:"window_date"`
	Remaining      map[string]int `json:"remaining"` // category -> boosts left today
	DaysUntilReset int            `json:"days_until_reset"`
	ScheduledAt    string         `json:"scheduled_at"`
}
