package dto

import "HealthRocket/internal/engine"

// ChallengeListData backs GET /v1/challenges.
type ChallengeListData struct {
	Challenges             []engine.ClassifiedChallenge `json:"challenges"`
	RequiredFirstChallenge *engine.ClassifiedChallenge  `json:"required_first_challenge,omitempty"`
	FocusCategory          string                       `json:"focus_category,omitempty"`
	ActiveCount            int                          `json:"active_count"`
	ActiveCap              int                          `json:"active_cap"`
}

type BoostItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	FuelPoints      int    `json:"fuel_points"`
	CompletedToday  bool   `json:"completed_today"`
	WeeklyLimit     int    `json:"weekly_limit,omitempty"`
	WeeklyRemaining *int   `json:"weekly_remaining,omitempty"`
	Available       bool   `json:"available"`
	Reason          string `json:"reason,omitempty"`
}

type BoostCategoryData struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	MaxDailyBoosts int         `json:"max_daily_boosts"`
	Remaining      int         `json:"remaining"`
	Boosts         []BoostItem `json:"boosts"`
}

// BoostListData backs GET /v1/boosts.
type BoostListData struct {
	Categories     []BoostCategoryData `json:"categories"`
	DailyWindow    string              `json:"daily_window"`
	WeeklyWindow   string              `json:"weekly_window"`
	DaysUntilReset int                 `json:"days_until_reset"`
	NextDailyReset string              `json:"next_daily_reset"`
}

type DashboardData struct {
	Challenges ChallengeListData `json:"challenges"`
	Boosts     BoostListData     `json:"boosts"`
	FuelPoints int               `json:"fuel_points"`
}

type StartChallengeData struct {
	ChallengeID string `json:"challenge_id"`
	Status      string `json:"status"`
	StartedAt   string `json:"started_at"`
}

type CompleteChallengeData struct {
	ChallengeID string `json:"challenge_id"`
	Status      string `json:"status"`
	CompletedAt string `json:"completed_at"`
	FuelPoints  int    `json:"fuel_points"`
}

type CompleteBoostData struct {
	BoostID     string `json:"boost_id"`
	Category    string `json:"category"`
	CompletedAt string `json:"completed_at"`
	FuelPoints  int    `json:"fuel_points"`
	Remaining   int    `json:"remaining"`
}

type UpdateRecommendationsRequest struct {
	ChallengeIDs []string `json:"challenge_ids"`
}
