package dto

type UserProfileData struct {
	PublicID    string          `json:"public_id"`
	DisplayName string          `json:"display_name"`
	FuelPoints  int             `json:"fuel_points"`
	Settings    UserSettingsDTO `json:"settings"`
}

type UserSettingsDTO struct {
	Timezone          string `json:"timezone"`
	EffectiveTimezone string `json:"effective_timezone"`
	BoostReminders    bool   `json:"boost_reminders"`
}

// UpdateUserSettingsRequest leaves nil fields unchanged.
type UpdateUserSettingsRequest struct {
	DisplayName    *string `json:"display_name"`
	Timezone       *string `json:"timezone"`
	BoostReminders *bool   `json:"boost_reminders"`
}

type FuelPointEntry struct {
	Source       string `json:"source"`
	SourceID     string `json:"source_id"`
	Amount       int    `json:"amount"`
	BalanceAfter int    `json:"balance_after"`
	CreatedAt    string `json:"created_at"`
}

// FuelPointHistoryData backs GET /v1/users/me/fuel-points.
type FuelPointHistoryData struct {
	Balance int              `json:"balance"`
	Entries []FuelPointEntry `json:"entries"`
}
