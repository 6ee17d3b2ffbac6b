package service

import (
	"context"
	"strconv"
	"time"

	"HealthRocket/internal/model"
	"HealthRocket/internal/model/dto"
)

func (s *ProgressService) Profile(ctx context.Context, userID int64) (*dto.UserProfileData, error) {
	user, err := s.store.EnsureUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profile(user), nil
}

// UpdateSettings applies the non-nil fields. A timezone change moves the
// user's window boundaries, so the cached snapshot is dropped.
func (s *ProgressService) UpdateSettings(ctx context.Context, userID int64, req dto.UpdateUserSettingsRequest) (*dto.UserProfileData, error) {
	user, err := s.store.UpdateSettings(ctx, userID, req.DisplayName, req.Timezone, req.BoostReminders)
	if err != nil {
		return nil, err
	}
	if req.Timezone != nil {
		s.invalidate(ctx, userID)
	}
	return s.profile(user), nil
}

func (s *ProgressService) profile(user *model.User) *dto.UserProfileData {
	return &dto.UserProfileData{
		PublicID:    strconv.FormatInt(user.PublicID, 10),
		DisplayName: user.DisplayName,
		FuelPoints:  user.FuelPoints,
		Settings: dto.UserSettingsDTO{
			Timezone:          user.Timezone,
			EffectiveTimezone: s.rules.SchedulerFor(user.Timezone).Location.String(),
			BoostReminders:    user.BoostReminders,
		},
	}
}

func (s *ProgressService) FuelPointHistory(ctx context.Context, userID int64, limit int) (*dto.FuelPointHistoryData, error) {
	user, err := s.store.EnsureUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := &dto.FuelPointHistoryData{Balance: user.FuelPoints, Entries: []dto.FuelPointEntry{}}
	if s.ledger == nil {
		return data, nil
	}

	entries, err := s.ledger.History(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		data.Entries = append(data.Entries, dto.FuelPointEntry{
			Source:       string(e.Source),
			SourceID:     e.SourceID,
			Amount:       e.Amount,
			BalanceAfter: e.BalanceAfter,
			CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return data, nil
}
