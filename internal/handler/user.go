package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"HealthRocket/internal/model/dto"
	"HealthRocket/internal/service"
	"HealthRocket/pkg/errors"
	"HealthRocket/pkg/response"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// GetUserProfile
// GET /v1/users/me
func GetUserProfile(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	data, err := service.Progress().Profile(ctx, userID)
	if err != nil {
		fail(ctx, c, userID, err)
		return
	}
	response.Success(ctx, c, data)
}

// UpdateUserSettings
// PUT /v1/users/me/settings
func UpdateUserSettings(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	var req dto.UpdateUserSettingsRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Progress().UpdateSettings(ctx, userID, req)
	if err != nil {
		fail(ctx, c, userID, err)
		return
	}
	response.Success(ctx, c, data)
}

// GetFuelPointHistory returns the balance and the latest ledger rows.
// GET /v1/users/me/fuel-points?limit=
func GetFuelPointHistory(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.Error(ctx, c, errors.InvalidRequest)
			return
		}
		if n > maxHistoryLimit {
			n = maxHistoryLimit
		}
		limit = n
	}

	data, err := service.Progress().FuelPointHistory(ctx, userID, limit)
	if err != nil {
		fail(ctx, c, userID, err)
		return
	}
	response.Success(ctx, c, data)
}
