package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"HealthRocket/internal/model/dto"
	"HealthRocket/internal/service"
	"HealthRocket/pkg/errors"
	"HealthRocket/pkg/response"
)

// ListChallenges returns the classified challenge list, recommended first.
// GET /v1/challenges?category=
func ListChallenges(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	data, err := service.Progress().ListChallenges(ctx, userID, c.Query("category"))
	if err != nil {
		fail(ctx, c, userID, err)
		return
	}
	response.Success(ctx, c, data)
}

// StartChallenge
// POST /v1/challenges/:challenge_id/start
func StartChallenge(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	challengeID := c.Param("challenge_id")
	if challengeID == "" {
		response.Error(ctx, c, errors.InvalidRequest)
		return
	}

	data, err := service.Progress().StartChallenge(ctx, userID, challengeID)
	if err != nil {
		fail(ctx, c, userID, err)
		return
	}
	response.Success(ctx, c, data)
}

// CompleteChallenge
// POST /v1/challenges/:challenge_id/complete
func CompleteChallenge(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	challengeID := c.Param("challenge_id")
	if challengeID == "" {
		response.Error(ctx, c, errors.InvalidRequest)
		return
	}

	data, err := service.Progress().CompleteChallenge(ctx, userID, challengeID)
	if err != nil {
		fail(ctx, c, userID, err)
		return
	}
	response.Success(ctx, c, data)
}

// ListBoosts returns per-category boost quotas for the current windows.
// GET /v1/boosts
func ListBoosts(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	data, err := service.Progress().ListBoosts(ctx, userID)
	if err != nil {
		fail(ctx, c, userID, err)
		return
	}
	response.Success(ctx, c, data)
}

// CompleteBoost
// POST /v1/boosts/:boost_id/complete
func CompleteBoost(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	boostID := c.Param("boost_id")
	if boostID == "" {
		response.Error(ctx, c, errors.InvalidRequest)
		return
	}

	data, err := service.Progress().CompleteBoost(ctx, userID, boostID)
	if err != nil {
		fail(ctx, c, userID, err)
		return
	}
	response.Success(ctx, c, data)
}

// Dashboard
// GET /v1/dashboard
func Dashboard(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	data, err := service.Progress().Dashboard(ctx, userID)
	if err != nil {
		fail(ctx, c, userID, err)
		return
	}
	response.Success(ctx, c, data)
}

// UpdateRecommendations replaces the user's recommended challenge ids.
// PUT /v1/users/me/recommendations
func UpdateRecommendations(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	var req dto.UpdateRecommendationsRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := service.Progress().SetRecommendations(ctx, userID, req.ChallengeIDs); err != nil {
		fail(ctx, c, userID, err)
		return
	}
	response.Success(ctx, c, req)
}
