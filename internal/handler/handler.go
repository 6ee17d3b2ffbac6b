package handler

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"HealthRocket/internal/middleware"
	"HealthRocket/pkg/errors"
	"HealthRocket/pkg/logger"
	"HealthRocket/pkg/response"
)

// currentUser writes a 401 and returns false when the request carries no user.
func currentUser(ctx context.Context, c *app.RequestContext) (int64, bool) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return 0, false
	}
	return userID, true
}

// fail renders err. Rule rejections were already logged by the service; faults
// are logged here because only the handler knows the route.
func fail(ctx context.Context, c *app.RequestContext, userID int64, err error) {
	response.Error(ctx, c, err)

	fields := []zap.Field{
		zap.Int64("user_id", userID),
		zap.String("route", c.FullPath()),
		zap.Int("status", c.Response.StatusCode()),
		zap.Error(err),
	}
	if c.Response.StatusCode() >= http.StatusInternalServerError {
		logger.Ctx(ctx).Error("Request failed", fields...)
		return
	}
	logger.Ctx(ctx).Debug("Request rejected", fields...)
}
