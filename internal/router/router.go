package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"HealthRocket/internal/handler"
	"HealthRocket/internal/middleware"
)

func Register(h *server.Hertz) {
	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.MetricsMiddleware())

	h.GET("/health", handler.Health)

	v1 := h.Group("/v1")
	v1.Use(middleware.AuthMiddleware())

	v1.GET("/dashboard", handler.Dashboard)

	challenges := v1.Group("/challenges")
	{
		challenges.GET("", handler.ListChallenges)
		challenges.POST("/:challenge_id/start", middleware.MutationRateLimitMiddleware(), handler.StartChallenge)
		challenges.POST("/:challenge_id/complete", middleware.MutationRateLimitMiddleware(), handler.CompleteChallenge)
	}

	boosts := v1.Group("/boosts")
	{
		boosts.GET("", handler.ListBoosts)
		boosts.POST("/:boost_id/complete", middleware.MutationRateLimitMiddleware(), handler.CompleteBoost)
	}

	users := v1.Group("/users")
	{
		users.GET("/me", handler.GetUserProfile)
		users.PUT("/me/settings", middleware.UserSettingsRateLimitMiddleware(), handler.UpdateUserSettings)
		users.PUT("/me/recommendations", handler.UpdateRecommendations)
		users.GET("/me/fuel-points", handler.GetFuelPointHistory)
	}
}
