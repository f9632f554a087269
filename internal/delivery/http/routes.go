package http

import (
	"log/slog"

	"github.com/bitebot/backend/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router. metrics may be nil.
func SetupRouter(cfg *config.Config, handler *Handler, logger *slog.Logger, metrics *Metrics) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	if metrics != nil {
		router.Use(metrics.Middleware())
	}
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.PerIP > 0 {
		v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	}
	if cfg.Auth.JWTSecret != "" {
		v1.Use(AuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer))
	}
	{
		v1.GET("/micronutrients", handler.ListMicronutrients)

		meals := v1.Group("/meals")
		{
			meals.POST("/score", handler.ScoreMeal)
		}

		foods := v1.Group("/foods")
		{
			foods.POST("/score", handler.ScoreFood)
		}
	}

	return router
}
