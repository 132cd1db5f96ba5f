package http

import (
	"github.com/gin-gonic/gin"
	"github.com/ricemill/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		matches := v1.Group("/matches")
		{
			matches.POST("/rank", handler.RankMatches)
			matches.POST("/score", handler.ScoreMatch)
		}

		forecast := v1.Group("/forecast")
		{
			forecast.GET("", handler.GetForecast)
			forecast.GET("/visualization", handler.GetForecastVisualization)
			forecast.GET("/confidence", handler.GetForecastConfidence)
			forecast.GET("/limitations", handler.GetForecastLimitations)
		}
	}

	return router
}
