package api

import (
	"github.com/gin-gonic/gin"
	"github.com/scribeworks/veritas/internal/config"
)

func SetupRoutes(cfg *config.Config, handler *Handler) *gin.Engine {
	router := gin.Default()

	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))

	router.Use(ErrorHandlerMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.POST("/check", handler.Check)
		api.GET("/checks", handler.ListChecks)
		api.GET("/checks/:id", handler.GetCheck)
		api.DELETE("/checks/:id", handler.DeleteCheck)
		api.POST("/documents", handler.IngestDocument)
		api.DELETE("/documents/:id", handler.DeactivateDocument)
		api.GET("/corpus/stats", handler.CorpusStats)
	}

	return router
}
