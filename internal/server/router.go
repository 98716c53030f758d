package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/samstark/writecoach-backend/internal/handlers"
)

type RouterConfig struct {
	AnalyzeHandler  *handlers.AnalyzeHandler
	ProgressHandler *handlers.ProgressHandler
	ValidateHandler *handlers.ValidateHandler
	ServicesHandler *handlers.ServicesHandler
	HealthHandler   *handlers.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", "X-Requested-With"},
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "WriteCoach API", "status": "running"})
	})
	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	router.POST("/analyze", cfg.AnalyzeHandler.Analyze)
	router.GET("/progress/:user_id", cfg.ProgressHandler.GetReport)
	router.POST("/validate", cfg.ValidateHandler.Validate)

	// Individual pipeline stages
	svc := router.Group("/services")
	{
		svc.POST("/analyze", cfg.ServicesHandler.Analyze)
		svc.POST("/classify", cfg.ServicesHandler.Classify)
		svc.POST("/suggest", cfg.ServicesHandler.Suggest)
	}

	return router
}
