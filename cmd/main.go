package main

import (
	"fmt"
	"os"

	rediscache "github.com/samstark/writecoach-backend/internal/clients/redis"
	"github.com/samstark/writecoach-backend/internal/db"
	"github.com/samstark/writecoach-backend/internal/handlers"
	"github.com/samstark/writecoach-backend/internal/logger"
	"github.com/samstark/writecoach-backend/internal/repos"
	"github.com/samstark/writecoach-backend/internal/server"
	"github.com/samstark/writecoach-backend/internal/services"
	"github.com/samstark/writecoach-backend/internal/tokenizer"
	"github.com/samstark/writecoach-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userProgressRepo := repos.NewUserProgressRepo(thePG, log)

	// Report cache (optional, present when REDIS_ADDR is set)
	reportCache, err := rediscache.NewReportCache(log)
	if err != nil {
		log.Warn("Report cache init failed, continuing without cache", "error", err)
		reportCache = nil
	}
	if reportCache != nil {
		defer reportCache.Close()
	}

	// Services
	log.Info("Setting up Services from main...")
	tok := tokenizer.New()
	inputHandler := services.NewInputHandler(log)
	textAnalyzer := services.NewTextAnalyzer(tok, log)
	formatClassifier, err := services.NewFormatClassifier(log)
	if err != nil {
		log.Error("Could not init FormatClassifier", "error", err)
		os.Exit(1)
	}
	suggestionGenerator := services.NewSuggestionGenerator(log)
	progressTracker := services.NewProgressTracker(userProgressRepo, reportCache, log)
	outputFormatter := services.NewOutputFormatter(log)
	pipeline := services.NewPipeline(inputHandler, textAnalyzer, formatClassifier, suggestionGenerator, progressTracker, log)

	// Handlers
	log.Info("Setting up handlers from main...")
	analyzeHandler := handlers.NewAnalyzeHandler(pipeline, outputFormatter)
	progressHandler := handlers.NewProgressHandler(progressTracker)
	validateHandler := handlers.NewValidateHandler(inputHandler)
	servicesHandler := handlers.NewServicesHandler(inputHandler, textAnalyzer, formatClassifier, suggestionGenerator)
	healthHandler := handlers.NewHealthHandler(thePG, reportCache)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AnalyzeHandler:  analyzeHandler,
		ProgressHandler: progressHandler,
		ValidateHandler: validateHandler,
		ServicesHandler: servicesHandler,
		HealthHandler:   healthHandler,
	})

	port := utils.GetEnv("PORT", "8000", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
