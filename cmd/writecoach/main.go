package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/samstark/writecoach-backend/internal/db"
	"github.com/samstark/writecoach-backend/internal/logger"
	"github.com/samstark/writecoach-backend/internal/repos"
	"github.com/samstark/writecoach-backend/internal/services"
	"github.com/samstark/writecoach-backend/internal/tokenizer"
	"github.com/samstark/writecoach-backend/internal/types"
	"github.com/samstark/writecoach-backend/internal/utils"
)

// writecoach analyzes a piece of writing from a file or stdin and prints a
// terminal report. With -user, submissions accumulate in a local SQLite
// database; -report prints the user's progress report instead of analyzing.
func main() {
	filePath := flag.String("file", "", "path to a text file (default: read stdin)")
	format := flag.String("format", "", "writing format (email, essay, report, creative); detected when empty")
	userID := flag.String("user", "", "user identifier for progress tracking")
	report := flag.Bool("report", false, "print the progress report for -user and exit")
	flag.Parse()

	log, err := logger.New("production")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dbPath := utils.GetEnv("WRITECOACH_DB", "writecoach.db", nil)
	sqliteService, err := db.NewSQLiteService(dbPath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	if err := sqliteService.AutoMigrateAll(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to migrate database: %v\n", err)
		os.Exit(1)
	}

	userProgressRepo := repos.NewUserProgressRepo(sqliteService.DB(), log)
	progressTracker := services.NewProgressTracker(userProgressRepo, nil, log)
	outputFormatter := services.NewOutputFormatter(log)

	ctx := context.Background()

	if *report {
		if *userID == "" {
			fmt.Fprintln(os.Stderr, "-report requires -user")
			os.Exit(2)
		}
		userReport, err := progressTracker.GetUserReport(ctx, *userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load report: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(outputFormatter.TerminalReport(userReport))
		return
	}

	inputHandler := services.NewInputHandler(log)
	formatClassifier, err := services.NewFormatClassifier(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init classifier: %v\n", err)
		os.Exit(1)
	}
	suggestionGenerator := services.NewSuggestionGenerator(log)
	textAnalyzer := services.NewTextAnalyzer(tokenizer.New(), log)
	pipeline := services.NewPipeline(inputHandler, textAnalyzer, formatClassifier, suggestionGenerator, progressTracker, log)

	var text string
	if *filePath != "" {
		text, err = inputHandler.ReadFile(*filePath)
	} else {
		text, err = inputHandler.Read(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		os.Exit(2)
	}

	result, err := pipeline.Process(ctx, types.CoachingRequest{
		Text:   text,
		Format: *format,
		UserID: *userID,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(outputFormatter.Terminal(result))
}
