package services

import (
	"context"
	"fmt"

	"github.com/samstark/writecoach-backend/internal/logger"
	"github.com/samstark/writecoach-backend/internal/types"
)

// Pipeline runs the full coaching flow: normalize, analyze, classify, apply
// format rules, generate suggestions, and (when a user is given) track the
// submission. Stages run in that fixed order because each consumes the
// previous stage's output.
type Pipeline interface {
	Process(ctx context.Context, req types.CoachingRequest) (types.CoachingResult, error)
}

type pipeline struct {
	log        *logger.Logger
	input      InputHandler
	analyzer   TextAnalyzer
	classifier FormatClassifier
	generator  SuggestionGenerator
	tracker    ProgressTracker
}

func NewPipeline(
	input InputHandler,
	analyzer TextAnalyzer,
	classifier FormatClassifier,
	generator SuggestionGenerator,
	tracker ProgressTracker,
	log *logger.Logger,
) Pipeline {
	return &pipeline{
		log:        log.With("service", "Pipeline"),
		input:      input,
		analyzer:   analyzer,
		classifier: classifier,
		generator:  generator,
		tracker:    tracker,
	}
}

func (p *pipeline) Process(ctx context.Context, req types.CoachingRequest) (types.CoachingResult, error) {
	validated, err := p.input.ValidateInput(req.Text, req.Format)
	if err != nil {
		return types.CoachingResult{}, fmt.Errorf("invalid input: %w", err)
	}
	text := validated.Text

	analysis := p.analyzer.Analyze(text)
	format, confidence := p.classifier.Classify(text, validated.Format)
	formatRules := p.classifier.ApplyFormatRules(text, format, analysis)
	suggestions := p.generator.Generate(ctx, text, analysis, formatRules)

	result := types.CoachingResult{
		Text:        text,
		Format:      format,
		Confidence:  round2(confidence),
		Analysis:    analysis,
		FormatRules: &formatRules,
		Suggestions: suggestions,
	}

	if req.UserID != "" {
		tracking, err := p.tracker.TrackSubmission(ctx, req.UserID, analysis, suggestions)
		if err != nil {
			// Coaching output is still useful without the history update.
			p.log.Error("Failed to track submission", "user_id", req.UserID, "error", err)
		} else {
			result.Tracking = &tracking
		}
	}

	p.log.Info("Processed text",
		"format", format,
		"confidence", result.Confidence,
		"word_count", analysis.BasicStats.WordCount,
		"tracked", result.Tracking != nil,
	)
	return result, nil
}
