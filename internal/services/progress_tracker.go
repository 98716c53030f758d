package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	rediscache "github.com/samstark/writecoach-backend/internal/clients/redis"
	"github.com/samstark/writecoach-backend/internal/logger"
	"github.com/samstark/writecoach-backend/internal/repos"
	"github.com/samstark/writecoach-backend/internal/types"
)

// ProgressTracker appends submissions to a user's history and derives
// progress metrics from the whole history. Submissions are append-only:
// metrics frozen at entry time are never recomputed.
type ProgressTracker interface {
	TrackSubmission(ctx context.Context, userID string, analysis types.AnalysisResult, suggestions types.Suggestions) (types.TrackResult, error)
	GetUserReport(ctx context.Context, userID string) (types.UserReport, error)
}

type progressTracker struct {
	log   *logger.Logger
	repo  repos.UserProgressRepo
	cache rediscache.ReportCache

	mu    sync.Mutex
	users map[string]*sync.Mutex
}

// NewProgressTracker takes an optional report cache; pass nil to run without
// caching.
func NewProgressTracker(repo repos.UserProgressRepo, cache rediscache.ReportCache, log *logger.Logger) ProgressTracker {
	return &progressTracker{
		log:   log.With("service", "ProgressTracker"),
		repo:  repo,
		cache: cache,
		users: map[string]*sync.Mutex{},
	}
}

// userLock serializes writers per user. Records are whole-row overwrites, so
// without this two concurrent submissions for the same user could drop one.
func (t *progressTracker) userLock(userID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.users[userID]
	if !ok {
		lock = &sync.Mutex{}
		t.users[userID] = lock
	}
	return lock
}

func (t *progressTracker) TrackSubmission(ctx context.Context, userID string, analysis types.AnalysisResult, suggestions types.Suggestions) (types.TrackResult, error) {
	lock := t.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	record, err := t.repo.Get(ctx, nil, userID)
	if err != nil {
		return types.TrackResult{}, fmt.Errorf("load user progress: %w", err)
	}
	if record == nil {
		record = &types.UserProgress{UserID: userID}
	}

	history, err := decodeSubmissions(record.Submissions)
	if err != nil {
		return types.TrackResult{}, fmt.Errorf("decode submission history: %w", err)
	}

	submission := types.Submission{
		ID:          uuid.New(),
		Timestamp:   time.Now().UTC(),
		Analysis:    analysis,
		Suggestions: suggestions,
		Metrics:     metricsFrom(analysis),
	}
	history = append(history, submission)

	progress := computeProgress(history)

	if record.Submissions, err = json.Marshal(history); err != nil {
		return types.TrackResult{}, fmt.Errorf("encode submission history: %w", err)
	}
	if record.Progress, err = json.Marshal(progress); err != nil {
		return types.TrackResult{}, fmt.Errorf("encode progress: %w", err)
	}
	if err := t.repo.Save(ctx, nil, record); err != nil {
		return types.TrackResult{}, fmt.Errorf("save user progress: %w", err)
	}

	if t.cache != nil {
		t.cache.Invalidate(ctx, userID)
	}

	t.log.Info("Tracked submission", "user_id", userID, "submission_id", submission.ID, "total_submissions", len(history))

	return types.TrackResult{
		SubmissionTracked: true,
		CurrentMetrics:    submission.Metrics,
		OverallProgress:   progress,
		ImprovementAreas:  improvementAreas(submission.Metrics),
	}, nil
}

func (t *progressTracker) GetUserReport(ctx context.Context, userID string) (types.UserReport, error) {
	if t.cache != nil {
		if cached, ok := t.cache.Get(ctx, userID); ok {
			return *cached, nil
		}
	}

	record, err := t.repo.Get(ctx, nil, userID)
	if err != nil {
		return types.UserReport{}, fmt.Errorf("load user progress: %w", err)
	}
	if record == nil {
		return types.UserReport{
			Status:           types.ReportStatusNoData,
			Message:          "No submissions found for this user",
			ImprovementAreas: []types.ImprovementArea{},
			Achievements:     []types.Achievement{},
		}, nil
	}

	history, err := decodeSubmissions(record.Submissions)
	if err != nil {
		return types.UserReport{}, fmt.Errorf("decode submission history: %w", err)
	}

	report := types.UserReport{
		UserID:            userID,
		MemberSince:       record.CreatedAt,
		TotalSubmissions:  len(history),
		Progress:          computeProgress(history),
		RecentSubmissions: recentSubmissions(history, 5),
		ImprovementAreas:  []types.ImprovementArea{},
		Achievements:      achievements(history),
	}
	if len(history) > 0 {
		report.ImprovementAreas = improvementAreas(history[len(history)-1].Metrics)
	}

	if t.cache != nil {
		t.cache.Set(ctx, userID, &report)
	}
	return report, nil
}

func decodeSubmissions(raw []byte) ([]types.Submission, error) {
	if len(raw) == 0 {
		return []types.Submission{}, nil
	}
	var history []types.Submission
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func metricsFrom(analysis types.AnalysisResult) types.SubmissionMetrics {
	return types.SubmissionMetrics{
		ReadabilityScore:   analysis.Readability.Score,
		ReadabilityLevel:   analysis.Readability.Level,
		StyleIssuesCount:   len(analysis.StyleIssues),
		GrammarIssuesCount: len(analysis.GrammarIssues),
		AvgSentenceLength:  analysis.BasicStats.AvgWordsPerSentence,
		SentenceVariety:    analysis.SentenceAnalysis.VarietyScore,
		WordCount:          analysis.BasicStats.WordCount,
	}
}

// computeProgress rebuilds the derived metrics from the full history.
// Comparisons start at two submissions.
func computeProgress(history []types.Submission) types.OverallProgress {
	if len(history) < 2 {
		return types.OverallProgress{
			Status:           types.ProgressStatusInsufficientData,
			Message:          "Need at least 2 submissions to track progress",
			TotalSubmissions: len(history),
		}
	}

	first := history[0].Metrics
	last := history[len(history)-1].Metrics

	return types.OverallProgress{
		Status:             types.ProgressStatusTracked,
		TotalSubmissions:   len(history),
		ReadabilityChange:  round2(last.ReadabilityScore - first.ReadabilityScore),
		StyleImprovement:   first.StyleIssuesCount - last.StyleIssuesCount,
		GrammarImprovement: first.GrammarIssuesCount - last.GrammarIssuesCount,
		ReadabilityTrend:   readabilityTrend(history),
		DaysActive:         daysActive(history),
		ConsistencyScore:   consistencyScore(history),
	}
}

// readabilityTrend compares the endpoints of the last five submissions. The
// verdict is binary; a flat window reads as declining.
func readabilityTrend(history []types.Submission) string {
	window := history
	if len(window) > 5 {
		window = window[len(window)-5:]
	}
	first := window[0].Metrics.ReadabilityScore
	last := window[len(window)-1].Metrics.ReadabilityScore
	if last > first {
		return "improving"
	}
	return "declining"
}

func daysActive(history []types.Submission) int {
	dates := map[string]struct{}{}
	for _, s := range history {
		dates[s.Timestamp.UTC().Format("2006-01-02")] = struct{}{}
	}
	return len(dates)
}

// consistencyScore bands the mean gap between consecutive submissions.
// Each gap is floored to whole days before averaging, so several
// submissions on one day count as zero-day gaps.
func consistencyScore(history []types.Submission) float64 {
	if len(history) < 2 {
		return 0.0
	}
	totalGapDays := 0
	for i := 1; i < len(history); i++ {
		gap := history[i].Timestamp.Sub(history[i-1].Timestamp)
		totalGapDays += int(gap.Hours() / 24)
	}
	avgGapDays := float64(totalGapDays) / float64(len(history)-1)
	switch {
	case avgGapDays <= 1:
		return 1.0
	case avgGapDays <= 3:
		return 0.8
	case avgGapDays <= 7:
		return 0.6
	default:
		return 0.4
	}
}

func improvementAreas(metrics types.SubmissionMetrics) []types.ImprovementArea {
	areas := []types.ImprovementArea{}
	if metrics.ReadabilityScore < 60 {
		areas = append(areas, types.ImprovementArea{
			Area:       "readability",
			Priority:   "high",
			Suggestion: "Shorten sentences and prefer common words",
		})
	}
	if metrics.GrammarIssuesCount > 3 {
		areas = append(areas, types.ImprovementArea{
			Area:       "grammar",
			Priority:   "high",
			Suggestion: "Review commonly confused words and repeated words",
		})
	}
	if metrics.SentenceVariety < 0.3 {
		areas = append(areas, types.ImprovementArea{
			Area:       "sentence_variety",
			Priority:   "medium",
			Suggestion: "Vary sentence types to improve flow",
		})
	}
	if metrics.StyleIssuesCount > 5 {
		areas = append(areas, types.ImprovementArea{
			Area:       "style",
			Priority:   "medium",
			Suggestion: "Cut wordy phrases and reduce passive voice",
		})
	}
	return areas
}

func achievements(history []types.Submission) []types.Achievement {
	earned := []types.Achievement{}
	if len(history) == 0 {
		return earned
	}
	latest := history[len(history)-1].Timestamp

	if len(history) >= 5 {
		earned = append(earned, types.Achievement{
			Name:        "Getting Started",
			Description: "Submitted 5 pieces of writing",
			EarnedAt:    history[4].Timestamp,
		})
	}
	if len(history) >= 10 {
		earned = append(earned, types.Achievement{
			Name:        "Consistent Writer",
			Description: "Submitted 10 pieces of writing",
			EarnedAt:    history[9].Timestamp,
		})
	}
	if len(history) >= 3 {
		a := history[len(history)-3].Metrics.ReadabilityScore
		b := history[len(history)-2].Metrics.ReadabilityScore
		c := history[len(history)-1].Metrics.ReadabilityScore
		if a < b && b < c {
			earned = append(earned, types.Achievement{
				Name:        "Rising Star",
				Description: "Readability improved three submissions in a row",
				EarnedAt:    latest,
			})
		}
	}
	return earned
}

func recentSubmissions(history []types.Submission, limit int) []types.Submission {
	if len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
