package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/samstark/writecoach-backend/internal/types"
)

// fakeUserProgressRepo keeps records in memory with the same contract as the
// real repo: Get returns (nil, nil) for unseen users, Save overwrites.
type fakeUserProgressRepo struct {
	records map[string]types.UserProgress
	saves   int
}

func newFakeRepo() *fakeUserProgressRepo {
	return &fakeUserProgressRepo{records: map[string]types.UserProgress{}}
}

func (f *fakeUserProgressRepo) Get(ctx context.Context, tx *gorm.DB, userID string) (*types.UserProgress, error) {
	record, ok := f.records[userID]
	if !ok {
		return nil, nil
	}
	copied := record
	return &copied, nil
}

func (f *fakeUserProgressRepo) Save(ctx context.Context, tx *gorm.DB, record *types.UserProgress) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	record.UpdatedAt = time.Now().UTC()
	f.records[record.UserID] = *record
	f.saves++
	return nil
}

func makeAnalysis(score float64, styleCount, grammarCount int) types.AnalysisResult {
	style := make([]types.Issue, styleCount)
	for i := range style {
		style[i] = types.Issue{Type: "wordiness", Text: "in order to"}
	}
	grammar := make([]types.Issue, grammarCount)
	for i := range grammar {
		grammar[i] = types.Issue{Type: "confused_words", Text: "there"}
	}
	return types.AnalysisResult{
		BasicStats:  types.BasicStats{WordCount: 100, SentenceCount: 5, AvgWordsPerSentence: 20},
		Readability: types.Readability{Score: score, Level: "Standard"},
		StyleIssues: style, GrammarIssues: grammar,
		SentenceAnalysis: types.SentenceAnalysis{TotalSentences: 5, VarietyScore: 0.6},
	}
}

func newTracker(t *testing.T) (ProgressTracker, *fakeUserProgressRepo) {
	t.Helper()
	repo := newFakeRepo()
	return NewProgressTracker(repo, nil, testLogger(t)), repo
}

func TestTrackFirstSubmission(t *testing.T) {
	tracker, repo := newTracker(t)

	result, err := tracker.TrackSubmission(context.Background(), "u1", makeAnalysis(60, 1, 2), types.Suggestions{})
	if err != nil {
		t.Fatalf("TrackSubmission: %v", err)
	}
	if !result.SubmissionTracked {
		t.Fatalf("SubmissionTracked=false")
	}
	if result.OverallProgress.Status != types.ProgressStatusInsufficientData {
		t.Fatalf("Status=%q, want insufficient_data", result.OverallProgress.Status)
	}
	if result.OverallProgress.TotalSubmissions != 1 {
		t.Fatalf("TotalSubmissions=%d, want 1", result.OverallProgress.TotalSubmissions)
	}
	if result.CurrentMetrics.ReadabilityScore != 60 {
		t.Fatalf("ReadabilityScore=%v, want 60", result.CurrentMetrics.ReadabilityScore)
	}
	if result.CurrentMetrics.StyleIssuesCount != 1 || result.CurrentMetrics.GrammarIssuesCount != 2 {
		t.Fatalf("metrics=%+v", result.CurrentMetrics)
	}
	if repo.saves != 1 {
		t.Fatalf("saves=%d, want 1", repo.saves)
	}
}

func TestTrackSecondSubmissionComputesChange(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	if _, err := tracker.TrackSubmission(ctx, "u1", makeAnalysis(50.5, 3, 2), types.Suggestions{}); err != nil {
		t.Fatalf("first: %v", err)
	}
	result, err := tracker.TrackSubmission(ctx, "u1", makeAnalysis(62.25, 1, 0), types.Suggestions{})
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	progress := result.OverallProgress
	if progress.Status != types.ProgressStatusTracked {
		t.Fatalf("Status=%q, want tracked", progress.Status)
	}
	if progress.TotalSubmissions != 2 {
		t.Fatalf("TotalSubmissions=%d, want 2", progress.TotalSubmissions)
	}
	if progress.ReadabilityChange != 11.75 {
		t.Fatalf("ReadabilityChange=%v, want 11.75", progress.ReadabilityChange)
	}
	if progress.StyleImprovement != 2 || progress.GrammarImprovement != 2 {
		t.Fatalf("improvements=(%d,%d), want (2,2)", progress.StyleImprovement, progress.GrammarImprovement)
	}
	if progress.ReadabilityTrend != "improving" {
		t.Fatalf("ReadabilityTrend=%q, want improving", progress.ReadabilityTrend)
	}
	if progress.DaysActive != 1 {
		t.Fatalf("DaysActive=%d, want 1", progress.DaysActive)
	}
	if progress.ConsistencyScore != 1.0 {
		t.Fatalf("ConsistencyScore=%v, want 1.0", progress.ConsistencyScore)
	}
}

func TestTrackSubmissionsAreIsolatedPerUser(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	if _, err := tracker.TrackSubmission(ctx, "u1", makeAnalysis(50, 0, 0), types.Suggestions{}); err != nil {
		t.Fatalf("u1: %v", err)
	}
	result, err := tracker.TrackSubmission(ctx, "u2", makeAnalysis(70, 0, 0), types.Suggestions{})
	if err != nil {
		t.Fatalf("u2: %v", err)
	}
	if result.OverallProgress.TotalSubmissions != 1 {
		t.Fatalf("u2 TotalSubmissions=%d, want 1", result.OverallProgress.TotalSubmissions)
	}
}

func submissionAt(daysAgo int, score float64) types.Submission {
	return types.Submission{
		Timestamp: time.Now().UTC().AddDate(0, 0, -daysAgo),
		Metrics:   types.SubmissionMetrics{ReadabilityScore: score},
	}
}

func TestReadabilityTrendWindow(t *testing.T) {
	// Only the last five submissions count: an early low score outside the
	// window must not affect the trend.
	history := []types.Submission{
		submissionAt(9, 10),
		submissionAt(8, 90),
		submissionAt(7, 80), // window starts here
		submissionAt(6, 70),
		submissionAt(5, 60),
		submissionAt(4, 50),
		submissionAt(3, 40),
	}
	if got := readabilityTrend(history); got != "declining" {
		t.Fatalf("trend=%q, want declining", got)
	}

	// A flat window is not an improvement.
	if got := readabilityTrend([]types.Submission{submissionAt(2, 50), submissionAt(1, 50)}); got != "declining" {
		t.Fatalf("trend=%q, want declining", got)
	}
}

func TestConsistencyScoreBands(t *testing.T) {
	cases := []struct {
		name string
		days []int
		want float64
	}{
		{"daily", []int{2, 1, 0}, 1.0},
		{"every_three_days", []int{6, 3, 0}, 0.8},
		{"weekly", []int{14, 7, 0}, 0.6},
		// Gaps of 1 and 6 days: the mean is 3.5, past the 3-day band.
		{"mixed_gaps", []int{7, 6, 0}, 0.6},
		{"sporadic", []int{30, 15, 0}, 0.4},
		{"single", []int{0}, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			history := make([]types.Submission, len(tc.days))
			for i, d := range tc.days {
				history[i] = submissionAt(d, 50)
			}
			if got := consistencyScore(history); got != tc.want {
				t.Fatalf("consistencyScore=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestDaysActiveCountsDistinctDates(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	history := []types.Submission{
		{Timestamp: base},
		{Timestamp: base.Add(4 * time.Hour)},
		{Timestamp: base.AddDate(0, 0, 2)},
	}
	if got := daysActive(history); got != 2 {
		t.Fatalf("daysActive=%d, want 2", got)
	}
}

func TestAchievements(t *testing.T) {
	var history []types.Submission
	for i := 0; i < 4; i++ {
		history = append(history, submissionAt(4-i, 50))
	}
	if got := achievements(history); len(got) != 0 {
		t.Fatalf("4 submissions earned %+v, want none", got)
	}

	// Fifth submission with the last three strictly increasing earns both
	// Getting Started and Rising Star.
	history = []types.Submission{
		submissionAt(4, 50), submissionAt(3, 50),
		submissionAt(2, 51), submissionAt(1, 52), submissionAt(0, 53),
	}
	got := achievements(history)
	names := map[string]bool{}
	for _, a := range got {
		names[a.Name] = true
	}
	if !names["Getting Started"] || !names["Rising Star"] {
		t.Fatalf("achievements=%+v, want Getting Started and Rising Star", got)
	}
	if names["Consistent Writer"] {
		t.Fatalf("Consistent Writer requires 10 submissions")
	}

	for i := 0; i < 5; i++ {
		history = append(history, submissionAt(0, 53))
	}
	got = achievements(history)
	names = map[string]bool{}
	for _, a := range got {
		names[a.Name] = true
	}
	if !names["Consistent Writer"] {
		t.Fatalf("10 submissions should earn Consistent Writer, got %+v", got)
	}
}

func TestGetUserReportUnknownUser(t *testing.T) {
	tracker, _ := newTracker(t)

	report, err := tracker.GetUserReport(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetUserReport: %v", err)
	}
	if report.Status != types.ReportStatusNoData {
		t.Fatalf("Status=%q, want no_data", report.Status)
	}
}

func TestGetUserReport(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if _, err := tracker.TrackSubmission(ctx, "u1", makeAnalysis(50+float64(i), 1, 1), types.Suggestions{}); err != nil {
			t.Fatalf("submission %d: %v", i, err)
		}
	}

	report, err := tracker.GetUserReport(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUserReport: %v", err)
	}
	if report.TotalSubmissions != 7 {
		t.Fatalf("TotalSubmissions=%d, want 7", report.TotalSubmissions)
	}
	if len(report.RecentSubmissions) != 5 {
		t.Fatalf("RecentSubmissions=%d, want 5", len(report.RecentSubmissions))
	}
	if report.Progress.Status != types.ProgressStatusTracked {
		t.Fatalf("Status=%q, want tracked", report.Progress.Status)
	}
	if report.MemberSince.IsZero() {
		t.Fatalf("MemberSince not set")
	}
	// Scores rose every submission.
	if report.Progress.ReadabilityTrend != "improving" {
		t.Fatalf("trend=%q, want improving", report.Progress.ReadabilityTrend)
	}
}
