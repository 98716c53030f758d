package types

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionMetrics is the fixed-shape projection of an AnalysisResult that
// gets frozen into each submission at entry time. Later changes to scoring
// logic never rewrite historical metrics.
type SubmissionMetrics struct {
	ReadabilityScore   float64 `json:"readability_score"`
	ReadabilityLevel   string  `json:"readability_level"`
	StyleIssuesCount   int     `json:"style_issues_count"`
	GrammarIssuesCount int     `json:"grammar_issues_count"`
	AvgSentenceLength  float64 `json:"avg_sentence_length"`
	SentenceVariety    float64 `json:"sentence_variety"`
	WordCount          int     `json:"word_count"`
}

type Submission struct {
	ID          uuid.UUID         `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	Analysis    AnalysisResult    `json:"analysis"`
	Suggestions Suggestions       `json:"suggestions"`
	Metrics     SubmissionMetrics `json:"metrics"`
}

const (
	ProgressStatusInsufficientData = "insufficient_data"
	ProgressStatusTracked          = "tracked"
)

// OverallProgress is recomputed wholesale from the full submission history
// after every tracked submission.
type OverallProgress struct {
	Status             string  `json:"status"`
	Message            string  `json:"message,omitempty"`
	TotalSubmissions   int     `json:"total_submissions"`
	ReadabilityChange  float64 `json:"readability_change"`
	StyleImprovement   int     `json:"style_improvement"`
	GrammarImprovement int     `json:"grammar_improvement"`
	ReadabilityTrend   string  `json:"readability_trend,omitempty"`
	DaysActive         int     `json:"days_active"`
	ConsistencyScore   float64 `json:"consistency_score"`
}

type ImprovementArea struct {
	Area       string `json:"area"`
	Priority   string `json:"priority"`
	Suggestion string `json:"suggestion"`
}

type Achievement struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earned_at"`
}

type TrackResult struct {
	SubmissionTracked bool              `json:"submission_tracked"`
	CurrentMetrics    SubmissionMetrics `json:"current_metrics"`
	OverallProgress   OverallProgress   `json:"overall_progress"`
	ImprovementAreas  []ImprovementArea `json:"improvement_areas"`
}

const ReportStatusNoData = "no_data"

type UserReport struct {
	Status            string            `json:"status,omitempty"`
	Message           string            `json:"message,omitempty"`
	UserID            string            `json:"user_id,omitempty"`
	MemberSince       time.Time         `json:"member_since,omitzero"`
	TotalSubmissions  int               `json:"total_submissions"`
	Progress          OverallProgress   `json:"progress"`
	RecentSubmissions []Submission      `json:"recent_submissions,omitempty"`
	ImprovementAreas  []ImprovementArea `json:"improvement_areas"`
	Achievements      []Achievement     `json:"achievements"`
}
