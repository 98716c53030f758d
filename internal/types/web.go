package types

import "time"

type WebSummary struct {
	ReadabilityScore float64  `json:"readability_score"`
	ReadabilityLevel string   `json:"readability_level"`
	Format           string   `json:"format"`
	ComplianceScore  *float64 `json:"compliance_score"`
	TotalIssues      int      `json:"total_issues"`
}

type QuickFix struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// WebOutput is the structured presentation shape consumed by the dashboard.
type WebOutput struct {
	Timestamp   time.Time        `json:"timestamp"`
	Summary     WebSummary       `json:"summary"`
	Analysis    AnalysisResult   `json:"analysis"`
	Suggestions Suggestions      `json:"suggestions"`
	FormatRules *FormatRules     `json:"format_rules"`
	Progress    *OverallProgress `json:"progress"`
	QuickFixes  []QuickFix       `json:"quick_fixes"`
}
