package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/samstark/writecoach-backend/internal/logger"
	"github.com/samstark/writecoach-backend/internal/types"
)

// OutputFormatter renders a pipeline result for its two consumers: an ANSI
// terminal report for the CLI and a structured shape for the web dashboard.
type OutputFormatter interface {
	Terminal(result types.CoachingResult) string
	Web(result types.CoachingResult) types.WebOutput
	TerminalReport(report types.UserReport) string
}

type outputFormatter struct {
	log *logger.Logger
}

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiCyan   = "\033[36m"
)

func NewOutputFormatter(log *logger.Logger) OutputFormatter {
	return &outputFormatter{log: log.With("service", "OutputFormatter")}
}

func (f *outputFormatter) Terminal(result types.CoachingResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s%s=== Writing Analysis ===%s\n\n", ansiBold, ansiCyan, ansiReset)

	stats := result.Analysis.BasicStats
	fmt.Fprintf(&b, "%sFormat:%s %s (confidence %.0f%%)\n", ansiBold, ansiReset, result.Format, result.Confidence*100)
	fmt.Fprintf(&b, "%sWords:%s %d  %sSentences:%s %d  %sUnique words:%s %d\n",
		ansiBold, ansiReset, stats.WordCount,
		ansiBold, ansiReset, stats.SentenceCount,
		ansiBold, ansiReset, stats.UniqueWords)

	read := result.Analysis.Readability
	fmt.Fprintf(&b, "%sReadability:%s %s%.1f (%s)%s\n\n",
		ansiBold, ansiReset, readabilityColor(read.Score), read.Score, read.Level, ansiReset)

	writeIssueSection(&b, "Grammar Issues", result.Analysis.GrammarIssues, ansiRed)
	writeIssueSection(&b, "Style Issues", result.Analysis.StyleIssues, ansiYellow)

	if result.FormatRules != nil && len(result.FormatRules.Recommendations) > 0 {
		fmt.Fprintf(&b, "%sFormat Recommendations%s (compliance %.0f%%)\n",
			ansiBold, ansiReset, result.FormatRules.ComplianceScore*100)
		for _, rec := range result.FormatRules.Recommendations {
			fmt.Fprintf(&b, "  - %s: %s\n", rec.Issue, rec.Suggestion)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%sFeedback%s\n  %s\n\n", ansiBold, ansiReset, result.Suggestions.OverallFeedback)

	if len(result.Suggestions.SpecificImprovements) > 0 {
		fmt.Fprintf(&b, "%sImprovements%s\n", ansiBold, ansiReset)
		for _, imp := range result.Suggestions.SpecificImprovements {
			fmt.Fprintf(&b, "  [%s%s%s] %s: %s\n", priorityColor(imp.Priority), imp.Priority, ansiReset, imp.Problem, imp.Suggestion)
		}
		b.WriteString("\n")
	}

	if len(result.Suggestions.RewriteSuggestions) > 0 {
		fmt.Fprintf(&b, "%sRewrites%s\n", ansiBold, ansiReset)
		for _, rw := range result.Suggestions.RewriteSuggestions {
			fmt.Fprintf(&b, "  %s%s%s\n  -> %s%s%s\n", ansiRed, rw.Original, ansiReset, ansiGreen, rw.Suggested, ansiReset)
		}
		b.WriteString("\n")
	}

	if len(result.Suggestions.FormatSpecificTips) > 0 {
		fmt.Fprintf(&b, "%sTips%s\n", ansiBold, ansiReset)
		for _, tip := range result.Suggestions.FormatSpecificTips {
			fmt.Fprintf(&b, "  * %s\n", tip)
		}
	}

	if result.Tracking != nil {
		progress := result.Tracking.OverallProgress
		fmt.Fprintf(&b, "\n%sProgress%s (%d submissions", ansiBold, ansiReset, progress.TotalSubmissions)
		if progress.ReadabilityTrend != "" {
			fmt.Fprintf(&b, ", readability %s", progress.ReadabilityTrend)
		}
		b.WriteString(")\n")
	}

	return b.String()
}

func writeIssueSection(b *strings.Builder, title string, issues []types.Issue, color string) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(b, "%s%s%s (%d)\n", ansiBold, title, ansiReset, len(issues))
	for i, issue := range issues {
		if i >= 3 {
			fmt.Fprintf(b, "  ... and %d more\n", len(issues)-3)
			break
		}
		fmt.Fprintf(b, "  %s%q%s: %s\n", color, issue.Text, ansiReset, issue.Suggestion)
	}
	b.WriteString("\n")
}

func readabilityColor(score float64) string {
	switch {
	case score >= 60:
		return ansiGreen
	case score >= 30:
		return ansiYellow
	default:
		return ansiRed
	}
}

func priorityColor(priority string) string {
	switch priority {
	case "high":
		return ansiRed
	case "medium":
		return ansiYellow
	default:
		return ansiGreen
	}
}

func (f *outputFormatter) Web(result types.CoachingResult) types.WebOutput {
	summary := types.WebSummary{
		ReadabilityScore: result.Analysis.Readability.Score,
		ReadabilityLevel: result.Analysis.Readability.Level,
		Format:           result.Format,
		TotalIssues:      len(result.Analysis.StyleIssues) + len(result.Analysis.GrammarIssues),
	}
	if result.FormatRules != nil {
		compliance := result.FormatRules.ComplianceScore
		summary.ComplianceScore = &compliance
	}

	out := types.WebOutput{
		Timestamp:   time.Now().UTC(),
		Summary:     summary,
		Analysis:    result.Analysis,
		Suggestions: result.Suggestions,
		FormatRules: result.FormatRules,
		QuickFixes:  quickFixes(result),
	}
	if result.Tracking != nil {
		progress := result.Tracking.OverallProgress
		out.Progress = &progress
	}
	return out
}

// quickFixes surfaces the most actionable items: the first three grammar
// issues, then the first two style issues.
func quickFixes(result types.CoachingResult) []types.QuickFix {
	fixes := []types.QuickFix{}

	for i, issue := range result.Analysis.GrammarIssues {
		if i >= 3 {
			break
		}
		fixes = append(fixes, types.QuickFix{
			Type:        issue.Type,
			Description: fmt.Sprintf("%q: %s", issue.Text, issue.Suggestion),
			Priority:    "high",
		})
	}
	for i, issue := range result.Analysis.StyleIssues {
		if i >= 2 {
			break
		}
		fixes = append(fixes, types.QuickFix{
			Type:        issue.Type,
			Description: fmt.Sprintf("%q: %s", issue.Text, issue.Suggestion),
			Priority:    "medium",
		})
	}
	return fixes
}

func (f *outputFormatter) TerminalReport(report types.UserReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s%s=== Progress Report ===%s\n\n", ansiBold, ansiCyan, ansiReset)

	if report.Status == types.ReportStatusNoData {
		fmt.Fprintf(&b, "%s\n", report.Message)
		return b.String()
	}

	fmt.Fprintf(&b, "%sUser:%s %s\n", ansiBold, ansiReset, report.UserID)
	if !report.MemberSince.IsZero() {
		fmt.Fprintf(&b, "%sMember since:%s %s\n", ansiBold, ansiReset, report.MemberSince.Format("Jan 2, 2006"))
	}
	fmt.Fprintf(&b, "%sSubmissions:%s %d  %sDays active:%s %d  %sConsistency:%s %.0f%%\n\n",
		ansiBold, ansiReset, report.TotalSubmissions,
		ansiBold, ansiReset, report.Progress.DaysActive,
		ansiBold, ansiReset, report.Progress.ConsistencyScore*100)

	if report.Progress.Status == types.ProgressStatusTracked {
		fmt.Fprintf(&b, "%sReadability change:%s %+.2f (%s)\n", ansiBold, ansiReset,
			report.Progress.ReadabilityChange, report.Progress.ReadabilityTrend)
		fmt.Fprintf(&b, "%sStyle issues:%s %+d  %sGrammar issues:%s %+d\n\n",
			ansiBold, ansiReset, -report.Progress.StyleImprovement,
			ansiBold, ansiReset, -report.Progress.GrammarImprovement)
	} else if report.Progress.Message != "" {
		fmt.Fprintf(&b, "%s\n\n", report.Progress.Message)
	}

	if len(report.Achievements) > 0 {
		fmt.Fprintf(&b, "%sAchievements%s\n", ansiBold, ansiReset)
		for _, a := range report.Achievements {
			fmt.Fprintf(&b, "  %s%s%s - %s\n", ansiGreen, a.Name, ansiReset, a.Description)
		}
		b.WriteString("\n")
	}

	if len(report.ImprovementAreas) > 0 {
		fmt.Fprintf(&b, "%sFocus Areas%s\n", ansiBold, ansiReset)
		for _, area := range report.ImprovementAreas {
			fmt.Fprintf(&b, "  [%s%s%s] %s: %s\n", priorityColor(area.Priority), area.Priority, ansiReset, area.Area, area.Suggestion)
		}
	}

	return b.String()
}
