package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/samstark/writecoach-backend/internal/logger"
	"github.com/samstark/writecoach-backend/internal/types"
)

// SuggestionGenerator produces coaching feedback for analyzed text. The
// preferred strategies call external generative APIs; when none is configured
// or the configured ones fail, a deterministic heuristic generator answers
// instead. Generate therefore never fails.
type SuggestionGenerator interface {
	Generate(ctx context.Context, text string, analysis types.AnalysisResult, formatRules types.FormatRules) types.Suggestions
}

type suggestionGenerator struct {
	log     *logger.Logger
	clients []generativeClient
}

// fallbackTips back the deterministic strategy and the generative path,
// which always gets the general list.
var fallbackTips = map[string][]string{
	"email":    {"Keep it concise", "Use a clear subject line", "End with a call to action"},
	"essay":    {"State your thesis early", "Support claims with evidence", "Conclude by reinforcing your argument"},
	"report":   {"Lead with key findings", "Use headings to organize sections", "Keep language objective"},
	"creative": {"Show, don't tell", "Vary your sentence rhythm", "Keep a consistent point of view"},
	"general":  {"Know your audience", "Use clear, concise language", "Proofread before sharing"},
}

// NewSuggestionGenerator selects strategies at construction: Gemini when
// GOOGLE_API_KEY is set, then OpenAI when OPENAI_API_KEY is set, then the
// built-in heuristic generator. Keys are not re-checked per request.
func NewSuggestionGenerator(log *logger.Logger) SuggestionGenerator {
	sg := &suggestionGenerator{
		log: log.With("service", "SuggestionGenerator"),
	}
	if os.Getenv("GOOGLE_API_KEY") != "" {
		sg.clients = append(sg.clients, NewGeminiClient(log))
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		sg.clients = append(sg.clients, NewOpenAIClient(log))
	}
	return sg
}

func (g *suggestionGenerator) Generate(ctx context.Context, text string, analysis types.AnalysisResult, formatRules types.FormatRules) types.Suggestions {
	prompt := g.buildPrompt(text, analysis, formatRules)

	for _, client := range g.clients {
		raw, err := client.Generate(ctx, prompt)
		if err != nil {
			g.log.Warn("Generative client failed, trying next strategy", "provider", client.Name(), "error", err)
			continue
		}
		suggestions, err := g.parseResponse(raw)
		if err != nil {
			g.log.Warn("Could not parse generative response, trying next strategy", "provider", client.Name(), "error", err)
			continue
		}
		return suggestions
	}

	return g.heuristicSuggestions(text, analysis, formatRules)
}

// buildPrompt embeds the text (truncated), the analyzer's headline findings,
// and up to three concrete issue snippets, then pins the response contract.
func (g *suggestionGenerator) buildPrompt(text string, analysis types.AnalysisResult, formatRules types.FormatRules) string {
	excerpt := text
	if len(excerpt) > 1000 {
		excerpt = excerpt[:1000]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this %s text and provide specific writing improvements.\n\n", formatRules.Format)
	fmt.Fprintf(&b, "TEXT:\n%s\n\n", excerpt)
	fmt.Fprintf(&b, "ANALYSIS:\n")
	fmt.Fprintf(&b, "- Readability: %s (score %.1f)\n", analysis.Readability.Level, analysis.Readability.Score)
	fmt.Fprintf(&b, "- Style issues: %d\n", len(analysis.StyleIssues))
	fmt.Fprintf(&b, "- Grammar issues: %d\n", len(analysis.GrammarIssues))

	snippets := issueSnippets(analysis, 3)
	if len(snippets) > 0 {
		fmt.Fprintf(&b, "- Example issues: %s\n", strings.Join(snippets, "; "))
	}

	b.WriteString("\nRespond with JSON only, using this shape:\n")
	b.WriteString(`{"overall_feedback": "...", "clarity_suggestions": ["..."], "structure_suggestions": ["..."], "grammar_corrections": [{"error": "...", "correction": "..."}], "improved_version": "..."}`)
	return b.String()
}

func issueSnippets(analysis types.AnalysisResult, limit int) []string {
	snippets := []string{}
	for _, issue := range analysis.GrammarIssues {
		if len(snippets) >= limit {
			return snippets
		}
		snippets = append(snippets, fmt.Sprintf("%s: %q", issue.Type, issue.Text))
	}
	for _, issue := range analysis.StyleIssues {
		if len(snippets) >= limit {
			return snippets
		}
		snippets = append(snippets, fmt.Sprintf("%s: %q", issue.Type, issue.Text))
	}
	return snippets
}

// aiSuggestionPayload is the JSON contract asked of the generative APIs.
type aiSuggestionPayload struct {
	OverallFeedback      string   `json:"overall_feedback"`
	ClaritySuggestions   []string `json:"clarity_suggestions"`
	StructureSuggestions []string `json:"structure_suggestions"`
	GrammarCorrections   []struct {
		Error      string `json:"error"`
		Correction string `json:"correction"`
	} `json:"grammar_corrections"`
	ImprovedVersion string `json:"improved_version"`
}

// parseResponse tolerates markdown fences and prose around the JSON payload.
// Generative responses always carry the general tips; format-keyed tips stay
// with the heuristic path.
func (g *suggestionGenerator) parseResponse(raw string) (types.Suggestions, error) {
	payload, ok := extractJSON(raw)
	if !ok {
		return types.Suggestions{}, fmt.Errorf("no JSON object in response")
	}

	var parsed aiSuggestionPayload
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return types.Suggestions{}, fmt.Errorf("decode suggestions: %w", err)
	}
	if parsed.OverallFeedback == "" {
		return types.Suggestions{}, fmt.Errorf("response missing overall_feedback")
	}

	suggestions := types.Suggestions{
		OverallFeedback:      parsed.OverallFeedback,
		SpecificImprovements: []types.Improvement{},
		RewriteSuggestions:   []types.Rewrite{},
		FormatSpecificTips:   fallbackTips["general"],
	}
	for _, s := range parsed.ClaritySuggestions {
		suggestions.SpecificImprovements = append(suggestions.SpecificImprovements, types.Improvement{
			Type: "clarity", Problem: "Unclear phrasing", Suggestion: s, Priority: "medium",
		})
	}
	for _, s := range parsed.StructureSuggestions {
		suggestions.SpecificImprovements = append(suggestions.SpecificImprovements, types.Improvement{
			Type: "structure", Problem: "Weak structure", Suggestion: s, Priority: "medium",
		})
	}
	for _, gc := range parsed.GrammarCorrections {
		suggestions.SpecificImprovements = append(suggestions.SpecificImprovements, types.Improvement{
			Type: "grammar", Problem: gc.Error, Suggestion: gc.Correction, Priority: "high",
		})
	}
	if parsed.ImprovedVersion != "" {
		suggestions.RewriteSuggestions = append(suggestions.RewriteSuggestions, types.Rewrite{
			Original:  "",
			Suggested: parsed.ImprovedVersion,
			Reason:    "Improved version",
		})
	}
	return suggestions, nil
}

func extractJSON(raw string) (string, bool) {
	if idx := strings.Index(raw, "```json"); idx >= 0 {
		rest := raw[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end]), true
		}
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// heuristicSuggestions is the deterministic fallback. Same inputs always
// produce the same output.
func (g *suggestionGenerator) heuristicSuggestions(text string, analysis types.AnalysisResult, formatRules types.FormatRules) types.Suggestions {
	tips, ok := fallbackTips[formatRules.Format]
	if !ok {
		tips = fallbackTips["general"]
	}
	suggestions := types.Suggestions{
		OverallFeedback:      heuristicFeedback(analysis),
		SpecificImprovements: []types.Improvement{},
		RewriteSuggestions:   longSentenceRewrites(text),
		FormatSpecificTips:   tips,
	}

	// One improvement per detected issue; truncation is the presenter's job.
	for _, issue := range analysis.StyleIssues {
		suggestions.SpecificImprovements = append(suggestions.SpecificImprovements, types.Improvement{
			Type:       issue.Type,
			Problem:    fmt.Sprintf("Found %q", issue.Text),
			Suggestion: issue.Suggestion,
			Priority:   "medium",
		})
	}
	for _, issue := range analysis.GrammarIssues {
		suggestions.SpecificImprovements = append(suggestions.SpecificImprovements, types.Improvement{
			Type:       issue.Type,
			Problem:    fmt.Sprintf("Found %q", issue.Text),
			Suggestion: issue.Suggestion,
			Priority:   "high",
		})
	}
	if analysis.SentenceAnalysis.TotalSentences >= 3 && analysis.SentenceAnalysis.VarietyScore < 0.3 {
		suggestions.SpecificImprovements = append(suggestions.SpecificImprovements, types.Improvement{
			Type:       "sentence_variety",
			Problem:    "Most sentences follow the same pattern",
			Suggestion: "Mix statements with questions or exclamations for rhythm",
			Priority:   "low",
		})
	}

	return suggestions
}

// heuristicFeedback picks one of three fixed messages keyed off the
// readability band.
func heuristicFeedback(analysis types.AnalysisResult) string {
	switch analysis.Readability.Level {
	case "Very Easy", "Easy":
		return "Your writing is clear and easy to read."
	case "Fairly Easy", "Standard":
		return "Your writing is moderately complex. Simplifying some sentences would help."
	default:
		return "Your writing is quite complex. Consider shorter sentences and simpler words."
	}
}

// longSentenceRewrites shows every overlong sentence split at its midpoint.
// Sentences are split on periods here, which is good enough for example
// snippets.
func longSentenceRewrites(text string) []types.Rewrite {
	rewrites := []types.Rewrite{}
	for _, sentence := range strings.Split(text, ".") {
		trimmed := strings.TrimSpace(sentence)
		words := strings.Fields(trimmed)
		if len(words) <= 25 {
			continue
		}
		mid := len(words) / 2
		rewrites = append(rewrites, types.Rewrite{
			Original:  trimmed + ".",
			Suggested: strings.Join(words[:mid], " ") + ". " + strings.Join(words[mid:], " ") + ".",
			Reason:    "Sentence too long",
		})
	}
	return rewrites
}
