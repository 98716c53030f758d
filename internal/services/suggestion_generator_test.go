package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samstark/writecoach-backend/internal/tokenizer"
	"github.com/samstark/writecoach-backend/internal/types"
)

func clearAPIKeys(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
}

func sampleInputs(t *testing.T, text string) (types.AnalysisResult, types.FormatRules) {
	t.Helper()
	analyzer := NewTextAnalyzer(tokenizer.New(), testLogger(t))
	fc := newClassifier(t)
	analysis := analyzer.Analyze(text)
	format, _ := fc.Classify(text, "")
	return analysis, fc.ApplyFormatRules(text, format, analysis)
}

func TestGenerateHeuristicFallback(t *testing.T) {
	clearAPIKeys(t)
	sg := NewSuggestionGenerator(testLogger(t))

	text := "The report was written in order to explain. I like there car."
	analysis, formatRules := sampleInputs(t, text)

	got := sg.Generate(context.Background(), text, analysis, formatRules)
	if got.OverallFeedback == "" {
		t.Fatalf("expected non-empty feedback")
	}
	if len(got.SpecificImprovements) == 0 {
		t.Fatalf("expected improvements for text with known issues")
	}
	// Style issues (medium) come before grammar issues (high).
	if got.SpecificImprovements[0].Priority != "medium" {
		t.Fatalf("first improvement priority=%q, want medium: %+v", got.SpecificImprovements[0].Priority, got.SpecificImprovements)
	}
	last := got.SpecificImprovements[len(got.SpecificImprovements)-1]
	if last.Priority != "high" {
		t.Fatalf("last improvement priority=%q, want high", last.Priority)
	}
	if len(got.FormatSpecificTips) != 3 {
		t.Fatalf("tips=%d, want 3", len(got.FormatSpecificTips))
	}
}

func TestHeuristicRewritesLongSentences(t *testing.T) {
	clearAPIKeys(t)
	sg := NewSuggestionGenerator(testLogger(t))

	long := "The committee decided after much debate and several rounds of voting that the proposal " +
		"should move forward despite concerns raised by members about cost schedule and staffing levels overall."
	text := long + " It passed. " + long + " Work began. " + long
	analysis, formatRules := sampleInputs(t, text)

	// Every overlong sentence gets its own rewrite; the short ones do not.
	got := sg.Generate(context.Background(), text, analysis, formatRules)
	if len(got.RewriteSuggestions) != 3 {
		t.Fatalf("rewrites=%d, want 3: %+v", len(got.RewriteSuggestions), got.RewriteSuggestions)
	}
	rw := got.RewriteSuggestions[0]
	if rw.Reason != "Sentence too long" {
		t.Fatalf("Reason=%q", rw.Reason)
	}
	// The split adds one sentence boundary.
	if strings.Count(rw.Suggested, ".") != strings.Count(rw.Original, ".")+1 {
		t.Fatalf("suggested %q should split the original %q once", rw.Suggested, rw.Original)
	}
}

func TestHeuristicOneImprovementPerIssue(t *testing.T) {
	clearAPIKeys(t)
	sg := NewSuggestionGenerator(testLogger(t))

	analysis := types.AnalysisResult{
		Readability: types.Readability{Score: 65, Level: "Standard"},
	}
	for i := 0; i < 5; i++ {
		analysis.StyleIssues = append(analysis.StyleIssues, types.Issue{
			Type: "wordiness", Text: "in order to", Suggestion: `Replace with "to"`,
		})
		analysis.GrammarIssues = append(analysis.GrammarIssues, types.Issue{
			Type: "confused_words", Text: "there", Suggestion: "Check usage of their/there/they're",
		})
	}

	got := sg.Generate(context.Background(), "Plain text for this check.", analysis, types.FormatRules{Format: "general"})
	if len(got.SpecificImprovements) != 10 {
		t.Fatalf("improvements=%d, want one per issue (10)", len(got.SpecificImprovements))
	}
	for i, imp := range got.SpecificImprovements {
		want := "medium"
		if i >= 5 {
			want = "high"
		}
		if imp.Priority != want {
			t.Fatalf("improvement %d priority=%q, want %q", i, imp.Priority, want)
		}
	}
}

func TestHeuristicFeedbackBands(t *testing.T) {
	cases := []struct {
		level string
		want  string
	}{
		{"Very Easy", "Your writing is clear and easy to read."},
		{"Easy", "Your writing is clear and easy to read."},
		{"Fairly Easy", "Your writing is moderately complex. Simplifying some sentences would help."},
		{"Standard", "Your writing is moderately complex. Simplifying some sentences would help."},
		{"Fairly Difficult", "Your writing is quite complex. Consider shorter sentences and simpler words."},
		{"Very Difficult", "Your writing is quite complex. Consider shorter sentences and simpler words."},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			analysis := types.AnalysisResult{Readability: types.Readability{Level: tc.level}}
			if got := heuristicFeedback(analysis); got != tc.want {
				t.Fatalf("heuristicFeedback(%s)=%q, want %q", tc.level, got, tc.want)
			}
		})
	}
}

func TestGenerateHeuristicIsDeterministic(t *testing.T) {
	clearAPIKeys(t)
	sg := NewSuggestionGenerator(testLogger(t))

	text := "Things happen due to the fact that nobody checks. It was broken."
	analysis, formatRules := sampleInputs(t, text)

	first := sg.Generate(context.Background(), text, analysis, formatRules)
	second := sg.Generate(context.Background(), text, analysis, formatRules)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("same input produced different suggestions:\n%s\n%s", a, b)
	}
}

func TestGenerateViaGemini(t *testing.T) {
	payload := `{"overall_feedback": "Solid draft.", "clarity_suggestions": ["Split the opening sentence"], "structure_suggestions": [], "grammar_corrections": [{"error": "there car", "correction": "their car"}], "improved_version": "A cleaner version of the text."}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "```json\n" + payload + "\n```"},
				}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", srv.URL)
	t.Setenv("OPENAI_API_KEY", "")

	sg := NewSuggestionGenerator(testLogger(t))
	text := "A plain sentence for the model."
	analysis, formatRules := sampleInputs(t, text)

	got := sg.Generate(context.Background(), text, analysis, formatRules)
	if got.OverallFeedback != "Solid draft." {
		t.Fatalf("OverallFeedback=%q, want from API", got.OverallFeedback)
	}
	if len(got.SpecificImprovements) != 2 {
		t.Fatalf("improvements=%+v", got.SpecificImprovements)
	}
	if got.SpecificImprovements[0].Type != "clarity" || got.SpecificImprovements[0].Priority != "medium" {
		t.Fatalf("first improvement=%+v", got.SpecificImprovements[0])
	}
	if got.SpecificImprovements[1].Type != "grammar" || got.SpecificImprovements[1].Priority != "high" {
		t.Fatalf("second improvement=%+v", got.SpecificImprovements[1])
	}
	if len(got.RewriteSuggestions) != 1 || got.RewriteSuggestions[0].Reason != "Improved version" {
		t.Fatalf("rewrites=%+v", got.RewriteSuggestions)
	}
	// API-generated suggestions always carry the general tips.
	if len(got.FormatSpecificTips) != 3 || got.FormatSpecificTips[0] != "Know your audience" {
		t.Fatalf("tips=%v", got.FormatSpecificTips)
	}
}

func TestGenerateViaOpenAI(t *testing.T) {
	payload := `{"overall_feedback": "Readable and direct.", "clarity_suggestions": [], "structure_suggestions": [], "grammar_corrections": [], "improved_version": ""}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization=%q", got)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Here you go: " + payload}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL)

	sg := NewSuggestionGenerator(testLogger(t))
	text := "Another plain sentence."
	analysis, formatRules := sampleInputs(t, text)

	got := sg.Generate(context.Background(), text, analysis, formatRules)
	if got.OverallFeedback != "Readable and direct." {
		t.Fatalf("OverallFeedback=%q", got.OverallFeedback)
	}
	if len(got.RewriteSuggestions) != 0 {
		t.Fatalf("rewrites=%+v, want none for empty improved_version", got.RewriteSuggestions)
	}
}

func TestGenerateFallsBackOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", srv.URL)
	t.Setenv("OPENAI_API_KEY", "")

	sg := NewSuggestionGenerator(testLogger(t))
	text := "Work happens in order to finish."
	analysis, formatRules := sampleInputs(t, text)

	got := sg.Generate(context.Background(), text, analysis, formatRules)
	if got.OverallFeedback == "" {
		t.Fatalf("fallback should still produce feedback")
	}
	if len(got.FormatSpecificTips) != 3 {
		t.Fatalf("tips=%d, want the heuristic 3-item list", len(got.FormatSpecificTips))
	}
}

func TestGenerateFallsBackOnMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "I cannot produce JSON today."},
				}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", srv.URL)
	t.Setenv("OPENAI_API_KEY", "")

	sg := NewSuggestionGenerator(testLogger(t))
	text := "Plain words in a plain row."
	analysis, formatRules := sampleInputs(t, text)

	got := sg.Generate(context.Background(), text, analysis, formatRules)
	if got.OverallFeedback == "" {
		t.Fatalf("fallback should still produce feedback")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"fenced", "prefix ```json\n{\"a\":1}\n``` suffix", `{"a":1}`, true},
		{"bare_braces", `noise {"a":1} trailing`, `{"a":1}`, true},
		{"no_json", "nothing here", "", false},
		{"unclosed", "start { no close", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractJSON(tc.raw)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("extractJSON(%q)=(%q,%v), want (%q,%v)", tc.raw, got, ok, tc.want, tc.ok)
			}
		})
	}
}
