package services

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samstark/writecoach-backend/internal/logger"
	"github.com/samstark/writecoach-backend/internal/tokenizer"
	"github.com/samstark/writecoach-backend/internal/types"
)

// TextAnalyzer computes statistics, readability, and style/grammar issue
// lists for a piece of text. Analyze never fails: degenerate input produces
// zero values instead of errors so the pipeline always completes.
type TextAnalyzer interface {
	Analyze(text string) types.AnalysisResult
}

type confusablePattern struct {
	re    *regexp.Regexp
	label string
}

type wordyPhrase struct {
	phrase      string
	replacement string
}

type textAnalyzer struct {
	log          *logger.Logger
	tok          tokenizer.Tokenizer
	confusables  []confusablePattern
	wordyPhrases []wordyPhrase
}

// Auxiliaries that start the simplified passive-voice pattern. Any of these
// followed by a token ending in "ed" or "en" is flagged, so "is golden"
// produces a false positive. That trade-off is deliberate.
var passiveIndicators = map[string]struct{}{
	"was": {}, "were": {}, "been": {}, "being": {}, "is": {}, "are": {}, "am": {},
}

var defaultWordyPhrases = []wordyPhrase{
	{"in order to", "to"},
	{"due to the fact that", "because"},
	{"in the event that", "if"},
	{"at this point in time", "now"},
	{"in spite of the fact that", "although"},
}

func NewTextAnalyzer(tok tokenizer.Tokenizer, log *logger.Logger) TextAnalyzer {
	return &textAnalyzer{
		log: log.With("service", "TextAnalyzer"),
		tok: tok,
		confusables: []confusablePattern{
			{regexp.MustCompile(`(?i)\b(their|there|they're)\b`), "their/there/they're"},
			{regexp.MustCompile(`(?i)\b(your|you're)\b`), "your/you're"},
			{regexp.MustCompile(`(?i)\b(its|it's)\b`), "its/it's"},
			{regexp.MustCompile(`(?i)\b(affect|effect)\b`), "affect/effect"},
			{regexp.MustCompile(`(?i)\b(then|than)\b`), "then/than"},
		},
		wordyPhrases: defaultWordyPhrases,
	}
}

func (a *textAnalyzer) Analyze(text string) types.AnalysisResult {
	return types.AnalysisResult{
		BasicStats:       a.basicStats(text),
		Readability:      a.readability(text),
		StyleIssues:      a.checkStyle(text),
		GrammarIssues:    a.checkGrammar(text),
		SentenceAnalysis: a.analyzeSentences(text),
	}
}

func (a *textAnalyzer) basicStats(text string) types.BasicStats {
	sentences := a.tok.Sentences(text)
	words := a.tok.Words(text)

	avg := 0.0
	if len(sentences) > 0 {
		avg = float64(len(words)) / float64(len(sentences))
	}

	unique := map[string]struct{}{}
	for _, w := range words {
		if isAlpha(w) {
			unique[strings.ToLower(w)] = struct{}{}
		}
	}

	return types.BasicStats{
		SentenceCount:       len(sentences),
		WordCount:           len(words),
		AvgWordsPerSentence: avg,
		CharCount:           utf8.RuneCountInString(text),
		UniqueWords:         len(unique),
	}
}

// Flesch Reading Ease approximation with syllables-per-word fixed at 1.5.
// The score is intentionally unclamped; banding relies on raw values.
func (a *textAnalyzer) readability(text string) types.Readability {
	sentences := a.tok.Sentences(text)
	words := a.tok.Words(text)

	if len(sentences) == 0 || len(words) == 0 {
		return types.Readability{Score: 0, Level: "Unknown"}
	}

	avgSentenceLength := float64(len(words)) / float64(len(sentences))
	const avgSyllablesPerWord = 1.5

	score := 206.835 - (1.015 * avgSentenceLength) - (84.6 * avgSyllablesPerWord)

	var level string
	switch {
	case score >= 90:
		level = "Very Easy"
	case score >= 80:
		level = "Easy"
	case score >= 70:
		level = "Fairly Easy"
	case score >= 60:
		level = "Standard"
	case score >= 50:
		level = "Fairly Difficult"
	case score >= 30:
		level = "Difficult"
	default:
		level = "Very Difficult"
	}

	return types.Readability{Score: round2(score), Level: level}
}

func (a *textAnalyzer) checkStyle(text string) []types.Issue {
	issues := []types.Issue{}

	words := a.tok.Words(strings.ToLower(text))
	for i, word := range words {
		if _, ok := passiveIndicators[word]; !ok || i+1 >= len(words) {
			continue
		}
		next := words[i+1]
		if strings.HasSuffix(next, "ed") || strings.HasSuffix(next, "en") {
			issues = append(issues, types.Issue{
				Type:       "passive_voice",
				Text:       fmt.Sprintf("%s %s", word, next),
				Suggestion: "Consider using active voice",
			})
		}
	}

	lower := strings.ToLower(text)
	for _, wp := range a.wordyPhrases {
		if strings.Contains(lower, wp.phrase) {
			issues = append(issues, types.Issue{
				Type:       "wordiness",
				Text:       wp.phrase,
				Suggestion: fmt.Sprintf("Replace with %q", wp.replacement),
			})
		}
	}

	return issues
}

func (a *textAnalyzer) checkGrammar(text string) []types.Issue {
	issues := []types.Issue{}

	for _, cp := range a.confusables {
		for _, loc := range cp.re.FindAllStringIndex(text, -1) {
			pos := loc[0]
			issues = append(issues, types.Issue{
				Type:       "confused_words",
				Text:       text[loc[0]:loc[1]],
				Position:   &pos,
				Suggestion: fmt.Sprintf("Check usage of %s", cp.label),
			})
		}
	}

	// Adjacent duplicates; repeated articles are deliberate often enough to
	// be exempt.
	words := strings.Fields(text)
	for i := 0; i+1 < len(words); i++ {
		lowered := strings.ToLower(words[i])
		if lowered != strings.ToLower(words[i+1]) {
			continue
		}
		if lowered == "the" || lowered == "a" || lowered == "an" {
			continue
		}
		issues = append(issues, types.Issue{
			Type:       "repeated_word",
			Text:       words[i],
			Suggestion: "Remove repeated word",
		})
	}

	return issues
}

func (a *textAnalyzer) analyzeSentences(text string) types.SentenceAnalysis {
	sentences := a.tok.Sentences(text)

	analysis := types.SentenceAnalysis{
		TotalSentences:  len(sentences),
		SentenceTypes:   []string{},
		SentenceLengths: []int{},
	}

	distinct := map[string]struct{}{}
	for _, sentence := range sentences {
		analysis.SentenceLengths = append(analysis.SentenceLengths, len(a.tok.Words(sentence)))

		sentType := "statement"
		if strings.HasSuffix(sentence, "?") {
			sentType = "question"
		} else if strings.HasSuffix(sentence, "!") {
			sentType = "exclamation"
		}
		analysis.SentenceTypes = append(analysis.SentenceTypes, sentType)
		distinct[sentType] = struct{}{}
	}

	if len(sentences) > 0 {
		analysis.VarietyScore = float64(len(distinct)) / float64(len(sentences))
	}

	return analysis
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
