package types

// BasicStats summarizes raw token counts for a piece of text.
type BasicStats struct {
	SentenceCount       int     `json:"sentence_count"`
	WordCount           int     `json:"word_count"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
	CharCount           int     `json:"char_count"`
	UniqueWords         int     `json:"unique_words"`
}

// Readability holds the Flesch-approximation score and its band. The score
// is not clamped; negative values and values above 100 are meaningful to the
// banding logic.
type Readability struct {
	Score float64 `json:"score"`
	Level string  `json:"level"`
}

// Issue is a single detected style or grammar problem. Position is only set
// for issues located by a regex match (confused words).
type Issue struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	Suggestion string `json:"suggestion"`
	Position   *int   `json:"position,omitempty"`
}

type SentenceAnalysis struct {
	TotalSentences  int      `json:"total_sentences"`
	SentenceTypes   []string `json:"sentence_types"`
	SentenceLengths []int    `json:"sentence_lengths"`
	VarietyScore    float64  `json:"variety_score"`
}

// AnalysisResult is produced fresh for every request and never persisted on
// its own; the progress tracker stores a metrics projection of it instead.
type AnalysisResult struct {
	BasicStats       BasicStats       `json:"basic_stats"`
	Readability      Readability      `json:"readability"`
	StyleIssues      []Issue          `json:"style_issues"`
	GrammarIssues    []Issue          `json:"grammar_issues"`
	SentenceAnalysis SentenceAnalysis `json:"sentence_analysis"`
}
