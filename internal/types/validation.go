package types

// ValidationResult is the outcome of input validation: the cleaned text plus
// the counts clients show before running a full analysis. Format is the
// effective format after coercing unknown values to "general".
type ValidationResult struct {
	Text      string `json:"text"`
	Format    string `json:"format"`
	WordCount int    `json:"word_count"`
	CharCount int    `json:"char_count"`
}
