package types

// CoachingRequest is one run of the coaching pipeline. UserID and Format are
// optional: an empty UserID skips progress tracking and an empty Format
// triggers classification.
type CoachingRequest struct {
	Text   string `json:"text"`
	Format string `json:"format,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

// CoachingResult is the combined output of one pipeline run. FormatRules and
// Tracking are nil when the corresponding stage did not run.
type CoachingResult struct {
	Text        string         `json:"-"`
	Format      string         `json:"format"`
	Confidence  float64        `json:"format_confidence"`
	Analysis    AnalysisResult `json:"analysis"`
	FormatRules *FormatRules   `json:"format_rules,omitempty"`
	Suggestions Suggestions    `json:"suggestions"`
	Tracking    *TrackResult   `json:"tracking,omitempty"`
}
