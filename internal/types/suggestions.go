package types

type Improvement struct {
	Type       string `json:"type"`
	Problem    string `json:"problem"`
	Suggestion string `json:"suggestion"`
	Priority   string `json:"priority"`
}

type Rewrite struct {
	Original  string `json:"original"`
	Suggested string `json:"suggested"`
	Reason    string `json:"reason"`
}

// Suggestions has one shape regardless of which backend produced it.
type Suggestions struct {
	OverallFeedback      string        `json:"overall_feedback"`
	SpecificImprovements []Improvement `json:"specific_improvements"`
	RewriteSuggestions   []Rewrite     `json:"rewrite_suggestions"`
	FormatSpecificTips   []string      `json:"format_specific_tips"`
}
