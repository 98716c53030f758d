package types

// FormatProfileRules is the static rule profile for one writing format.
// A zero MinLength/MaxLength means the bound does not apply to the format.
type FormatProfileRules struct {
	MinLength                int      `json:"min_length,omitempty" yaml:"min_length"`
	MaxLength                int      `json:"max_length,omitempty" yaml:"max_length"`
	PreferredParagraphLength int      `json:"preferred_paragraph_length" yaml:"preferred_paragraph_length"`
	Formality                string   `json:"formality" yaml:"formality"`
	RequiredElements         []string `json:"required_elements" yaml:"required_elements"`
}

type Recommendation struct {
	Type       string `json:"type"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}

// FormatRules is the outcome of applying a format profile to analyzed text.
type FormatRules struct {
	Format             string             `json:"format"`
	Rules              FormatProfileRules `json:"rules"`
	Recommendations    []Recommendation   `json:"recommendations"`
	ComplianceScore    float64            `json:"compliance_score"`
	FormatSpecificTips []string           `json:"format_specific_tips"`
}
