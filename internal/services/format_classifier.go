package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samstark/writecoach-backend/internal/logger"
	"github.com/samstark/writecoach-backend/internal/types"
)

// FormatClassifier scores text against the known writing-format profiles
// and applies the winning format's rules to analyzer output.
type FormatClassifier interface {
	Classify(text, userSpecifiedFormat string) (string, float64)
	ApplyFormatRules(text, format string, analysis types.AnalysisResult) types.FormatRules
}

type formatClassifier struct {
	log      *logger.Logger
	profiles map[string]formatProfile
	patterns map[string][]*regexp.Regexp
}

// Structural indicator regexes. The greeting check is anchored to the start
// of the text during classification but searched per line when checking
// required elements; both variants exist on purpose.
var (
	greetingStartRe   = regexp.MustCompile(`(?i)^(dear|hi|hello)\s+\w+`)
	greetingAnyLineRe = regexp.MustCompile(`(?im)^(dear|hi|hello)\s+\w+`)
	closingRe         = regexp.MustCompile(`(?im)(sincerely|regards|best|thanks),?\s*$`)
	headingRe         = regexp.MustCompile(`(?m)^[A-Z][^.!?]*:?\s*$`)
	dialogueRe        = regexp.MustCompile(`"[^"]+?"`)
)

// Detectors for required format elements. Elements without an entry here
// (body, narrative, main_content, ...) are too fuzzy to check mechanically
// and are skipped rather than reported missing.
var requiredElementChecks = map[string]func(string) bool{
	"greeting": func(t string) bool { return greetingAnyLineRe.MatchString(t) },
	"closing":  func(t string) bool { return closingRe.MatchString(t) },
	"introduction": func(t string) bool {
		first := strings.Split(t, "\n\n")[0]
		return len(strings.Fields(first)) > 30
	},
	"thesis": func(t string) bool {
		return containsAny(t, "argue that", "believe that", "this essay will", "this paper will")
	},
	"conclusion": func(t string) bool {
		return containsAny(t, "in conclusion", "to conclude", "therefore", "in summary")
	},
	"executive_summary": regexSearch(`(?i)(executive summary|summary|overview)`),
	"methodology":       regexSearch(`(?i)(methodology|methods|approach)`),
	"findings":          regexSearch(`(?i)(findings|results|outcomes)`),
	"recommendations":   regexSearch(`(?i)(recommend|suggest|propose)`),
}

func regexSearch(pattern string) func(string) bool {
	re := regexp.MustCompile(pattern)
	return func(t string) bool { return re.MatchString(t) }
}

func containsAny(text string, phrases ...string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func NewFormatClassifier(log *logger.Logger) (FormatClassifier, error) {
	profiles, err := loadFormatProfiles()
	if err != nil {
		return nil, fmt.Errorf("load format profiles: %w", err)
	}

	patterns := make(map[string][]*regexp.Regexp, len(profiles))
	for name, profile := range profiles {
		compiled, err := compilePatterns(profile.Patterns)
		if err != nil {
			return nil, fmt.Errorf("format %q: %w", name, err)
		}
		patterns[name] = compiled
	}

	return &formatClassifier{
		log:      log.With("service", "FormatClassifier"),
		profiles: profiles,
		patterns: patterns,
	}, nil
}

// Classify returns the detected format and a confidence in [0,1]. A caller
// supplied format from the known set wins unconditionally with confidence 1.
// Low-confidence detections fall back to "general" but keep the computed
// confidence so callers can see how weak the signal was.
func (fc *formatClassifier) Classify(text, userSpecifiedFormat string) (string, float64) {
	if userSpecifiedFormat != "" {
		if _, ok := fc.profiles[userSpecifiedFormat]; ok {
			return userSpecifiedFormat, 1.0
		}
	}

	bestFormat := ""
	bestScore := -1
	total := 0
	for _, format := range classifiedFormats {
		score := fc.scoreFormat(text, format)
		total += score
		if score > bestScore {
			bestScore = score
			bestFormat = format
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = float64(bestScore) / float64(total)
	}

	if confidence < 0.3 {
		return "general", confidence
	}
	return bestFormat, confidence
}

func (fc *formatClassifier) scoreFormat(text, format string) int {
	profile := fc.profiles[format]
	lower := strings.ToLower(text)

	score := 0
	for _, keyword := range profile.Keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			score++
		}
	}
	for _, re := range fc.patterns[format] {
		if re.MatchString(text) {
			score += 2
		}
	}
	score += fc.scoreStructure(text, profile.Structural)
	return score
}

func (fc *formatClassifier) scoreStructure(text string, structural []string) int {
	score := 0
	for _, element := range structural {
		switch element {
		case "short_paragraphs":
			if avgParagraphLength(text) < 75 {
				score++
			}
		case "greeting":
			if greetingStartRe.MatchString(text) {
				score += 2
			}
		case "closing":
			if closingRe.MatchString(text) {
				score += 2
			}
		case "headings":
			if headingRe.MatchString(text) {
				score += 2
			}
		case "dialogue":
			if dialogueRe.MatchString(text) {
				score += 3
			}
		}
	}
	return score
}

func avgParagraphLength(text string) float64 {
	paragraphs := strings.Split(text, "\n\n")
	totalWords := 0
	for _, p := range paragraphs {
		totalWords += len(strings.Fields(p))
	}
	return float64(totalWords) / float64(len(paragraphs))
}

// ApplyFormatRules checks the text against its format profile. Compliance
// starts at 1.0 and decays multiplicatively per violation; it is never
// adjusted upward.
func (fc *formatClassifier) ApplyFormatRules(text, format string, analysis types.AnalysisResult) types.FormatRules {
	profile, ok := fc.profiles[format]
	if !ok {
		profile = fc.profiles["general"]
	}
	rules := profile.Rules

	recommendations := []types.Recommendation{}
	compliance := 1.0

	wordCount := analysis.BasicStats.WordCount

	if rules.MinLength > 0 && wordCount < rules.MinLength {
		recommendations = append(recommendations, types.Recommendation{
			Type:       "length",
			Issue:      fmt.Sprintf("Text is too short for %s", format),
			Suggestion: fmt.Sprintf("Expand to at least %d words", rules.MinLength),
		})
		compliance *= 0.8
	}

	if rules.MaxLength > 0 && wordCount > rules.MaxLength {
		recommendations = append(recommendations, types.Recommendation{
			Type:       "length",
			Issue:      fmt.Sprintf("Text is too long for %s", format),
			Suggestion: fmt.Sprintf("Reduce to maximum %d words", rules.MaxLength),
		})
		compliance *= 0.9
	}

	if avgParagraphLength(text) > float64(rules.PreferredParagraphLength)*1.5 {
		recommendations = append(recommendations, types.Recommendation{
			Type:       "structure",
			Issue:      "Paragraphs are too long",
			Suggestion: fmt.Sprintf("Break into shorter paragraphs (~%d words)", rules.PreferredParagraphLength),
		})
		compliance *= 0.9
	}

	for _, element := range missingRequiredElements(text, rules.RequiredElements) {
		recommendations = append(recommendations, types.Recommendation{
			Type:       "missing_element",
			Issue:      fmt.Sprintf("Missing %s", element),
			Suggestion: fmt.Sprintf("Add a clear %s section", element),
		})
		compliance *= 0.85
	}

	return types.FormatRules{
		Format:             format,
		Rules:              rules,
		Recommendations:    recommendations,
		ComplianceScore:    round2(compliance),
		FormatSpecificTips: profile.Tips,
	}
}

func missingRequiredElements(text string, required []string) []string {
	missing := []string{}
	for _, element := range required {
		check, ok := requiredElementChecks[element]
		if !ok {
			continue
		}
		if !check(text) {
			missing = append(missing, element)
		}
	}
	return missing
}
