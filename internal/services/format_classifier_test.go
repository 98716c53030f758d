package services

import (
	"strings"
	"testing"

	"github.com/samstark/writecoach-backend/internal/tokenizer"
)

func newClassifier(t *testing.T) FormatClassifier {
	t.Helper()
	fc, err := NewFormatClassifier(testLogger(t))
	if err != nil {
		t.Fatalf("NewFormatClassifier: %v", err)
	}
	return fc
}

func TestClassifyEmail(t *testing.T) {
	fc := newClassifier(t)

	format, confidence := fc.Classify("Dear John, I hope this finds you well. Best regards, Sarah", "")
	if format != "email" {
		t.Fatalf("format=%q, want email", format)
	}
	if confidence != 1.0 {
		t.Fatalf("confidence=%v, want 1.0", confidence)
	}
}

func TestClassifyUserSpecifiedFormat(t *testing.T) {
	fc := newClassifier(t)

	format, confidence := fc.Classify("Dear John, thanks for everything.", "report")
	if format != "report" || confidence != 1.0 {
		t.Fatalf("got (%q, %v), want (report, 1.0)", format, confidence)
	}

	// Unknown formats fall through to detection.
	format, _ = fc.Classify("Dear John, I hope this finds you well. Best regards, Sarah", "poem")
	if format != "email" {
		t.Fatalf("format=%q, want email after falling back to detection", format)
	}
}

func TestClassifyNoSignalsIsGeneral(t *testing.T) {
	fc := newClassifier(t)

	// One long run-on paragraph with no format indicators scores zero for
	// every format.
	text := strings.TrimSpace(strings.Repeat("lorem ipsum dolor sit amet consectetur ", 13)) + "."
	format, confidence := fc.Classify(text, "")
	if format != "general" {
		t.Fatalf("format=%q, want general", format)
	}
	if confidence != 0 {
		t.Fatalf("confidence=%v, want 0", confidence)
	}
}

func TestClassifyReport(t *testing.T) {
	fc := newClassifier(t)

	text := "Executive Summary\n\nOur analysis of the results is presented in section 1. " +
		"See table 2 for the findings and recommendations derived from the methodology."
	format, _ := fc.Classify(text, "")
	if format != "report" {
		t.Fatalf("format=%q, want report", format)
	}
}

func TestApplyFormatRulesCompliantEmail(t *testing.T) {
	fc := newClassifier(t)
	analyzer := NewTextAnalyzer(tokenizer.New(), testLogger(t))

	text := "Dear John,\n\nI hope this finds you well and that the project is on track.\n\nBest regards,\nSarah"
	rules := fc.ApplyFormatRules(text, "email", analyzer.Analyze(text))

	if rules.Format != "email" {
		t.Fatalf("Format=%q, want email", rules.Format)
	}
	if rules.ComplianceScore != 1.0 {
		t.Fatalf("ComplianceScore=%v, want 1.0 (recommendations: %+v)", rules.ComplianceScore, rules.Recommendations)
	}
	if len(rules.Recommendations) != 0 {
		t.Fatalf("expected no recommendations, got %+v", rules.Recommendations)
	}
	if len(rules.FormatSpecificTips) != 5 {
		t.Fatalf("tips=%d, want 5", len(rules.FormatSpecificTips))
	}
}

func TestApplyFormatRulesShortReport(t *testing.T) {
	fc := newClassifier(t)
	analyzer := NewTextAnalyzer(tokenizer.New(), testLogger(t))

	text := "The project went fine this quarter."
	rules := fc.ApplyFormatRules(text, "report", analyzer.Analyze(text))

	// Too short (x0.8) and missing executive summary (x0.85). The other
	// required elements have no detector and are skipped.
	if rules.ComplianceScore != 0.68 {
		t.Fatalf("ComplianceScore=%v, want 0.68", rules.ComplianceScore)
	}
	if len(rules.Recommendations) != 2 {
		t.Fatalf("recommendations=%d, want 2: %+v", len(rules.Recommendations), rules.Recommendations)
	}
	if rules.Recommendations[0].Type != "length" {
		t.Fatalf("first recommendation type=%q, want length", rules.Recommendations[0].Type)
	}
	if rules.Recommendations[1].Type != "missing_element" {
		t.Fatalf("second recommendation type=%q, want missing_element", rules.Recommendations[1].Type)
	}
}

func TestApplyFormatRulesUnknownFormatUsesGeneral(t *testing.T) {
	fc := newClassifier(t)
	analyzer := NewTextAnalyzer(tokenizer.New(), testLogger(t))

	text := strings.TrimSpace(strings.Repeat("steady clear writing keeps readers engaged and informed daily ", 7))
	rules := fc.ApplyFormatRules(text, "poem", analyzer.Analyze(text))
	if rules.Rules.MinLength != 50 {
		t.Fatalf("MinLength=%d, want general profile's 50", rules.Rules.MinLength)
	}
}

func TestComplianceNeverIncreases(t *testing.T) {
	fc := newClassifier(t)
	analyzer := NewTextAnalyzer(tokenizer.New(), testLogger(t))

	texts := []string{
		"",
		"Hi.",
		"Dear John,\n\nShort note.\n\nBest regards,\nSarah",
		strings.Repeat("word ", 600),
	}
	for _, text := range texts {
		for _, format := range []string{"email", "essay", "report", "creative", "general"} {
			rules := fc.ApplyFormatRules(text, format, analyzer.Analyze(text))
			if rules.ComplianceScore > 1.0 || rules.ComplianceScore < 0 {
				t.Fatalf("compliance %v out of range for format %q", rules.ComplianceScore, format)
			}
		}
	}
}
