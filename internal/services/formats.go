package services

import (
	"embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/samstark/writecoach-backend/internal/types"
)

const formatsYAMLEnv = "WRITECOACH_FORMATS_YAML"

//go:embed formats.yaml
var formatsFS embed.FS

// formatProfile is one writing-format entry from formats.yaml: the
// indicators used for classification plus the rule set and tips.
type formatProfile struct {
	Keywords   []string                 `yaml:"keywords"`
	Patterns   []string                 `yaml:"patterns"`
	Structural []string                 `yaml:"structural"`
	Rules      types.FormatProfileRules `yaml:"rules"`
	Tips       []string                 `yaml:"tips"`
}

type formatConfig struct {
	Formats map[string]formatProfile `yaml:"formats"`
}

// classifiedFormats is the scoring order. Ties go to the earliest entry, so
// this order is part of the classifier contract.
var classifiedFormats = []string{"email", "essay", "report", "creative"}

// loadFormatProfiles reads format profiles from the path in
// WRITECOACH_FORMATS_YAML when set, otherwise from the embedded copy.
func loadFormatProfiles() (map[string]formatProfile, error) {
	raw, err := formatsFS.ReadFile("formats.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded formats.yaml: %w", err)
	}
	if path := os.Getenv(formatsYAMLEnv); path != "" {
		if external, readErr := os.ReadFile(path); readErr == nil {
			raw = external
		}
	}

	var cfg formatConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse formats.yaml: %w", err)
	}

	for _, name := range append(classifiedFormats, "general") {
		if _, ok := cfg.Formats[name]; !ok {
			return nil, fmt.Errorf("formats.yaml missing profile %q", name)
		}
	}
	return cfg.Formats, nil
}

// compilePatterns compiles indicator patterns case-insensitively across
// lines, matching how they are written in formats.yaml.
func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?im)" + p)
		if err != nil {
			return nil, fmt.Errorf("compile format pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
