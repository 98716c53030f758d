package services

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samstark/writecoach-backend/internal/logger"
	"github.com/samstark/writecoach-backend/internal/types"
	"github.com/samstark/writecoach-backend/internal/utils"
)

// InputHandler validates and normalizes text before it enters the pipeline.
// Everything downstream assumes LF line endings and no control characters.
type InputHandler interface {
	Normalize(raw string) (string, error)
	ValidateInput(raw, format string) (types.ValidationResult, error)
	ReadFile(path string) (string, error)
	Read(r io.Reader) (string, error)
}

type inputHandler struct {
	log      *logger.Logger
	maxChars int
}

// knownFormats are the values ValidateInput passes through unchanged. Any
// other non-empty format becomes "general".
var knownFormats = map[string]struct{}{
	"email": {}, "essay": {}, "report": {}, "creative": {}, "general": {},
}

func NewInputHandler(log *logger.Logger) InputHandler {
	return &inputHandler{
		log:      log.With("service", "InputHandler"),
		maxChars: utils.GetEnvAsInt("WRITECOACH_MAX_CHARS", 50000, log),
	}
}

// Normalize trims surrounding whitespace, converts CRLF to LF, and drops
// control characters other than newline and tab. Empty and oversized inputs
// are rejected.
func (h *inputHandler) Normalize(raw string) (string, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
	text = strings.TrimSpace(text)

	if text == "" {
		return "", errors.New("Text cannot be empty")
	}
	if utf8.RuneCountInString(text) > h.maxChars {
		return "", fmt.Errorf("text exceeds maximum length of %d characters", h.maxChars)
	}
	return text, nil
}

// ValidateInput runs Normalize, enforces a minimum useful length, and
// coerces unknown formats to "general". An empty format is kept empty so the
// classifier still auto-detects.
func (h *inputHandler) ValidateInput(raw, format string) (types.ValidationResult, error) {
	text, err := h.Normalize(raw)
	if err != nil {
		return types.ValidationResult{}, err
	}
	if utf8.RuneCountInString(text) < 10 {
		return types.ValidationResult{}, errors.New("Text too short for meaningful analysis")
	}

	if format != "" {
		if _, ok := knownFormats[format]; !ok {
			h.log.Debug("Unknown format, using general", "format", format)
			format = "general"
		}
	}

	return types.ValidationResult{
		Text:      text,
		Format:    format,
		WordCount: len(strings.Fields(text)),
		CharCount: utf8.RuneCountInString(text),
	}, nil
}

func (h *inputHandler) ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input file: %w", err)
	}
	return h.Normalize(string(raw))
}

// Read consumes the reader until EOF. Used for stdin in the CLI.
func (h *inputHandler) Read(r io.Reader) (string, error) {
	raw, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return h.Normalize(string(raw))
}
