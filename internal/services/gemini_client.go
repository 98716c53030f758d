package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samstark/writecoach-backend/internal/logger"
	"github.com/samstark/writecoach-backend/internal/utils"
)

// generativeClient is a text-in/text-out view of an external generative API.
// Generate makes exactly one attempt; retry policy belongs to the caller.
type generativeClient interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// aiHTTPError is returned for non-2xx responses so callers can distinguish
// API rejections from transport failures.
type aiHTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *aiHTTPError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

var errMissingAPIKey = errors.New("api key not configured")

type geminiClient struct {
	log     *logger.Logger
	http    *http.Client
	baseURL string
	model   string
	apiKey  string
}

func NewGeminiClient(log *logger.Logger) generativeClient {
	timeout := utils.GetEnvAsInt("AI_TIMEOUT_SECONDS", 30, log)
	return &geminiClient{
		log:     log.With("service", "GeminiClient"),
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
		baseURL: utils.GetEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com", log),
		model:   utils.GetEnv("GEMINI_MODEL", "gemini-1.5-flash", log),
		apiKey:  utils.GetEnv("GOOGLE_API_KEY", "", nil),
	}
}

func (c *geminiClient) Name() string { return "gemini" }

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (c *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errMissingAPIKey
	}

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &aiHTTPError{Provider: "gemini", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini response contained no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
