package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samstark/writecoach-backend/internal/services"
)

// ServicesHandler exposes the pipeline stages individually, for clients that
// want one stage without the full coaching run.
type ServicesHandler struct {
	input      services.InputHandler
	analyzer   services.TextAnalyzer
	classifier services.FormatClassifier
	generator  services.SuggestionGenerator
}

func NewServicesHandler(
	input services.InputHandler,
	analyzer services.TextAnalyzer,
	classifier services.FormatClassifier,
	generator services.SuggestionGenerator,
) *ServicesHandler {
	return &ServicesHandler{
		input:      input,
		analyzer:   analyzer,
		classifier: classifier,
		generator:  generator,
	}
}

type stageRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

func (sh *ServicesHandler) bind(c *gin.Context) (stageRequest, string, bool) {
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return req, "", false
	}
	text, err := sh.input.Normalize(req.Text)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return req, "", false
	}
	return req, text, true
}

func (sh *ServicesHandler) Analyze(c *gin.Context) {
	_, text, ok := sh.bind(c)
	if !ok {
		return
	}
	RespondOK(c, sh.analyzer.Analyze(text))
}

func (sh *ServicesHandler) Classify(c *gin.Context) {
	req, text, ok := sh.bind(c)
	if !ok {
		return
	}
	format, confidence := sh.classifier.Classify(text, req.Format)
	RespondOK(c, gin.H{"format": format, "confidence": confidence})
}

func (sh *ServicesHandler) Suggest(c *gin.Context) {
	req, text, ok := sh.bind(c)
	if !ok {
		return
	}
	analysis := sh.analyzer.Analyze(text)
	format, _ := sh.classifier.Classify(text, req.Format)
	formatRules := sh.classifier.ApplyFormatRules(text, format, analysis)
	RespondOK(c, sh.generator.Generate(c.Request.Context(), text, analysis, formatRules))
}
