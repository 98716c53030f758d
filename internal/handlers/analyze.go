package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samstark/writecoach-backend/internal/services"
	"github.com/samstark/writecoach-backend/internal/types"
)

type AnalyzeHandler struct {
	pipeline  services.Pipeline
	formatter services.OutputFormatter
}

func NewAnalyzeHandler(pipeline services.Pipeline, formatter services.OutputFormatter) *AnalyzeHandler {
	return &AnalyzeHandler{pipeline: pipeline, formatter: formatter}
}

// Analyze runs the full coaching pipeline on the posted text and returns the
// dashboard-shaped output.
func (ah *AnalyzeHandler) Analyze(c *gin.Context) {
	var req types.CoachingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Text == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("text is required"))
		return
	}

	// The only failure mode of the pipeline is input validation; backend
	// failures fall back internally.
	result, err := ah.pipeline.Process(c.Request.Context(), req)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}

	RespondOK(c, ah.formatter.Web(result))
}
