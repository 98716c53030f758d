package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samstark/writecoach-backend/internal/services"
)

type ValidateHandler struct {
	input services.InputHandler
}

func NewValidateHandler(input services.InputHandler) *ValidateHandler {
	return &ValidateHandler{input: input}
}

type validateRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

// Validate checks input without running the pipeline, so clients can reject
// bad submissions cheaply.
func (vh *ValidateHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := vh.input.ValidateInput(req.Text, req.Format)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	RespondOK(c, result)
}
