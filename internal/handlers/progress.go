package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samstark/writecoach-backend/internal/services"
	"github.com/samstark/writecoach-backend/internal/types"
)

type ProgressHandler struct {
	tracker services.ProgressTracker
}

func NewProgressHandler(tracker services.ProgressTracker) *ProgressHandler {
	return &ProgressHandler{tracker: tracker}
}

// GetReport returns the progress report for one user. Unknown users are a
// 404, not an empty report.
func (ph *ProgressHandler) GetReport(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("user_id is required"))
		return
	}

	report, err := ph.tracker.GetUserReport(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "report_failed", err)
		return
	}
	if report.Status == types.ReportStatusNoData {
		RespondError(c, http.StatusNotFound, "user_not_found", errors.New(report.Message))
		return
	}

	RespondOK(c, report)
}
