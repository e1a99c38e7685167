package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/evalyhq/evaly-backend/internal/middleware"
	"github.com/evalyhq/evaly-backend/internal/response"
	"github.com/evalyhq/evaly-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProgressHandler handles organizer progress and export endpoints.
type ProgressHandler struct {
	testService     *service.TestService
	progressService *service.ProgressService
	exportService   *service.ExportService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(
	testService *service.TestService,
	progressService *service.ProgressService,
	exportService *service.ExportService,
) *ProgressHandler {
	return &ProgressHandler{
		testService:     testService,
		progressService: progressService,
		exportService:   exportService,
	}
}

// GetProgress godoc
// GET /api/v1/organizer/tests/:test_id/progress
// Returns the cross-participant progress summary with the leaderboard.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if _, err := h.testService.GetOwnedTest(c.Request.Context(), claims.OrganizationID, testID); err != nil {
		h.failOwnership(c, err)
		return
	}

	progress, err := h.progressService.GetProgress(c.Request.Context(), testID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": progress})
}

// ExportLeaderboardCSV godoc
// GET /api/v1/organizer/tests/:test_id/leaderboard.csv
// Streams the current leaderboard as a CSV download.
func (h *ProgressHandler) ExportLeaderboardCSV(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if _, err := h.testService.GetOwnedTest(c.Request.Context(), claims.OrganizationID, testID); err != nil {
		h.failOwnership(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="leaderboard-%s.csv"`, testID))

	if err := h.exportService.WriteLeaderboardCSV(c.Request.Context(), testID, c.Writer); err != nil {
		// Headers are already out; all we can do is abort the stream.
		c.Abort()
		return
	}
}

func (h *ProgressHandler) failOwnership(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTestNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotTestOwner):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
