package handler

import (
	"errors"
	"net/http"

	"github.com/evalyhq/evaly-backend/internal/middleware"
	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/evalyhq/evaly-backend/internal/response"
	"github.com/evalyhq/evaly-backend/internal/service"
	"github.com/evalyhq/evaly-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PortalHandler handles participant-facing attempt and result endpoints.
type PortalHandler struct {
	attemptService *service.AttemptService
	resultService  *service.ResultService
}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler(attemptService *service.AttemptService, resultService *service.ResultService) *PortalHandler {
	return &PortalHandler{
		attemptService: attemptService,
		resultService:  resultService,
	}
}

// StartAttempt godoc
// POST /api/v1/portal/sections/:section_id/attempts
// Starts (or resumes) the participant's attempt on a section.
func (h *PortalHandler) StartAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sectionID, err := uuid.Parse(c.Param("section_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	attempt, err := h.attemptService.StartAttempt(c.Request.Context(), claims.UserID, sectionID)
	if err != nil {
		h.failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// GetAttemptQuestions godoc
// GET /api/v1/portal/attempts/:attempt_id/questions
// Returns the section's questions with answer keys stripped.
func (h *PortalHandler) GetAttemptQuestions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	questions, err := h.attemptService.SectionQuestions(c.Request.Context(), claims.UserID, attemptID)
	if err != nil {
		h.failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// SaveDraft godoc
// PUT /api/v1/portal/attempts/:attempt_id/draft
// Autosaves a single draft answer. Drafts are never scored.
func (h *PortalHandler) SaveDraft(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.DraftAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.attemptService.SaveDraft(c.Request.Context(), claims.UserID, attemptID, &req); err != nil {
		h.failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// SubmitAnswer godoc
// POST /api/v1/portal/attempts/:attempt_id/answers
// Submits an answer for evaluation. Resubmitting overwrites; last writer wins.
func (h *PortalHandler) SubmitAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answer, err := h.attemptService.SubmitAnswer(c.Request.Context(), claims.UserID, attemptID, &req)
	if err != nil {
		h.failAttemptError(c, err)
		return
	}

	// The verdict stays server-side until results are released.
	response.Success(c, http.StatusOK, gin.H{
		"answer": gin.H{
			"id":          answer.ID,
			"question_id": answer.QuestionID,
			"updated_at":  answer.UpdatedAt,
		},
	})
}

// FinishAttempt godoc
// POST /api/v1/portal/attempts/:attempt_id/finish
// Marks the attempt finished. Finishing is terminal.
func (h *PortalHandler) FinishAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.attemptService.FinishAttempt(c.Request.Context(), claims.UserID, attemptID)
	if err != nil {
		h.failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"result": gin.H{
			"attempt_id":  result.AttemptID,
			"score":       result.Score,
			"max_score":   result.MaxScore,
			"percentage":  result.Percentage,
			"finished_at": result.FinishedAt,
		},
	})
}

// GetAttemptState godoc
// GET /api/v1/portal/attempts/:attempt_id/state
// Returns draft answers and remaining time for resuming an attempt.
func (h *PortalHandler) GetAttemptState(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.attemptService.GetAttemptState(c.Request.Context(), claims.UserID, attemptID)
	if err != nil {
		h.failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"state": state})
}

// GetMyResults godoc
// GET /api/v1/portal/tests/:test_id/results
// Returns the participant's aggregated result across the test's sections.
// Per-question verdicts are withheld while the test hides live results.
func (h *PortalHandler) GetMyResults(c *gin.Context) {
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

	result, err := h.resultService.GetMyResults(c.Request.Context(), claims.UserID, testID)
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// failAttemptError maps attempt lifecycle errors onto HTTP responses.
func (h *PortalHandler) failAttemptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTestNotAvailable):
		response.Fail(c, http.StatusForbidden, response.ErrTestNotAvailable)
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
	case errors.Is(err, service.ErrAttemptFinished):
		response.Fail(c, http.StatusConflict, response.ErrAttemptFinished)
	case errors.Is(err, service.ErrNotAttemptOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotAttemptOwner)
	case errors.Is(err, service.ErrQuestionNotInScope):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrQuestionOutOfScope)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
