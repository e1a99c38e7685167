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

// TestHandler handles organizer test and section management endpoints.
type TestHandler struct {
	testService     *service.TestService
	questionService *service.QuestionService
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(testService *service.TestService, questionService *service.QuestionService) *TestHandler {
	return &TestHandler{
		testService:     testService,
		questionService: questionService,
	}
}

// CreateTest godoc
// POST /api/v1/organizer/tests
func (h *TestHandler) CreateTest(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	test, err := h.testService.CreateTest(c.Request.Context(), claims.OrganizationID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"test": test})
}

// ListTests godoc
// GET /api/v1/organizer/tests
func (h *TestHandler) ListTests(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	tests, err := h.testService.ListTests(c.Request.Context(), claims.OrganizationID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tests": tests})
}

// GetTest godoc
// GET /api/v1/organizer/tests/:test_id
func (h *TestHandler) GetTest(c *gin.Context) {
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

	test, err := h.testService.GetOwnedTest(c.Request.Context(), claims.OrganizationID, testID)
	if err != nil {
		h.failTestError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": test})
}

// PublishTest godoc
// POST /api/v1/organizer/tests/:test_id/publish
func (h *TestHandler) PublishTest(c *gin.Context) {
	h.setPublished(c, true)
}

// UnpublishTest godoc
// POST /api/v1/organizer/tests/:test_id/unpublish
func (h *TestHandler) UnpublishTest(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *TestHandler) setPublished(c *gin.Context, published bool) {
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

	if err := h.testService.SetPublished(c.Request.Context(), claims.OrganizationID, testID, published); err != nil {
		h.failTestError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// FinishTest godoc
// POST /api/v1/organizer/tests/:test_id/finish
// Closes the test and releases withheld results.
func (h *TestHandler) FinishTest(c *gin.Context) {
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

	if err := h.testService.FinishTest(c.Request.Context(), claims.OrganizationID, testID); err != nil {
		h.failTestError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// DeleteTest godoc
// DELETE /api/v1/organizer/tests/:test_id
func (h *TestHandler) DeleteTest(c *gin.Context) {
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

	if err := h.testService.DeleteTest(c.Request.Context(), claims.OrganizationID, testID); err != nil {
		h.failTestError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// AddSection godoc
// POST /api/v1/organizer/tests/:test_id/sections
func (h *TestHandler) AddSection(c *gin.Context) {
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

	var req model.CreateSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section, err := h.testService.AddSection(c.Request.Context(), claims.OrganizationID, testID, &req)
	if err != nil {
		h.failTestError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"section": section})
}

// ListSections godoc
// GET /api/v1/organizer/tests/:test_id/sections
func (h *TestHandler) ListSections(c *gin.Context) {
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

	sections, err := h.testService.ListSections(c.Request.Context(), claims.OrganizationID, testID)
	if err != nil {
		h.failTestError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sections": sections})
}

// DeleteSection godoc
// DELETE /api/v1/organizer/tests/:test_id/sections/:section_id
func (h *TestHandler) DeleteSection(c *gin.Context) {
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
	sectionID, err := uuid.Parse(c.Param("section_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.testService.DeleteSection(c.Request.Context(), claims.OrganizationID, testID, sectionID); err != nil {
		h.failTestError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// AddQuestion godoc
// POST /api/v1/organizer/sections/:section_id/questions
func (h *TestHandler) AddQuestion(c *gin.Context) {
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

	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section, err := h.testService.GetOwnedSection(c.Request.Context(), claims.OrganizationID, sectionID)
	if err != nil {
		h.failTestError(c, err)
		return
	}

	question, err := h.questionService.AddQuestion(c.Request.Context(), section.ID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// ReorderQuestions godoc
// PUT /api/v1/organizer/sections/:section_id/questions/order
func (h *TestHandler) ReorderQuestions(c *gin.Context) {
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

	var req model.ReorderQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section, err := h.testService.GetOwnedSection(c.Request.Context(), claims.OrganizationID, sectionID)
	if err != nil {
		h.failTestError(c, err)
		return
	}

	if err := h.questionService.Reorder(c.Request.Context(), section.ID, &req); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// DeleteQuestion godoc
// DELETE /api/v1/organizer/sections/:section_id/questions/:question_id
func (h *TestHandler) DeleteQuestion(c *gin.Context) {
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
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	section, err := h.testService.GetOwnedSection(c.Request.Context(), claims.OrganizationID, sectionID)
	if err != nil {
		h.failTestError(c, err)
		return
	}

	if err := h.questionService.DeleteQuestion(c.Request.Context(), section.ID, questionID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// failTestError maps test ownership errors onto HTTP responses.
func (h *TestHandler) failTestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTestNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotTestOwner):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
