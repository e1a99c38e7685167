package handler

import (
	"net/http"

	"github.com/evalyhq/evaly-backend/internal/middleware"
	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/evalyhq/evaly-backend/internal/repository"
	"github.com/evalyhq/evaly-backend/internal/response"
	"github.com/evalyhq/evaly-backend/internal/service"
	"github.com/evalyhq/evaly-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService     *service.AuthService
	participantRepo *repository.ParticipantRepository
	organizerRepo   *repository.OrganizerRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *service.AuthService,
	participantRepo *repository.ParticipantRepository,
	organizerRepo *repository.OrganizerRepository,
) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		participantRepo: participantRepo,
		organizerRepo:   organizerRepo,
	}
}

// ParticipantLogin godoc
// POST /api/v1/auth/participant/login
// Validates email + password, issues a JWT and registers the session JTI.
func (h *AuthHandler) ParticipantLogin(c *gin.Context) {
	var req model.ParticipantLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	participant, err := h.participantRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(participant.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateParticipantToken(c.Request.Context(), participant.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"participant": gin.H{
			"id":    participant.ID,
			"email": participant.Email,
			"name":  participant.Name,
		},
	})
}

// OrganizerLogin godoc
// POST /api/v1/auth/organizer/login
// Validates email + password, returns a JWT scoped to the organization.
func (h *AuthHandler) OrganizerLogin(c *gin.Context) {
	var req model.OrganizerLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	organizer, err := h.organizerRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(organizer.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateOrganizerToken(organizer.ID, organizer.OrganizationID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"organizer": gin.H{
			"id":              organizer.ID,
			"email":           organizer.Email,
			"name":            organizer.Name,
			"organization_id": organizer.OrganizationID,
		},
	})
}

// GetParticipantProfile godoc
// GET /api/v1/auth/participant/me
// Returns the profile of the currently authenticated participant.
func (h *AuthHandler) GetParticipantProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	participant, err := h.participantRepo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"participant": gin.H{
			"id":    participant.ID,
			"email": participant.Email,
			"name":  participant.Name,
		},
	})
}

// GetOrganizerProfile godoc
// GET /api/v1/auth/organizer/me
// Returns the profile of the currently authenticated organizer.
func (h *AuthHandler) GetOrganizerProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	organizer, err := h.organizerRepo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"organizer": gin.H{
			"id":              organizer.ID,
			"email":           organizer.Email,
			"name":            organizer.Name,
			"organization_id": organizer.OrganizationID,
		},
	})
}
