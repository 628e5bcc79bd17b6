// Package http provides HTTP handlers for candidates contacted during hiring.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	recruitmentDomain "github.com/allisson/piivault/internal/recruitment/domain"
	"github.com/allisson/piivault/internal/recruitment/http/dto"
	recruitmentUseCase "github.com/allisson/piivault/internal/recruitment/usecase"
	"github.com/allisson/piivault/internal/httputil"
	customValidation "github.com/allisson/piivault/internal/validation"
)

// RecruitmentHandler handles HTTP requests for candidates contacted during hiring.
type RecruitmentHandler struct {
	recruitmentUseCase recruitmentUseCase.RecruitmentUseCase
	logger          *slog.Logger
}

// NewRecruitmentHandler creates a new recruitment handler.
func NewRecruitmentHandler(recruitmentUseCase recruitmentUseCase.RecruitmentUseCase, logger *slog.Logger) *RecruitmentHandler {
	return &RecruitmentHandler{
		recruitmentUseCase: recruitmentUseCase,
		logger:          logger,
	}
}

// CreateHandler creates a candidate record.
// POST /v1/recruitment - Returns 201 Created, or 409 Conflict when a present email or phone
// is already registered, 422 when both are absent.
func (h *RecruitmentHandler) CreateHandler(c *gin.Context) {
	var req dto.RecruitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	recruitment, err := h.recruitmentUseCase.Create(c.Request.Context(), req.ToCreateInput(httputil.Actor(c)))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRecruitmentToResponse(recruitment))
}

// GetHandler retrieves a candidate by id.
// GET /v1/recruitment/:id
func (h *RecruitmentHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	recruitment, err := h.recruitmentUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecruitmentToResponse(recruitment))
}

// ListHandler lists candidates, newest first.
// GET /v1/recruitment?offset=0&limit=50
func (h *RecruitmentHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	recruitments, err := h.recruitmentUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecruitmentToListResponse(recruitments))
}

// UpdateHandler replaces the data of a candidate.
// PUT /v1/recruitment/:id
func (h *RecruitmentHandler) UpdateHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.RecruitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	recruitment, err := h.recruitmentUseCase.Update(c.Request.Context(), id, req.ToUpdateInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecruitmentToResponse(recruitment))
}

// DeleteHandler deletes a candidate.
// DELETE /v1/recruitment/:id - Returns 204 No Content.
func (h *RecruitmentHandler) DeleteHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.recruitmentUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// SearchHandler finds a candidate by exact email or phone number.
// GET /v1/recruitment/search?email=... or ?phone=...
func (h *RecruitmentHandler) SearchHandler(c *gin.Context) {
	field, value, ok := httputil.ContactQuery(c)
	if !ok {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("exactly one of email or phone is required"), h.logger)
		return
	}

	var recruitment *recruitmentDomain.Recruitment
	var err error
	if field == "email" {
		recruitment, err = h.recruitmentUseCase.FindByEmail(c.Request.Context(), value)
	} else {
		recruitment, err = h.recruitmentUseCase.FindByPhone(c.Request.Context(), value)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecruitmentToResponse(recruitment))
}

func (h *RecruitmentHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid recruitment id"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}
