// Package http provides HTTP handlers for customer recommendations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/httputil"
	"github.com/allisson/piivault/internal/recommendation/http/dto"
	recommendationUseCase "github.com/allisson/piivault/internal/recommendation/usecase"
	customValidation "github.com/allisson/piivault/internal/validation"
)

// RecommendationHandler handles HTTP requests for customer recommendations.
type RecommendationHandler struct {
	recommendationUseCase recommendationUseCase.RecommendationUseCase
	logger                *slog.Logger
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(
	recommendationUseCase recommendationUseCase.RecommendationUseCase,
	logger *slog.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationUseCase: recommendationUseCase,
		logger:                logger,
	}
}

// CreateHandler creates a recommendation.
// POST /v1/recommendations - Returns 201 Created, or 409 Conflict when the phone number
// was already recommended.
func (h *RecommendationHandler) CreateHandler(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	recommendation, err := h.recommendationUseCase.Create(c.Request.Context(), req.ToCreateInput(httputil.Actor(c)))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRecommendationToResponse(recommendation))
}

// GetHandler retrieves a recommendation by id.
// GET /v1/recommendations/:id
func (h *RecommendationHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	recommendation, err := h.recommendationUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecommendationToResponse(recommendation))
}

// ListHandler lists recommendations, newest first.
// GET /v1/recommendations?offset=0&limit=20
func (h *RecommendationHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	recommendations, err := h.recommendationUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecommendationsToListResponse(recommendations))
}

// UpdateHandler replaces the data of a recommendation.
// PUT /v1/recommendations/:id
func (h *RecommendationHandler) UpdateHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	req, ok := h.bind(c)
	if !ok {
		return
	}

	recommendation, err := h.recommendationUseCase.Update(c.Request.Context(), id, req.ToUpdateInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecommendationToResponse(recommendation))
}

// DeleteHandler deletes a recommendation.
// DELETE /v1/recommendations/:id - Returns 204 No Content.
func (h *RecommendationHandler) DeleteHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.recommendationUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// SearchHandler finds the recommendation of a phone number.
// GET /v1/recommendations/search?phone=...
func (h *RecommendationHandler) SearchHandler(c *gin.Context) {
	phone := strings.TrimSpace(c.Query("phone"))
	if phone == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("phone is required"), h.logger)
		return
	}

	recommendation, err := h.recommendationUseCase.FindByPhone(c.Request.Context(), phone)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecommendationToResponse(recommendation))
}

func (h *RecommendationHandler) bind(c *gin.Context) (*dto.RecommendationRequest, bool) {
	var req dto.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return nil, false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return nil, false
	}
	return &req, true
}

func (h *RecommendationHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid recommendation id"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}
