// Package http provides HTTP handlers for user dates.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/httputil"
	"github.com/allisson/piivault/internal/userdate/http/dto"
	userDateUseCase "github.com/allisson/piivault/internal/userdate/usecase"
	customValidation "github.com/allisson/piivault/internal/validation"
)

// UserDateHandler handles HTTP requests for meetings with clients.
type UserDateHandler struct {
	userDateUseCase userDateUseCase.UserDateUseCase
	logger          *slog.Logger
}

// NewUserDateHandler creates a new user date handler.
func NewUserDateHandler(userDateUseCase userDateUseCase.UserDateUseCase, logger *slog.Logger) *UserDateHandler {
	return &UserDateHandler{
		userDateUseCase: userDateUseCase,
		logger:          logger,
	}
}

// CreateHandler creates a user date.
// POST /v1/user-dates - Returns 201 Created.
func (h *UserDateHandler) CreateHandler(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	userDate, err := h.userDateUseCase.Create(c.Request.Context(), req.ToCreateInput(httputil.Actor(c)))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUserDateToResponse(userDate))
}

// GetHandler retrieves a user date by id.
// GET /v1/user-dates/:id
func (h *UserDateHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	userDate, err := h.userDateUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserDateToResponse(userDate))
}

// ListHandler lists user dates in a meet date window, earliest first.
// GET /v1/user-dates?from=2026-01-01T00:00:00Z&to=2026-02-01T00:00:00Z&offset=0&limit=20
func (h *UserDateHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	from, err := parseBound(c, "from")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	to, err := parseBound(c, "to")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("from must be before to"), h.logger)
		return
	}

	userDates, err := h.userDateUseCase.List(c.Request.Context(), from, to, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserDatesToListResponse(userDates))
}

// UpdateHandler replaces the data of a user date.
// PUT /v1/user-dates/:id
func (h *UserDateHandler) UpdateHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	req, ok := h.bind(c)
	if !ok {
		return
	}

	userDate, err := h.userDateUseCase.Update(c.Request.Context(), id, req.ToUpdateInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserDateToResponse(userDate))
}

// StateHandler marks a user date as completed or reopens it.
// PUT /v1/user-dates/:id/state
func (h *UserDateHandler) StateHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	userDate, err := h.userDateUseCase.SetCompleted(c.Request.Context(), id, *req.IsCompleted)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserDateToResponse(userDate))
}

// DeleteHandler deletes a user date.
// DELETE /v1/user-dates/:id - Returns 204 No Content.
func (h *UserDateHandler) DeleteHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.userDateUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// SearchHandler lists every meeting with the client holding a phone number.
// GET /v1/user-dates/search?phone=...
func (h *UserDateHandler) SearchHandler(c *gin.Context) {
	phone := strings.TrimSpace(c.Query("phone"))
	if phone == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("phone is required"), h.logger)
		return
	}

	userDates, err := h.userDateUseCase.FindByPhone(c.Request.Context(), phone)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserDatesToListResponse(userDates))
}

func (h *UserDateHandler) bind(c *gin.Context) (*dto.UserDateRequest, bool) {
	var req dto.UserDateRequest
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

func (h *UserDateHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid user date id"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// parseBound reads an optional RFC 3339 time query parameter.
func parseBound(c *gin.Context, name string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 time", name)
	}
	return t.UTC(), nil
}
