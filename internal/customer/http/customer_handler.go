// Package http provides HTTP handlers for customer records.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	customerDomain "github.com/allisson/piivault/internal/customer/domain"
	"github.com/allisson/piivault/internal/customer/http/dto"
	customerUseCase "github.com/allisson/piivault/internal/customer/usecase"
	"github.com/allisson/piivault/internal/httputil"
	customValidation "github.com/allisson/piivault/internal/validation"
)

// CustomerHandler handles HTTP requests for customer records.
type CustomerHandler struct {
	customerUseCase customerUseCase.CustomerUseCase
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(customerUseCase customerUseCase.CustomerUseCase, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerUseCase: customerUseCase,
		logger:          logger,
	}
}

// CreateHandler creates a customer.
// POST /v1/customers - Returns 201 Created, or 409 Conflict when the email or phone is
// already registered.
func (h *CustomerHandler) CreateHandler(c *gin.Context) {
	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	customer, err := h.customerUseCase.Create(c.Request.Context(), req.ToCreateInput(httputil.Actor(c)))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCustomerToResponse(customer))
}

// GetHandler retrieves a customer by id.
// GET /v1/customers/:id
func (h *CustomerHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	customer, err := h.customerUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCustomerToResponse(customer))
}

// ListHandler lists customers, newest first.
// GET /v1/customers?offset=0&limit=50
func (h *CustomerHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	customers, err := h.customerUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCustomersToListResponse(customers))
}

// UpdateHandler replaces the data of a customer.
// PUT /v1/customers/:id
func (h *CustomerHandler) UpdateHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	customer, err := h.customerUseCase.Update(c.Request.Context(), id, req.ToUpdateInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCustomerToResponse(customer))
}

// DeleteHandler deletes a customer.
// DELETE /v1/customers/:id - Returns 204 No Content.
func (h *CustomerHandler) DeleteHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.customerUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// SearchHandler finds a customer by exact email or phone number.
// GET /v1/customers/search?email=... or ?phone=...
func (h *CustomerHandler) SearchHandler(c *gin.Context) {
	field, value, ok := httputil.ContactQuery(c)
	if !ok {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("exactly one of email or phone is required"), h.logger)
		return
	}

	var customer *customerDomain.Customer
	var err error
	if field == "email" {
		customer, err = h.customerUseCase.FindByEmail(c.Request.Context(), value)
	} else {
		customer, err = h.customerUseCase.FindByPhone(c.Request.Context(), value)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCustomerToResponse(customer))
}

func (h *CustomerHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid customer id"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}
