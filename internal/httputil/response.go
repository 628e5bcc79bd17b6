// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/piivault/internal/errors"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string // empty echoes the error text
}

// errorMappings is checked in order. ErrIntegrity comes first because an integrity
// failure may wrap ErrNotFound (unknown key version) and must not read as a miss.
var errorMappings = []errorMapping{
	{apperrors.ErrIntegrity, http.StatusInternalServerError, "data_integrity_error", "Stored data failed an integrity check"},
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	{apperrors.ErrLocked, http.StatusLocked, "locked", "The resource is busy, retry later"},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden", "You don't have permission to access this resource"},
}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON response.
// Unmapped errors become a 500 without details.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	body := ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}
	for _, m := range errorMappings {
		if !apperrors.Is(err, m.target) {
			continue
		}
		status = m.status
		body = ErrorResponse{Error: m.code, Message: m.message}
		if body.Message == "" {
			body.Message = err.Error()
		}
		break
	}

	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "request failed",
			slog.Int("status_code", status),
			slog.String("error_code", body.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(status, body)
}

// HandleValidationErrorGin writes a 422 response for a request that failed binding or
// validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
