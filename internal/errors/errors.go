// Package errors provides the domain error vocabulary shared by every module.
//
// Use cases and repositories wrap one of these sentinels so callers can tell a business
// rejection ("value already exists") from a system malfunction or a data integrity
// problem without inspecting messages. Handlers map them to HTTP status codes and the
// CLI maps them to exit messages.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate blind index).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrLocked indicates the resource is temporarily held by another operation and the
	// caller should retry later.
	ErrLocked = errors.New("locked")

	// ErrIntegrity indicates stored data failed an integrity check or references key
	// material that no longer exists. It is never a user error.
	ErrIntegrity = errors.New("data integrity failure")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
