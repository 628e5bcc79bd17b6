package domain

import (
	"github.com/allisson/piivault/internal/errors"
)

// PII error definitions.
var (
	// ErrNormalization indicates a value failed field-specific canonicalization. It is
	// returned before any cryptographic work is done.
	ErrNormalization = errors.Wrap(errors.ErrInvalidInput, "value failed normalization")

	// ErrDuplicateValue indicates the blind index already exists in the uniqueness scope.
	ErrDuplicateValue = errors.Wrap(errors.ErrConflict, "value already exists")

	// ErrNotFound indicates no row holds the looked-up value.
	ErrNotFound = errors.Wrap(errors.ErrNotFound, "value not found")

	// ErrUnknownTable indicates a table name that is not registered.
	ErrUnknownTable = errors.Wrap(errors.ErrInvalidInput, "unknown table")

	// ErrUnknownField indicates a field that is not registered for the table.
	ErrUnknownField = errors.Wrap(errors.ErrInvalidInput, "unknown field")

	// ErrFieldNotIndexed indicates a lookup on an encrypt-only field.
	ErrFieldNotIndexed = errors.Wrap(errors.ErrInvalidInput, "field has no blind index")
)
