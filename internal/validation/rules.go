// Package validation provides the jellydator/validation rules shared by request DTOs
// and the PII normalizers.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/piivault/internal/errors"
)

var (
	emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

	// phoneCharsRegex accepts the characters people type in phone numbers. Whether the
	// digits form a valid number is decided by PII normalization.
	phoneCharsRegex = regexp.MustCompile(`^\+?[0-9 ()./\-]{6,32}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates an email address case-insensitively, ignoring surrounding spaces.
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(strings.ToLower(strings.TrimSpace(s)))
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// PhoneChars validates that a string only contains phone number characters.
var PhoneChars = validation.NewStringRuleWithError(
	func(s string) bool {
		return phoneCharsRegex.MatchString(strings.TrimSpace(s))
	},
	validation.NewError("validation_phone_format", "must be a phone number"),
)

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
