package validation

import (
	"errors"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/piivault/internal/errors"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "john.doe@example.com"},
		{value: "John.Doe+crm@Example.HU"},
		{value: "  ada@example.com "},
		{value: "", wantErr: false},
		{value: "john.doe", wantErr: true},
		{value: "john@doe", wantErr: true},
		{value: "john doe@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validation.Validate(tt.value, Email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPhoneChars(t *testing.T) {
	assert.NoError(t, validation.Validate("+36 20 123 4567", PhoneChars))
	assert.NoError(t, validation.Validate("06 (20) 123-4567", PhoneChars))
	assert.NoError(t, validation.Validate("0036201234567", PhoneChars))
	assert.Error(t, validation.Validate("call me", PhoneChars))
	assert.Error(t, validation.Validate("12", PhoneChars))
	assert.Error(t, validation.Validate("++3620", PhoneChars))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("x", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
}

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	err := WrapValidationError(errors.New("email: must be a valid email address"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "must be a valid email address")
}
