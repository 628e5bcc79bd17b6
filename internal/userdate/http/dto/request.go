// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	userDateDomain "github.com/allisson/piivault/internal/userdate/domain"
	customValidation "github.com/allisson/piivault/internal/validation"
)

// UserDateRequest contains the parameters for creating or replacing a user date.
type UserDateRequest struct {
	MeetDate     time.Time `json:"meet_date"`
	FullName     string    `json:"full_name"`
	PhoneNumber  string    `json:"phone_number"`
	MeetLocation string    `json:"meet_location"`
	MeetType     string    `json:"meet_type"`
}

func meetTypes() []any {
	out := make([]any, 0, len(userDateDomain.MeetTypes))
	for _, t := range userDateDomain.MeetTypes {
		out = append(out, string(t))
	}
	return out
}

// Validate checks if the user date request is valid.
func (r *UserDateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MeetDate, validation.Required),
		validation.Field(&r.FullName, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.PhoneNumber, validation.Required, customValidation.PhoneChars),
		validation.Field(&r.MeetLocation, validation.Length(0, 255)),
		validation.Field(&r.MeetType, validation.Required, validation.In(meetTypes()...)),
	)
}

// ToCreateInput converts the request into use case input.
func (r *UserDateRequest) ToCreateInput(createdBy string) *userDateDomain.CreateUserDateInput {
	return &userDateDomain.CreateUserDateInput{
		MeetDate:     r.MeetDate,
		FullName:     r.FullName,
		PhoneNumber:  r.PhoneNumber,
		MeetLocation: r.MeetLocation,
		MeetType:     userDateDomain.MeetType(r.MeetType),
		CreatedBy:    createdBy,
	}
}

// ToUpdateInput converts the request into use case input.
func (r *UserDateRequest) ToUpdateInput() *userDateDomain.UpdateUserDateInput {
	return &userDateDomain.UpdateUserDateInput{
		MeetDate:     r.MeetDate,
		FullName:     r.FullName,
		PhoneNumber:  r.PhoneNumber,
		MeetLocation: r.MeetLocation,
		MeetType:     userDateDomain.MeetType(r.MeetType),
	}
}

// StateRequest sets the completion state of a user date.
type StateRequest struct {
	IsCompleted *bool `json:"is_completed"`
}

// Validate checks if the state request is valid.
func (r *StateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.IsCompleted, validation.NotNil),
	)
}
