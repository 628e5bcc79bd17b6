// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	recruitmentDomain "github.com/allisson/piivault/internal/recruitment/domain"
	customValidation "github.com/allisson/piivault/internal/validation"
)

// RecruitmentRequest contains the parameters for creating or replacing a candidate.
type RecruitmentRequest struct {
	FullName    string  `json:"full_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Description string  `json:"description"`
}

// Validate checks the request. The use case enforces that one contact is present.
func (r *RecruitmentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FullName, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.Email, customValidation.Email, validation.Length(0, 254)),
		validation.Field(&r.PhoneNumber, customValidation.PhoneChars),
		validation.Field(&r.Description, validation.Length(0, 4000)),
	)
}

// ToCreateInput converts the request into use case input.
func (r *RecruitmentRequest) ToCreateInput(createdBy string) *recruitmentDomain.CreateRecruitmentInput {
	return &recruitmentDomain.CreateRecruitmentInput{
		FullName:    r.FullName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Description: r.Description,
		CreatedBy:   createdBy,
	}
}

// ToUpdateInput converts the request into use case input.
func (r *RecruitmentRequest) ToUpdateInput() *recruitmentDomain.UpdateRecruitmentInput {
	return &recruitmentDomain.UpdateRecruitmentInput{
		FullName:    r.FullName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Description: r.Description,
	}
}
