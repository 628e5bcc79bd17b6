// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	recommendationDomain "github.com/allisson/piivault/internal/recommendation/domain"
	customValidation "github.com/allisson/piivault/internal/validation"
)

// RecommendationRequest contains the parameters for creating or replacing a
// recommendation.
type RecommendationRequest struct {
	FullName     string `json:"full_name"`
	PhoneNumber  string `json:"phone_number"`
	City         string `json:"city"`
	ReferralName string `json:"referral_name"`
}

// Validate checks if the recommendation request is valid.
func (r *RecommendationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FullName, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.PhoneNumber, validation.Required, customValidation.PhoneChars),
		validation.Field(&r.City, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.ReferralName, validation.Length(0, 255)),
	)
}

// ToCreateInput converts the request into use case input.
func (r *RecommendationRequest) ToCreateInput(createdBy string) *recommendationDomain.CreateRecommendationInput {
	return &recommendationDomain.CreateRecommendationInput{
		FullName:     r.FullName,
		PhoneNumber:  r.PhoneNumber,
		City:         r.City,
		ReferralName: r.ReferralName,
		CreatedBy:    createdBy,
	}
}

// ToUpdateInput converts the request into use case input.
func (r *RecommendationRequest) ToUpdateInput() *recommendationDomain.UpdateRecommendationInput {
	return &recommendationDomain.UpdateRecommendationInput{
		FullName:     r.FullName,
		PhoneNumber:  r.PhoneNumber,
		City:         r.City,
		ReferralName: r.ReferralName,
	}
}
