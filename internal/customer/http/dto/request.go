// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customerDomain "github.com/allisson/piivault/internal/customer/domain"
	customValidation "github.com/allisson/piivault/internal/validation"
)

// CustomerRequest contains the parameters for creating or replacing a customer.
type CustomerRequest struct {
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	Address     *string `json:"address"`
	Comment     string  `json:"comment"`
}

// Validate checks if the customer request is valid. Phone numbers are only checked for
// their characters here; the normalizer decides whether the digits form a number.
func (r *CustomerRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FullName, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.Email, validation.Required, customValidation.Email, validation.Length(3, 254)),
		validation.Field(&r.PhoneNumber, validation.Required, customValidation.PhoneChars),
		validation.Field(&r.Address, validation.NilOrNotEmpty, validation.Length(0, 512)),
		validation.Field(&r.Comment, validation.Length(0, 2000)),
	)
}

// ToCreateInput converts the request into use case input.
func (r *CustomerRequest) ToCreateInput(createdBy string) *customerDomain.CreateCustomerInput {
	return &customerDomain.CreateCustomerInput{
		FullName:    r.FullName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		Comment:     r.Comment,
		CreatedBy:   createdBy,
	}
}

// ToUpdateInput converts the request into use case input.
func (r *CustomerRequest) ToUpdateInput() *customerDomain.UpdateCustomerInput {
	return &customerDomain.UpdateCustomerInput{
		FullName:    r.FullName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		Comment:     r.Comment,
	}
}
