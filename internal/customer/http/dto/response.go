package dto

import (
	"time"

	customerDomain "github.com/allisson/piivault/internal/customer/domain"
)

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListCustomersResponse represents a page of customers.
type ListCustomersResponse struct {
	Data []CustomerResponse `json:"data"`
}

// MapCustomerToResponse converts a domain customer to an API response.
func MapCustomerToResponse(customer *customerDomain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          customer.ID.String(),
		FullName:    customer.FullName,
		Email:       customer.Email,
		PhoneNumber: customer.PhoneNumber,
		Address:     customer.Address,
		Comment:     customer.Comment,
		CreatedBy:   customer.CreatedBy,
		CreatedAt:   customer.CreatedAt,
		UpdatedAt:   customer.UpdatedAt,
	}
}

// MapCustomersToListResponse converts a slice of domain customers to a list response.
func MapCustomersToListResponse(customers []*customerDomain.Customer) ListCustomersResponse {
	data := make([]CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		data = append(data, MapCustomerToResponse(customer))
	}
	return ListCustomersResponse{Data: data}
}
