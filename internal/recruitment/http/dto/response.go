package dto

import (
	"time"

	recruitmentDomain "github.com/allisson/piivault/internal/recruitment/domain"
)

// RecruitmentResponse represents a candidate in API responses. Absent contacts are
// omitted.
type RecruitmentResponse struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListRecruitmentResponse represents a page of candidates.
type ListRecruitmentResponse struct {
	Data []RecruitmentResponse `json:"data"`
}

// MapRecruitmentToResponse converts a domain candidate to an API response.
func MapRecruitmentToResponse(r *recruitmentDomain.Recruitment) RecruitmentResponse {
	return RecruitmentResponse{
		ID:          r.ID.String(),
		FullName:    r.FullName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Description: r.Description,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// MapRecruitmentToListResponse converts domain candidates to a list response.
func MapRecruitmentToListResponse(items []*recruitmentDomain.Recruitment) ListRecruitmentResponse {
	data := make([]RecruitmentResponse, 0, len(items))
	for _, item := range items {
		data = append(data, MapRecruitmentToResponse(item))
	}
	return ListRecruitmentResponse{Data: data}
}
