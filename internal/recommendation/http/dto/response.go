package dto

import (
	"time"

	recommendationDomain "github.com/allisson/piivault/internal/recommendation/domain"
)

// RecommendationResponse represents a recommendation in API responses.
type RecommendationResponse struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	PhoneNumber  string    `json:"phone_number"`
	City         string    `json:"city"`
	ReferralName string    `json:"referral_name,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListRecommendationsResponse represents a page of recommendations.
type ListRecommendationsResponse struct {
	Data []RecommendationResponse `json:"data"`
}

// MapRecommendationToResponse converts a domain recommendation to an API response.
func MapRecommendationToResponse(recommendation *recommendationDomain.Recommendation) RecommendationResponse {
	return RecommendationResponse{
		ID:           recommendation.ID.String(),
		FullName:     recommendation.FullName,
		PhoneNumber:  recommendation.PhoneNumber,
		City:         recommendation.City,
		ReferralName: recommendation.ReferralName,
		CreatedBy:    recommendation.CreatedBy,
		CreatedAt:    recommendation.CreatedAt,
		UpdatedAt:    recommendation.UpdatedAt,
	}
}

// MapRecommendationsToListResponse converts domain recommendations to a list response.
func MapRecommendationsToListResponse(
	recommendations []*recommendationDomain.Recommendation,
) ListRecommendationsResponse {
	data := make([]RecommendationResponse, 0, len(recommendations))
	for _, recommendation := range recommendations {
		data = append(data, MapRecommendationToResponse(recommendation))
	}
	return ListRecommendationsResponse{Data: data}
}
