// Package domain defines the customer recommendation entity: a prospective customer
// referred by someone the agency already knows.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/errors"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

// ErrRecommendationNotFound indicates no recommendation matches.
var ErrRecommendationNotFound = errors.Wrap(errors.ErrNotFound, "recommendation not found")

// Recommendation is a referred person with decrypted phone number and city.
type Recommendation struct {
	ID           uuid.UUID
	FullName     string
	PhoneNumber  string
	City         string
	ReferralName string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RecommendationRecord is the stored form of a recommendation.
type RecommendationRecord struct {
	ID           uuid.UUID
	FullName     string
	PhoneNumber  *piiDomain.FieldRecord
	City         *piiDomain.FieldRecord
	ReferralName string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Fields returns the sensitive records in table field order.
func (r *RecommendationRecord) Fields() []*piiDomain.FieldRecord {
	return []*piiDomain.FieldRecord{r.PhoneNumber, r.City}
}

// CreateRecommendationInput contains the data of a new recommendation.
type CreateRecommendationInput struct {
	FullName     string
	PhoneNumber  string
	City         string
	ReferralName string
	CreatedBy    string
}

// UpdateRecommendationInput contains the replacement data of a recommendation.
type UpdateRecommendationInput struct {
	FullName     string
	PhoneNumber  string
	City         string
	ReferralName string
}
