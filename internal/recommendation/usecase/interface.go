// Package usecase implements customer recommendation management. Each referred phone
// number may be recommended once.
package usecase

import (
	"context"

	"github.com/google/uuid"

	recommendationDomain "github.com/allisson/piivault/internal/recommendation/domain"
)

// RecommendationRepository persists recommendation records.
type RecommendationRepository interface {
	// Create inserts a record. A duplicate phone hash returns ErrDuplicateValue.
	Create(ctx context.Context, record *recommendationDomain.RecommendationRecord) error

	// Get returns a record by id or ErrRecommendationNotFound.
	Get(ctx context.Context, id uuid.UUID) (*recommendationDomain.RecommendationRecord, error)

	List(ctx context.Context, offset, limit int) ([]*recommendationDomain.RecommendationRecord, error)
	Update(ctx context.Context, record *recommendationDomain.RecommendationRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecommendationUseCase manages customer recommendations.
type RecommendationUseCase interface {
	// Create returns ErrDuplicateValue when the phone number was already recommended,
	// whichever key version it was stored under.
	Create(
		ctx context.Context,
		input *recommendationDomain.CreateRecommendationInput,
	) (*recommendationDomain.Recommendation, error)

	Get(ctx context.Context, id uuid.UUID) (*recommendationDomain.Recommendation, error)

	// List skips records that fail to decrypt and logs their ids.
	List(ctx context.Context, offset, limit int) ([]*recommendationDomain.Recommendation, error)

	Update(
		ctx context.Context,
		id uuid.UUID,
		input *recommendationDomain.UpdateRecommendationInput,
	) (*recommendationDomain.Recommendation, error)

	Delete(ctx context.Context, id uuid.UUID) error
	FindByPhone(ctx context.Context, phone string) (*recommendationDomain.Recommendation, error)
}
