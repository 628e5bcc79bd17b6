package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/metrics"
	recommendationDomain "github.com/allisson/piivault/internal/recommendation/domain"
)

// recommendationUseCaseWithMetrics decorates RecommendationUseCase with metrics
// instrumentation.
type recommendationUseCaseWithMetrics struct {
	next    RecommendationUseCase
	metrics metrics.BusinessMetrics
}

// NewRecommendationUseCaseWithMetrics wraps a RecommendationUseCase with metrics recording.
func NewRecommendationUseCaseWithMetrics(useCase RecommendationUseCase, m metrics.BusinessMetrics) RecommendationUseCase {
	return &recommendationUseCaseWithMetrics{next: useCase, metrics: m}
}

func (r *recommendationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "recommendation", operation, status)
	r.metrics.RecordDuration(ctx, "recommendation", operation, time.Since(start), status)
}

func (r *recommendationUseCaseWithMetrics) Create(
	ctx context.Context,
	input *recommendationDomain.CreateRecommendationInput,
) (*recommendationDomain.Recommendation, error) {
	start := time.Now()
	recommendation, err := r.next.Create(ctx, input)
	r.record(ctx, "recommendation_create", start, err)
	return recommendation, err
}

func (r *recommendationUseCaseWithMetrics) Get(
	ctx context.Context,
	id uuid.UUID,
) (*recommendationDomain.Recommendation, error) {
	start := time.Now()
	recommendation, err := r.next.Get(ctx, id)
	r.record(ctx, "recommendation_get", start, err)
	return recommendation, err
}

func (r *recommendationUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*recommendationDomain.Recommendation, error) {
	start := time.Now()
	recommendations, err := r.next.List(ctx, offset, limit)
	r.record(ctx, "recommendation_list", start, err)
	return recommendations, err
}

func (r *recommendationUseCaseWithMetrics) Update(
	ctx context.Context,
	id uuid.UUID,
	input *recommendationDomain.UpdateRecommendationInput,
) (*recommendationDomain.Recommendation, error) {
	start := time.Now()
	recommendation, err := r.next.Update(ctx, id, input)
	r.record(ctx, "recommendation_update", start, err)
	return recommendation, err
}

func (r *recommendationUseCaseWithMetrics) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := r.next.Delete(ctx, id)
	r.record(ctx, "recommendation_delete", start, err)
	return err
}

func (r *recommendationUseCaseWithMetrics) FindByPhone(
	ctx context.Context,
	phone string,
) (*recommendationDomain.Recommendation, error) {
	start := time.Now()
	recommendation, err := r.next.FindByPhone(ctx, phone)
	r.record(ctx, "recommendation_find_by_phone", start, err)
	return recommendation, err
}
