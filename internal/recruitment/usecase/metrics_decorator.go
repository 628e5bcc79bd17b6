package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/metrics"
	recruitmentDomain "github.com/allisson/piivault/internal/recruitment/domain"
)

// recruitmentUseCaseWithMetrics decorates RecruitmentUseCase with metrics instrumentation.
type recruitmentUseCaseWithMetrics struct {
	next    RecruitmentUseCase
	metrics metrics.BusinessMetrics
}

// NewRecruitmentUseCaseWithMetrics wraps a RecruitmentUseCase with metrics recording.
func NewRecruitmentUseCaseWithMetrics(useCase RecruitmentUseCase, m metrics.BusinessMetrics) RecruitmentUseCase {
	return &recruitmentUseCaseWithMetrics{next: useCase, metrics: m}
}

func (r *recruitmentUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "recruitment", operation, status)
	r.metrics.RecordDuration(ctx, "recruitment", operation, time.Since(start), status)
}

func (r *recruitmentUseCaseWithMetrics) Create(
	ctx context.Context,
	input *recruitmentDomain.CreateRecruitmentInput,
) (*recruitmentDomain.Recruitment, error) {
	start := time.Now()
	out, err := r.next.Create(ctx, input)
	r.record(ctx, "recruitment_create", start, err)
	return out, err
}

func (r *recruitmentUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*recruitmentDomain.Recruitment, error) {
	start := time.Now()
	out, err := r.next.Get(ctx, id)
	r.record(ctx, "recruitment_get", start, err)
	return out, err
}

func (r *recruitmentUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*recruitmentDomain.Recruitment, error) {
	start := time.Now()
	out, err := r.next.List(ctx, offset, limit)
	r.record(ctx, "recruitment_list", start, err)
	return out, err
}

func (r *recruitmentUseCaseWithMetrics) Update(
	ctx context.Context,
	id uuid.UUID,
	input *recruitmentDomain.UpdateRecruitmentInput,
) (*recruitmentDomain.Recruitment, error) {
	start := time.Now()
	out, err := r.next.Update(ctx, id, input)
	r.record(ctx, "recruitment_update", start, err)
	return out, err
}

func (r *recruitmentUseCaseWithMetrics) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := r.next.Delete(ctx, id)
	r.record(ctx, "recruitment_delete", start, err)
	return err
}

func (r *recruitmentUseCaseWithMetrics) FindByEmail(
	ctx context.Context,
	email string,
) (*recruitmentDomain.Recruitment, error) {
	start := time.Now()
	out, err := r.next.FindByEmail(ctx, email)
	r.record(ctx, "recruitment_find_by_email", start, err)
	return out, err
}

func (r *recruitmentUseCaseWithMetrics) FindByPhone(
	ctx context.Context,
	phone string,
) (*recruitmentDomain.Recruitment, error) {
	start := time.Now()
	out, err := r.next.FindByPhone(ctx, phone)
	r.record(ctx, "recruitment_find_by_phone", start, err)
	return out, err
}
