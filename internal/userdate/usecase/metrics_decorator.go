package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/metrics"
	userDateDomain "github.com/allisson/piivault/internal/userdate/domain"
)

// userDateUseCaseWithMetrics decorates UserDateUseCase with metrics instrumentation.
type userDateUseCaseWithMetrics struct {
	next    UserDateUseCase
	metrics metrics.BusinessMetrics
}

// NewUserDateUseCaseWithMetrics wraps a UserDateUseCase with metrics recording.
func NewUserDateUseCaseWithMetrics(useCase UserDateUseCase, m metrics.BusinessMetrics) UserDateUseCase {
	return &userDateUseCaseWithMetrics{next: useCase, metrics: m}
}

func (u *userDateUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "user_date", operation, status)
	u.metrics.RecordDuration(ctx, "user_date", operation, time.Since(start), status)
}

func (u *userDateUseCaseWithMetrics) Create(
	ctx context.Context,
	input *userDateDomain.CreateUserDateInput,
) (*userDateDomain.UserDate, error) {
	start := time.Now()
	userDate, err := u.next.Create(ctx, input)
	u.record(ctx, "user_date_create", start, err)
	return userDate, err
}

func (u *userDateUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*userDateDomain.UserDate, error) {
	start := time.Now()
	userDate, err := u.next.Get(ctx, id)
	u.record(ctx, "user_date_get", start, err)
	return userDate, err
}

func (u *userDateUseCaseWithMetrics) List(
	ctx context.Context,
	from, to time.Time,
	offset, limit int,
) ([]*userDateDomain.UserDate, error) {
	start := time.Now()
	userDates, err := u.next.List(ctx, from, to, offset, limit)
	u.record(ctx, "user_date_list", start, err)
	return userDates, err
}

func (u *userDateUseCaseWithMetrics) Update(
	ctx context.Context,
	id uuid.UUID,
	input *userDateDomain.UpdateUserDateInput,
) (*userDateDomain.UserDate, error) {
	start := time.Now()
	userDate, err := u.next.Update(ctx, id, input)
	u.record(ctx, "user_date_update", start, err)
	return userDate, err
}

func (u *userDateUseCaseWithMetrics) SetCompleted(
	ctx context.Context,
	id uuid.UUID,
	completed bool,
) (*userDateDomain.UserDate, error) {
	start := time.Now()
	userDate, err := u.next.SetCompleted(ctx, id, completed)
	u.record(ctx, "user_date_set_completed", start, err)
	return userDate, err
}

func (u *userDateUseCaseWithMetrics) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := u.next.Delete(ctx, id)
	u.record(ctx, "user_date_delete", start, err)
	return err
}

func (u *userDateUseCaseWithMetrics) FindByPhone(ctx context.Context, phone string) ([]*userDateDomain.UserDate, error) {
	start := time.Now()
	userDates, err := u.next.FindByPhone(ctx, phone)
	u.record(ctx, "user_date_find_by_phone", start, err)
	return userDates, err
}
