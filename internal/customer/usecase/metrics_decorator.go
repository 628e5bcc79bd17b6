package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	customerDomain "github.com/allisson/piivault/internal/customer/domain"
	"github.com/allisson/piivault/internal/metrics"
)

// customerUseCaseWithMetrics decorates CustomerUseCase with metrics instrumentation.
type customerUseCaseWithMetrics struct {
	next    CustomerUseCase
	metrics metrics.BusinessMetrics
}

// NewCustomerUseCaseWithMetrics wraps a CustomerUseCase with metrics recording.
func NewCustomerUseCaseWithMetrics(useCase CustomerUseCase, m metrics.BusinessMetrics) CustomerUseCase {
	return &customerUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *customerUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "customer", operation, status)
	c.metrics.RecordDuration(ctx, "customer", operation, time.Since(start), status)
}

// Create records metrics for customer creation.
func (c *customerUseCaseWithMetrics) Create(
	ctx context.Context,
	input *customerDomain.CreateCustomerInput,
) (*customerDomain.Customer, error) {
	start := time.Now()
	customer, err := c.next.Create(ctx, input)
	c.record(ctx, "customer_create", start, err)
	return customer, err
}

// Get records metrics for customer retrieval.
func (c *customerUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error) {
	start := time.Now()
	customer, err := c.next.Get(ctx, id)
	c.record(ctx, "customer_get", start, err)
	return customer, err
}

// List records metrics for customer listing.
func (c *customerUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*customerDomain.Customer, error) {
	start := time.Now()
	customers, err := c.next.List(ctx, offset, limit)
	c.record(ctx, "customer_list", start, err)
	return customers, err
}

// Update records metrics for customer updates.
func (c *customerUseCaseWithMetrics) Update(
	ctx context.Context,
	id uuid.UUID,
	input *customerDomain.UpdateCustomerInput,
) (*customerDomain.Customer, error) {
	start := time.Now()
	customer, err := c.next.Update(ctx, id, input)
	c.record(ctx, "customer_update", start, err)
	return customer, err
}

// Delete records metrics for customer deletion.
func (c *customerUseCaseWithMetrics) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := c.next.Delete(ctx, id)
	c.record(ctx, "customer_delete", start, err)
	return err
}

// FindByEmail records metrics for lookups by email.
func (c *customerUseCaseWithMetrics) FindByEmail(ctx context.Context, email string) (*customerDomain.Customer, error) {
	start := time.Now()
	customer, err := c.next.FindByEmail(ctx, email)
	c.record(ctx, "customer_find_by_email", start, err)
	return customer, err
}

// FindByPhone records metrics for lookups by phone number.
func (c *customerUseCaseWithMetrics) FindByPhone(ctx context.Context, phone string) (*customerDomain.Customer, error) {
	start := time.Now()
	customer, err := c.next.FindByPhone(ctx, phone)
	c.record(ctx, "customer_find_by_phone", start, err)
	return customer, err
}
