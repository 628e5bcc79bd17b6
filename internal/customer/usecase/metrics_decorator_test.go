package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	customerDomain "github.com/allisson/piivault/internal/customer/domain"
	"github.com/allisson/piivault/internal/customer/usecase"
	usecaseMocks "github.com/allisson/piivault/internal/customer/usecase/mocks"
	metricsMocks "github.com/allisson/piivault/internal/metrics/mocks"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

func TestCustomerUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Create duplicate", func(t *testing.T) {
		next := usecaseMocks.NewMockCustomerUseCase(t)
		m := &metricsMocks.MockBusinessMetrics{}
		uc := usecase.NewCustomerUseCaseWithMetrics(next, m)

		input := &customerDomain.CreateCustomerInput{Email: "a@b.co", PhoneNumber: "+36201234567"}
		next.On("Create", ctx, input).Return(nil, piiDomain.ErrDuplicateValue).Once()
		m.ExpectOperation("customer", "customer_create", "error")

		_, err := uc.Create(ctx, input)
		assert.ErrorIs(t, err, piiDomain.ErrDuplicateValue)
		m.AssertExpectations(t)
	})

	t.Run("FindByPhone success", func(t *testing.T) {
		next := usecaseMocks.NewMockCustomerUseCase(t)
		m := &metricsMocks.MockBusinessMetrics{}
		uc := usecase.NewCustomerUseCaseWithMetrics(next, m)

		customer := &customerDomain.Customer{ID: uuid.Must(uuid.NewV7())}
		next.On("FindByPhone", ctx, "+36201234567").Return(customer, nil).Once()
		m.ExpectOperation("customer", "customer_find_by_phone", "success")

		got, err := uc.FindByPhone(ctx, "+36201234567")
		assert.NoError(t, err)
		assert.Equal(t, customer, got)
		m.AssertExpectations(t)
	})

	t.Run("Delete not found", func(t *testing.T) {
		next := usecaseMocks.NewMockCustomerUseCase(t)
		m := &metricsMocks.MockBusinessMetrics{}
		uc := usecase.NewCustomerUseCaseWithMetrics(next, m)

		id := uuid.Must(uuid.NewV7())
		next.On("Delete", ctx, id).Return(customerDomain.ErrCustomerNotFound).Once()
		m.ExpectOperation("customer", "customer_delete", "error")

		assert.ErrorIs(t, uc.Delete(ctx, id), customerDomain.ErrCustomerNotFound)
		m.AssertExpectations(t)
	})
}
