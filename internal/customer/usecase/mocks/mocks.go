// Package mocks provides testify mocks for the customer use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	customerDomain "github.com/allisson/piivault/internal/customer/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockCustomerRepository is a mock implementation of usecase.CustomerRepository.
type MockCustomerRepository struct {
	mock.Mock
}

// NewMockCustomerRepository creates a mock and asserts its expectations on cleanup.
func NewMockCustomerRepository(t testingT) *MockCustomerRepository {
	m := &MockCustomerRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCustomerRepository) Create(ctx context.Context, record *customerDomain.CustomerRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockCustomerRepository) Get(ctx context.Context, id uuid.UUID) (*customerDomain.CustomerRecord, error) {
	ret := m.Called(ctx, id)
	record, _ := ret.Get(0).(*customerDomain.CustomerRecord)
	return record, ret.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, offset, limit int) ([]*customerDomain.CustomerRecord, error) {
	ret := m.Called(ctx, offset, limit)
	records, _ := ret.Get(0).([]*customerDomain.CustomerRecord)
	return records, ret.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, record *customerDomain.CustomerRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockCustomerUseCase is a mock implementation of usecase.CustomerUseCase.
type MockCustomerUseCase struct {
	mock.Mock
}

// NewMockCustomerUseCase creates a mock and asserts its expectations on cleanup.
func NewMockCustomerUseCase(t testingT) *MockCustomerUseCase {
	m := &MockCustomerUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCustomerUseCase) Create(
	ctx context.Context,
	input *customerDomain.CreateCustomerInput,
) (*customerDomain.Customer, error) {
	ret := m.Called(ctx, input)
	customer, _ := ret.Get(0).(*customerDomain.Customer)
	return customer, ret.Error(1)
}

func (m *MockCustomerUseCase) Get(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error) {
	ret := m.Called(ctx, id)
	customer, _ := ret.Get(0).(*customerDomain.Customer)
	return customer, ret.Error(1)
}

func (m *MockCustomerUseCase) List(ctx context.Context, offset, limit int) ([]*customerDomain.Customer, error) {
	ret := m.Called(ctx, offset, limit)
	customers, _ := ret.Get(0).([]*customerDomain.Customer)
	return customers, ret.Error(1)
}

func (m *MockCustomerUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input *customerDomain.UpdateCustomerInput,
) (*customerDomain.Customer, error) {
	ret := m.Called(ctx, id, input)
	customer, _ := ret.Get(0).(*customerDomain.Customer)
	return customer, ret.Error(1)
}

func (m *MockCustomerUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCustomerUseCase) FindByEmail(ctx context.Context, email string) (*customerDomain.Customer, error) {
	ret := m.Called(ctx, email)
	customer, _ := ret.Get(0).(*customerDomain.Customer)
	return customer, ret.Error(1)
}

func (m *MockCustomerUseCase) FindByPhone(ctx context.Context, phone string) (*customerDomain.Customer, error) {
	ret := m.Called(ctx, phone)
	customer, _ := ret.Get(0).(*customerDomain.Customer)
	return customer, ret.Error(1)
}
