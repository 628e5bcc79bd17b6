// Package mocks provides testify mocks for the user date use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	userDateDomain "github.com/allisson/piivault/internal/userdate/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockUserDateRepository is a mock implementation of usecase.UserDateRepository.
type MockUserDateRepository struct {
	mock.Mock
}

// NewMockUserDateRepository creates a mock and asserts its expectations on cleanup.
func NewMockUserDateRepository(t testingT) *MockUserDateRepository {
	m := &MockUserDateRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserDateRepository) Create(ctx context.Context, record *userDateDomain.UserDateRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockUserDateRepository) Get(ctx context.Context, id uuid.UUID) (*userDateDomain.UserDateRecord, error) {
	ret := m.Called(ctx, id)
	record, _ := ret.Get(0).(*userDateDomain.UserDateRecord)
	return record, ret.Error(1)
}

func (m *MockUserDateRepository) List(
	ctx context.Context,
	from, to time.Time,
	offset, limit int,
) ([]*userDateDomain.UserDateRecord, error) {
	ret := m.Called(ctx, from, to, offset, limit)
	records, _ := ret.Get(0).([]*userDateDomain.UserDateRecord)
	return records, ret.Error(1)
}

func (m *MockUserDateRepository) Update(ctx context.Context, record *userDateDomain.UserDateRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockUserDateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockUserDateUseCase is a mock implementation of usecase.UserDateUseCase.
type MockUserDateUseCase struct {
	mock.Mock
}

// NewMockUserDateUseCase creates a mock and asserts its expectations on cleanup.
func NewMockUserDateUseCase(t testingT) *MockUserDateUseCase {
	m := &MockUserDateUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserDateUseCase) Create(
	ctx context.Context,
	input *userDateDomain.CreateUserDateInput,
) (*userDateDomain.UserDate, error) {
	ret := m.Called(ctx, input)
	userDate, _ := ret.Get(0).(*userDateDomain.UserDate)
	return userDate, ret.Error(1)
}

func (m *MockUserDateUseCase) Get(ctx context.Context, id uuid.UUID) (*userDateDomain.UserDate, error) {
	ret := m.Called(ctx, id)
	userDate, _ := ret.Get(0).(*userDateDomain.UserDate)
	return userDate, ret.Error(1)
}

func (m *MockUserDateUseCase) List(
	ctx context.Context,
	from, to time.Time,
	offset, limit int,
) ([]*userDateDomain.UserDate, error) {
	ret := m.Called(ctx, from, to, offset, limit)
	userDates, _ := ret.Get(0).([]*userDateDomain.UserDate)
	return userDates, ret.Error(1)
}

func (m *MockUserDateUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input *userDateDomain.UpdateUserDateInput,
) (*userDateDomain.UserDate, error) {
	ret := m.Called(ctx, id, input)
	userDate, _ := ret.Get(0).(*userDateDomain.UserDate)
	return userDate, ret.Error(1)
}

func (m *MockUserDateUseCase) SetCompleted(
	ctx context.Context,
	id uuid.UUID,
	completed bool,
) (*userDateDomain.UserDate, error) {
	ret := m.Called(ctx, id, completed)
	userDate, _ := ret.Get(0).(*userDateDomain.UserDate)
	return userDate, ret.Error(1)
}

func (m *MockUserDateUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserDateUseCase) FindByPhone(ctx context.Context, phone string) ([]*userDateDomain.UserDate, error) {
	ret := m.Called(ctx, phone)
	userDates, _ := ret.Get(0).([]*userDateDomain.UserDate)
	return userDates, ret.Error(1)
}
