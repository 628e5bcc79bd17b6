// Package mocks provides testify mocks for the recommendation use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	recommendationDomain "github.com/allisson/piivault/internal/recommendation/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockRecommendationRepository is a mock implementation of usecase.RecommendationRepository.
type MockRecommendationRepository struct {
	mock.Mock
}

// NewMockRecommendationRepository creates a mock and asserts its expectations on cleanup.
func NewMockRecommendationRepository(t testingT) *MockRecommendationRepository {
	m := &MockRecommendationRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRecommendationRepository) Create(
	ctx context.Context,
	record *recommendationDomain.RecommendationRecord,
) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecommendationRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*recommendationDomain.RecommendationRecord, error) {
	ret := m.Called(ctx, id)
	record, _ := ret.Get(0).(*recommendationDomain.RecommendationRecord)
	return record, ret.Error(1)
}

func (m *MockRecommendationRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*recommendationDomain.RecommendationRecord, error) {
	ret := m.Called(ctx, offset, limit)
	records, _ := ret.Get(0).([]*recommendationDomain.RecommendationRecord)
	return records, ret.Error(1)
}

func (m *MockRecommendationRepository) Update(
	ctx context.Context,
	record *recommendationDomain.RecommendationRecord,
) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecommendationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockRecommendationUseCase is a mock implementation of usecase.RecommendationUseCase.
type MockRecommendationUseCase struct {
	mock.Mock
}

// NewMockRecommendationUseCase creates a mock and asserts its expectations on cleanup.
func NewMockRecommendationUseCase(t testingT) *MockRecommendationUseCase {
	m := &MockRecommendationUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRecommendationUseCase) Create(
	ctx context.Context,
	input *recommendationDomain.CreateRecommendationInput,
) (*recommendationDomain.Recommendation, error) {
	ret := m.Called(ctx, input)
	recommendation, _ := ret.Get(0).(*recommendationDomain.Recommendation)
	return recommendation, ret.Error(1)
}

func (m *MockRecommendationUseCase) Get(
	ctx context.Context,
	id uuid.UUID,
) (*recommendationDomain.Recommendation, error) {
	ret := m.Called(ctx, id)
	recommendation, _ := ret.Get(0).(*recommendationDomain.Recommendation)
	return recommendation, ret.Error(1)
}

func (m *MockRecommendationUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*recommendationDomain.Recommendation, error) {
	ret := m.Called(ctx, offset, limit)
	recommendations, _ := ret.Get(0).([]*recommendationDomain.Recommendation)
	return recommendations, ret.Error(1)
}

func (m *MockRecommendationUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input *recommendationDomain.UpdateRecommendationInput,
) (*recommendationDomain.Recommendation, error) {
	ret := m.Called(ctx, id, input)
	recommendation, _ := ret.Get(0).(*recommendationDomain.Recommendation)
	return recommendation, ret.Error(1)
}

func (m *MockRecommendationUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecommendationUseCase) FindByPhone(
	ctx context.Context,
	phone string,
) (*recommendationDomain.Recommendation, error) {
	ret := m.Called(ctx, phone)
	recommendation, _ := ret.Get(0).(*recommendationDomain.Recommendation)
	return recommendation, ret.Error(1)
}
