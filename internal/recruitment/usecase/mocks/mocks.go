// Package mocks provides testify mocks for the recruitment use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	recruitmentDomain "github.com/allisson/piivault/internal/recruitment/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockRecruitmentRepository is a mock implementation of usecase.RecruitmentRepository.
type MockRecruitmentRepository struct {
	mock.Mock
}

// NewMockRecruitmentRepository creates a mock and asserts its expectations on cleanup.
func NewMockRecruitmentRepository(t testingT) *MockRecruitmentRepository {
	m := &MockRecruitmentRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRecruitmentRepository) Create(ctx context.Context, record *recruitmentDomain.RecruitmentRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecruitmentRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*recruitmentDomain.RecruitmentRecord, error) {
	ret := m.Called(ctx, id)
	record, _ := ret.Get(0).(*recruitmentDomain.RecruitmentRecord)
	return record, ret.Error(1)
}

func (m *MockRecruitmentRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*recruitmentDomain.RecruitmentRecord, error) {
	ret := m.Called(ctx, offset, limit)
	records, _ := ret.Get(0).([]*recruitmentDomain.RecruitmentRecord)
	return records, ret.Error(1)
}

func (m *MockRecruitmentRepository) Update(ctx context.Context, record *recruitmentDomain.RecruitmentRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecruitmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockRecruitmentUseCase is a mock implementation of usecase.RecruitmentUseCase.
type MockRecruitmentUseCase struct {
	mock.Mock
}

// NewMockRecruitmentUseCase creates a mock and asserts its expectations on cleanup.
func NewMockRecruitmentUseCase(t testingT) *MockRecruitmentUseCase {
	m := &MockRecruitmentUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRecruitmentUseCase) result(ret mock.Arguments) (*recruitmentDomain.Recruitment, error) {
	out, _ := ret.Get(0).(*recruitmentDomain.Recruitment)
	return out, ret.Error(1)
}

func (m *MockRecruitmentUseCase) Create(
	ctx context.Context,
	input *recruitmentDomain.CreateRecruitmentInput,
) (*recruitmentDomain.Recruitment, error) {
	return m.result(m.Called(ctx, input))
}

func (m *MockRecruitmentUseCase) Get(ctx context.Context, id uuid.UUID) (*recruitmentDomain.Recruitment, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockRecruitmentUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*recruitmentDomain.Recruitment, error) {
	ret := m.Called(ctx, offset, limit)
	out, _ := ret.Get(0).([]*recruitmentDomain.Recruitment)
	return out, ret.Error(1)
}

func (m *MockRecruitmentUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input *recruitmentDomain.UpdateRecruitmentInput,
) (*recruitmentDomain.Recruitment, error) {
	return m.result(m.Called(ctx, id, input))
}

func (m *MockRecruitmentUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecruitmentUseCase) FindByEmail(ctx context.Context, email string) (*recruitmentDomain.Recruitment, error) {
	return m.result(m.Called(ctx, email))
}

func (m *MockRecruitmentUseCase) FindByPhone(ctx context.Context, phone string) (*recruitmentDomain.Recruitment, error) {
	return m.result(m.Called(ctx, phone))
}
