// Package mocks provides testify mocks for the crypto use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockKeyVersionRepository is a mock implementation of usecase.KeyVersionRepository.
type MockKeyVersionRepository struct {
	mock.Mock
}

// NewMockKeyVersionRepository creates a mock and asserts its expectations on cleanup.
func NewMockKeyVersionRepository(t testingT) *MockKeyVersionRepository {
	m := &MockKeyVersionRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockKeyVersionRepository) Create(ctx context.Context, kv *cryptoDomain.KeyVersion) error {
	return m.Called(ctx, kv).Error(0)
}

func (m *MockKeyVersionRepository) DeactivateAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockKeyVersionRepository) List(ctx context.Context) ([]*cryptoDomain.KeyVersion, error) {
	ret := m.Called(ctx)
	if rf, ok := ret.Get(0).(func(context.Context) []*cryptoDomain.KeyVersion); ok {
		return rf(ctx), ret.Error(1)
	}
	versions, _ := ret.Get(0).([]*cryptoDomain.KeyVersion)
	return versions, ret.Error(1)
}

func (m *MockKeyVersionRepository) Delete(ctx context.Context, version uint) error {
	return m.Called(ctx, version).Error(0)
}

// MockKeyUsageCounter is a mock implementation of usecase.KeyUsageCounter.
type MockKeyUsageCounter struct {
	mock.Mock
}

// NewMockKeyUsageCounter creates a mock and asserts its expectations on cleanup.
func NewMockKeyUsageCounter(t testingT) *MockKeyUsageCounter {
	m := &MockKeyUsageCounter{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockKeyUsageCounter) CountByKeyVersion(ctx context.Context) (map[uint]int64, error) {
	ret := m.Called(ctx)
	counts, _ := ret.Get(0).(map[uint]int64)
	return counts, ret.Error(1)
}

// MockKeyManager is a mock implementation of usecase.KeyManager.
type MockKeyManager struct {
	mock.Mock
}

// NewMockKeyManager creates a mock and asserts its expectations on cleanup.
func NewMockKeyManager(t testingT) *MockKeyManager {
	m := &MockKeyManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockKeyManager) Load(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockKeyManager) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockKeyManager) ActiveKey() (*cryptoDomain.KeyVersion, error) {
	ret := m.Called()
	kv, _ := ret.Get(0).(*cryptoDomain.KeyVersion)
	return kv, ret.Error(1)
}

func (m *MockKeyManager) KeyFor(ctx context.Context, version uint) (*cryptoDomain.KeyVersion, error) {
	ret := m.Called(ctx, version)
	kv, _ := ret.Get(0).(*cryptoDomain.KeyVersion)
	return kv, ret.Error(1)
}

func (m *MockKeyManager) Rotate(ctx context.Context) (*cryptoDomain.KeyVersion, error) {
	ret := m.Called(ctx)
	kv, _ := ret.Get(0).(*cryptoDomain.KeyVersion)
	return kv, ret.Error(1)
}

func (m *MockKeyManager) Purge(ctx context.Context, version uint) error {
	return m.Called(ctx, version).Error(0)
}

func (m *MockKeyManager) Versions() []uint {
	versions, _ := m.Called().Get(0).([]uint)
	return versions
}

func (m *MockKeyManager) Status(ctx context.Context) ([]*cryptoDomain.KeyVersionStatus, error) {
	ret := m.Called(ctx)
	statuses, _ := ret.Get(0).([]*cryptoDomain.KeyVersionStatus)
	return statuses, ret.Error(1)
}

func (m *MockKeyManager) RunRefresher(ctx context.Context, interval time.Duration) {
	m.Called(ctx, interval)
}

func (m *MockKeyManager) Close() {
	m.Called()
}
