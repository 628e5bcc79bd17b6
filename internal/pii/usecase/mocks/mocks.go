// Package mocks provides testify mocks for the pii use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiUsecase "github.com/allisson/piivault/internal/pii/usecase"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func setup(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockPIIRepository is a mock implementation of usecase.PIIRepository.
type MockPIIRepository struct {
	mock.Mock
}

// NewMockPIIRepository creates a mock and asserts its expectations on cleanup.
func NewMockPIIRepository(t testingT) *MockPIIRepository {
	m := &MockPIIRepository{}
	setup(&m.Mock, t)
	return m
}

func (m *MockPIIRepository) FindIDsByHashes(
	ctx context.Context,
	table string,
	field piiDomain.FieldSpec,
	hashes [][]byte,
	excludeID uuid.UUID,
) ([]uuid.UUID, error) {
	ret := m.Called(ctx, table, field, hashes, excludeID)
	ids, _ := ret.Get(0).([]uuid.UUID)
	return ids, ret.Error(1)
}

func (m *MockPIIRepository) ListStale(
	ctx context.Context,
	table *piiDomain.Table,
	activeVersion uint,
	before time.Time,
	afterID uuid.UUID,
	limit int,
) ([]*piiDomain.Row, error) {
	ret := m.Called(ctx, table, activeVersion, before, afterID, limit)
	rows, _ := ret.Get(0).([]*piiDomain.Row)
	return rows, ret.Error(1)
}

func (m *MockPIIRepository) UpdateFields(
	ctx context.Context,
	table *piiDomain.Table,
	id uuid.UUID,
	previous []*piiDomain.FieldRecord,
	records []*piiDomain.FieldRecord,
) (bool, error) {
	ret := m.Called(ctx, table, id, previous, records)
	return ret.Bool(0), ret.Error(1)
}

func (m *MockPIIRepository) CountStale(ctx context.Context, table *piiDomain.Table, activeVersion uint) (int64, error) {
	ret := m.Called(ctx, table, activeVersion)
	count, _ := ret.Get(0).(int64)
	return count, ret.Error(1)
}

func (m *MockPIIRepository) CountByKeyVersion(ctx context.Context) (map[uint]int64, error) {
	ret := m.Called(ctx)
	counts, _ := ret.Get(0).(map[uint]int64)
	return counts, ret.Error(1)
}

func (m *MockPIIRepository) ListLegacy(
	ctx context.Context,
	table *piiDomain.Table,
	field piiDomain.FieldSpec,
	legacyColumn string,
	afterID uuid.UUID,
	limit int,
) ([]*piiDomain.LegacyRow, error) {
	ret := m.Called(ctx, table, field, legacyColumn, afterID, limit)
	rows, _ := ret.Get(0).([]*piiDomain.LegacyRow)
	return rows, ret.Error(1)
}

func (m *MockPIIRepository) WriteBackfill(
	ctx context.Context,
	table *piiDomain.Table,
	legacyColumn string,
	id uuid.UUID,
	record *piiDomain.FieldRecord,
) error {
	return m.Called(ctx, table, legacyColumn, id, record).Error(0)
}

// MockCheckpointRepository is a mock implementation of usecase.CheckpointRepository.
type MockCheckpointRepository struct {
	mock.Mock
}

// NewMockCheckpointRepository creates a mock and asserts its expectations on cleanup.
func NewMockCheckpointRepository(t testingT) *MockCheckpointRepository {
	m := &MockCheckpointRepository{}
	setup(&m.Mock, t)
	return m
}

func (m *MockCheckpointRepository) Get(ctx context.Context, job, table string) (*piiDomain.Checkpoint, error) {
	ret := m.Called(ctx, job, table)
	checkpoint, _ := ret.Get(0).(*piiDomain.Checkpoint)
	return checkpoint, ret.Error(1)
}

func (m *MockCheckpointRepository) Save(ctx context.Context, checkpoint *piiDomain.Checkpoint) error {
	return m.Called(ctx, checkpoint).Error(0)
}

func (m *MockCheckpointRepository) Delete(ctx context.Context, job, table string) error {
	return m.Called(ctx, job, table).Error(0)
}

// MockFieldStore is a mock implementation of usecase.FieldStore.
type MockFieldStore struct {
	mock.Mock
}

// NewMockFieldStore creates a mock and asserts its expectations on cleanup.
func NewMockFieldStore(t testingT) *MockFieldStore {
	m := &MockFieldStore{}
	setup(&m.Mock, t)
	return m
}

func (m *MockFieldStore) InsertUnique(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) (*piiDomain.FieldRecord, error) {
	ret := m.Called(ctx, table, field, plaintext)
	record, _ := ret.Get(0).(*piiDomain.FieldRecord)
	return record, ret.Error(1)
}

func (m *MockFieldStore) CheckUnique(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
	excludeID uuid.UUID,
) error {
	return m.Called(ctx, table, field, plaintext, excludeID).Error(0)
}

func (m *MockFieldStore) LookupByPlaintext(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) (uuid.UUID, error) {
	ret := m.Called(ctx, table, field, plaintext)
	id, _ := ret.Get(0).(uuid.UUID)
	return id, ret.Error(1)
}

func (m *MockFieldStore) LookupAll(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) ([]uuid.UUID, error) {
	ret := m.Called(ctx, table, field, plaintext)
	ids, _ := ret.Get(0).([]uuid.UUID)
	return ids, ret.Error(1)
}

func (m *MockFieldStore) FindPerson(
	ctx context.Context,
	field piiDomain.FieldName,
	plaintext string,
) (map[string][]uuid.UUID, error) {
	ret := m.Called(ctx, field, plaintext)
	found, _ := ret.Get(0).(map[string][]uuid.UUID)
	return found, ret.Error(1)
}

func (m *MockFieldStore) RotateAll(ctx context.Context, batchSize int) (int, error) {
	ret := m.Called(ctx, batchSize)
	return ret.Int(0), ret.Error(1)
}

func (m *MockFieldStore) RotateTable(ctx context.Context, table string, batchSize int) (*piiDomain.BatchResult, error) {
	ret := m.Called(ctx, table, batchSize)
	result, _ := ret.Get(0).(*piiDomain.BatchResult)
	return result, ret.Error(1)
}

func (m *MockFieldStore) Backfill(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	legacyColumn string,
	batchSize int,
) (*piiDomain.BatchResult, error) {
	ret := m.Called(ctx, table, field, legacyColumn, batchSize)
	result, _ := ret.Get(0).(*piiDomain.BatchResult)
	return result, ret.Error(1)
}

func (m *MockFieldStore) PendingCount(ctx context.Context) (map[string]int64, error) {
	ret := m.Called(ctx)
	pending, _ := ret.Get(0).(map[string]int64)
	return pending, ret.Error(1)
}

func (m *MockFieldStore) CountByKeyVersion(ctx context.Context) (map[uint]int64, error) {
	ret := m.Called(ctx)
	counts, _ := ret.Get(0).(map[uint]int64)
	return counts, ret.Error(1)
}

// MockService is a mock implementation of usecase.Service.
type MockService struct {
	mock.Mock
}

// NewMockService creates a mock and asserts its expectations on cleanup.
func NewMockService(t testingT) *MockService {
	m := &MockService{}
	setup(&m.Mock, t)
	return m
}

func (m *MockService) EncryptField(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) (*piiDomain.FieldRecord, error) {
	ret := m.Called(ctx, table, field, plaintext)
	record, _ := ret.Get(0).(*piiDomain.FieldRecord)
	return record, ret.Error(1)
}

func (m *MockService) DecryptField(ctx context.Context, table string, record *piiDomain.FieldRecord) (string, error) {
	ret := m.Called(ctx, table, record)
	return ret.String(0), ret.Error(1)
}

func (m *MockService) LookupByValue(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) (uuid.UUID, error) {
	ret := m.Called(ctx, table, field, plaintext)
	id, _ := ret.Get(0).(uuid.UUID)
	return id, ret.Error(1)
}

func (m *MockService) RotateKeys(ctx context.Context, reencrypt bool, batchSize int) (*piiUsecase.RotationReport, error) {
	ret := m.Called(ctx, reencrypt, batchSize)
	report, _ := ret.Get(0).(*piiUsecase.RotationReport)
	return report, ret.Error(1)
}
