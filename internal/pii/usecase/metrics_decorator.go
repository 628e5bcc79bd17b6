package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/metrics"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

const metricsDomain = "pii"

// fieldStoreWithMetrics decorates FieldStore with metrics instrumentation.
type fieldStoreWithMetrics struct {
	next    FieldStore
	metrics metrics.BusinessMetrics
}

// NewFieldStoreWithMetrics wraps a FieldStore with metrics recording.
func NewFieldStoreWithMetrics(store FieldStore, m metrics.BusinessMetrics) FieldStore {
	return &fieldStoreWithMetrics{
		next:    store,
		metrics: m,
	}
}

func (f *fieldStoreWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) string {
	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	f.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
	return status
}

// InsertUnique records metrics for uniqueness-checked seals.
func (f *fieldStoreWithMetrics) InsertUnique(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) (*piiDomain.FieldRecord, error) {
	start := time.Now()
	record, err := f.next.InsertUnique(ctx, table, field, plaintext)
	f.record(ctx, "insert_unique", start, err)
	return record, err
}

// CheckUnique records metrics for uniqueness checks.
func (f *fieldStoreWithMetrics) CheckUnique(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
	excludeID uuid.UUID,
) error {
	start := time.Now()
	err := f.next.CheckUnique(ctx, table, field, plaintext, excludeID)
	f.record(ctx, "check_unique", start, err)
	return err
}

// LookupByPlaintext records metrics for single-row lookups.
func (f *fieldStoreWithMetrics) LookupByPlaintext(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) (uuid.UUID, error) {
	start := time.Now()
	id, err := f.next.LookupByPlaintext(ctx, table, field, plaintext)
	f.record(ctx, "lookup", start, err)
	return id, err
}

// LookupAll records metrics for multi-row lookups.
func (f *fieldStoreWithMetrics) LookupAll(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) ([]uuid.UUID, error) {
	start := time.Now()
	ids, err := f.next.LookupAll(ctx, table, field, plaintext)
	f.record(ctx, "lookup_all", start, err)
	return ids, err
}

// FindPerson records metrics for cross-table lookups.
func (f *fieldStoreWithMetrics) FindPerson(
	ctx context.Context,
	field piiDomain.FieldName,
	plaintext string,
) (map[string][]uuid.UUID, error) {
	start := time.Now()
	found, err := f.next.FindPerson(ctx, field, plaintext)
	f.record(ctx, "find_person", start, err)
	return found, err
}

// RotateAll records metrics and the number of re-encrypted rows.
func (f *fieldStoreWithMetrics) RotateAll(ctx context.Context, batchSize int) (int, error) {
	start := time.Now()
	count, err := f.next.RotateAll(ctx, batchSize)
	status := f.record(ctx, "reencrypt", start, err)
	f.metrics.RecordRecords(ctx, metricsDomain, "reencrypt", status, int64(count))
	return count, err
}

// RotateTable records metrics and the number of re-encrypted rows of one table.
func (f *fieldStoreWithMetrics) RotateTable(
	ctx context.Context,
	table string,
	batchSize int,
) (*piiDomain.BatchResult, error) {
	start := time.Now()
	result, err := f.next.RotateTable(ctx, table, batchSize)
	status := f.record(ctx, "reencrypt_table", start, err)
	f.recordBatch(ctx, "reencrypt_table", status, result)
	return result, err
}

// Backfill records metrics and the number of backfilled rows.
func (f *fieldStoreWithMetrics) Backfill(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	legacyColumn string,
	batchSize int,
) (*piiDomain.BatchResult, error) {
	start := time.Now()
	result, err := f.next.Backfill(ctx, table, field, legacyColumn, batchSize)
	status := f.record(ctx, "backfill", start, err)
	f.recordBatch(ctx, "backfill", status, result)
	return result, err
}

func (f *fieldStoreWithMetrics) recordBatch(
	ctx context.Context,
	operation, status string,
	result *piiDomain.BatchResult,
) {
	if result == nil {
		return
	}
	f.metrics.RecordRecords(ctx, metricsDomain, operation, status, int64(result.Processed))
	f.metrics.RecordRecords(ctx, metricsDomain, operation, "failed", int64(result.Failed))
}

func (f *fieldStoreWithMetrics) PendingCount(ctx context.Context) (map[string]int64, error) {
	return f.next.PendingCount(ctx)
}

func (f *fieldStoreWithMetrics) CountByKeyVersion(ctx context.Context) (map[uint]int64, error) {
	return f.next.CountByKeyVersion(ctx)
}
