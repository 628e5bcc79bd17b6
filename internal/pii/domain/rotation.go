package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Row is the sensitive part of one stored row, as read for re-encryption.
type Row struct {
	ID        uuid.UUID
	UpdatedAt time.Time
	Fields    map[FieldName]*FieldRecord
}

// StaleFields returns the non-null fields not written under activeVersion.
func (r *Row) StaleFields(activeVersion uint) []FieldName {
	var stale []FieldName
	for name, record := range r.Fields {
		if !record.IsNull() && record.Encrypted.KeyVersion != activeVersion {
			stale = append(stale, name)
		}
	}
	return stale
}

// LegacyRow is a row whose field still lives in a plaintext column.
type LegacyRow struct {
	ID    uuid.UUID
	Value string
}

// Checkpoint records the progress of a resumable batch job.
//
// Rows are processed in id order (UUIDv7, so roughly insertion order); LastID is the
// last row committed together with this checkpoint.
type Checkpoint struct {
	Job           string
	Table         string
	LastID        uuid.UUID
	TargetVersion uint
	UpdatedAt     time.Time
}

// Job names.
const (
	JobRotate = "rotate"
)

// BackfillJob returns the checkpoint job name of a backfill.
func BackfillJob(table string, field FieldName) string {
	return fmt.Sprintf("backfill:%s.%s", table, field)
}

// BatchResult summarizes one table of a batch job.
type BatchResult struct {
	Table     string
	Processed int
	Failed    int
	Skipped   int // rows rewritten by the application while the job ran
}
