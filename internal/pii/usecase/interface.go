// Package usecase implements the encrypted field store and the public PII service.
//
// The FieldStore is the persistence-facing half of the subsystem: it checks uniqueness
// through blind indexes before writes, looks rows up by plaintext, re-encrypts stored
// fields after a key rotation and backfills legacy plaintext columns. The Service is
// the narrow API offered to entity use cases and handlers, which pass plaintext in and
// out and never see ciphertext, nonces or hashes.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

// PIIRepository reads and writes the sensitive columns of registered tables.
//
// Implementations join the caller's transaction through database.GetTx and report
// unique violations on hash columns as piiDomain.ErrDuplicateValue.
type PIIRepository interface {
	// FindIDsByHashes returns the ids of rows whose field hash equals any of hashes,
	// ignoring excludeID when it is not uuid.Nil.
	FindIDsByHashes(
		ctx context.Context,
		table string,
		field piiDomain.FieldSpec,
		hashes [][]byte,
		excludeID uuid.UUID,
	) ([]uuid.UUID, error)

	// ListStale returns up to limit rows with id > afterID and updated_at < before that
	// hold at least one field not under activeVersion, ordered by id.
	ListStale(
		ctx context.Context,
		table *piiDomain.Table,
		activeVersion uint,
		before time.Time,
		afterID uuid.UUID,
		limit int,
	) ([]*piiDomain.Row, error)

	// UpdateFields overwrites the given fields of a row while each field still holds
	// the nonce of its record in previous. It reports false when the row was changed
	// in the meantime and nothing was written.
	UpdateFields(
		ctx context.Context,
		table *piiDomain.Table,
		id uuid.UUID,
		previous []*piiDomain.FieldRecord,
		records []*piiDomain.FieldRecord,
	) (bool, error)

	// CountStale counts rows holding at least one field not under activeVersion.
	CountStale(ctx context.Context, table *piiDomain.Table, activeVersion uint) (int64, error)

	// CountByKeyVersion counts stored fields per key version across every table.
	CountByKeyVersion(ctx context.Context) (map[uint]int64, error)

	// ListLegacy returns up to limit rows with id > afterID whose legacy column holds a
	// value and whose field has not been written yet, ordered by id.
	ListLegacy(
		ctx context.Context,
		table *piiDomain.Table,
		field piiDomain.FieldSpec,
		legacyColumn string,
		afterID uuid.UUID,
		limit int,
	) ([]*piiDomain.LegacyRow, error)

	// WriteBackfill stores record and clears the legacy column of the row.
	WriteBackfill(
		ctx context.Context,
		table *piiDomain.Table,
		legacyColumn string,
		id uuid.UUID,
		record *piiDomain.FieldRecord,
	) error
}

// CheckpointRepository persists batch job progress.
type CheckpointRepository interface {
	// Get returns the checkpoint of a job and table, or nil when there is none.
	Get(ctx context.Context, job, table string) (*piiDomain.Checkpoint, error)

	// Save creates or replaces a checkpoint.
	Save(ctx context.Context, checkpoint *piiDomain.Checkpoint) error

	// Delete removes a checkpoint.
	Delete(ctx context.Context, job, table string) error
}

// RecordCodec converts between plaintext values and stored records. The pii service
// Codec implements it.
type RecordCodec interface {
	Normalize(table string, field piiDomain.FieldName, plaintext string) (string, error)
	Seal(ctx context.Context, table string, field piiDomain.FieldName, plaintext string) (*piiDomain.FieldRecord, error)
	SealOptional(ctx context.Context, table string, field piiDomain.FieldName, plaintext *string) (*piiDomain.FieldRecord, error)
	Open(ctx context.Context, table string, record *piiDomain.FieldRecord) (string, error)
	Indexes(ctx context.Context, table string, field piiDomain.FieldName, plaintext string) ([]piiDomain.BlindIndex, error)
	Reseal(ctx context.Context, table string, record *piiDomain.FieldRecord) (*piiDomain.FieldRecord, error)
}

// KeyRotator is the part of the key manager used by the PII service.
type KeyRotator interface {
	ActiveKey() (*cryptoDomain.KeyVersion, error)
	Rotate(ctx context.Context) (*cryptoDomain.KeyVersion, error)
}

// FieldStore stores and finds sensitive fields.
type FieldStore interface {
	// InsertUnique seals plaintext for a new row after checking that no row of the
	// table holds the same value under any retained key version. Returns
	// ErrDuplicateValue on a hit. Fields without a uniqueness requirement are sealed
	// without the check.
	InsertUnique(ctx context.Context, table string, field piiDomain.FieldName, plaintext string) (*piiDomain.FieldRecord, error)

	// CheckUnique is the uniqueness check of InsertUnique. excludeID, when not uuid.Nil,
	// is the row being updated.
	CheckUnique(ctx context.Context, table string, field piiDomain.FieldName, plaintext string, excludeID uuid.UUID) error

	// LookupByPlaintext returns the id of a row holding plaintext, or ErrNotFound.
	LookupByPlaintext(ctx context.Context, table string, field piiDomain.FieldName, plaintext string) (uuid.UUID, error)

	// LookupAll returns the ids of every row holding plaintext.
	LookupAll(ctx context.Context, table string, field piiDomain.FieldName, plaintext string) ([]uuid.UUID, error)

	// FindPerson returns, per table, the rows holding plaintext in field. It joins the
	// records of one real-world person across tables.
	FindPerson(ctx context.Context, field piiDomain.FieldName, plaintext string) (map[string][]uuid.UUID, error)

	// RotateAll re-encrypts every field not under the active key version and returns
	// how many rows were rewritten. It is resumable, cancellable between batches and a
	// no-op once nothing is stale.
	RotateAll(ctx context.Context, batchSize int) (int, error)

	// RotateTable is RotateAll for a single table.
	RotateTable(ctx context.Context, table string, batchSize int) (*piiDomain.BatchResult, error)

	// Backfill moves a legacy plaintext column into the encrypted columns of field.
	// An empty legacyColumn uses the column registered for the table.
	Backfill(
		ctx context.Context,
		table string,
		field piiDomain.FieldName,
		legacyColumn string,
		batchSize int,
	) (*piiDomain.BatchResult, error)

	// PendingCount returns, per table, how many rows still need re-encryption.
	PendingCount(ctx context.Context) (map[string]int64, error)

	// CountByKeyVersion counts stored fields per key version.
	CountByKeyVersion(ctx context.Context) (map[uint]int64, error)
}

// RotationReport is the outcome of RotateKeys.
type RotationReport struct {
	KeyVersion  uint
	Reencrypted int
}

// Service is the public API of the subsystem.
type Service interface {
	// EncryptField seals a value for storage under the active key version.
	EncryptField(ctx context.Context, table string, field piiDomain.FieldName, plaintext string) (*piiDomain.FieldRecord, error)

	// DecryptField opens a stored value.
	DecryptField(ctx context.Context, table string, record *piiDomain.FieldRecord) (string, error)

	// LookupByValue returns the id of the row holding a value.
	LookupByValue(ctx context.Context, table string, field piiDomain.FieldName, plaintext string) (uuid.UUID, error)

	// RotateKeys activates a new key version and, when reencrypt is set, moves every
	// stored field to it.
	RotateKeys(ctx context.Context, reencrypt bool, batchSize int) (*RotationReport, error)
}
