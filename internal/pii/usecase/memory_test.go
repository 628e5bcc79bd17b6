package usecase_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	cryptoService "github.com/allisson/piivault/internal/crypto/service"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiService "github.com/allisson/piivault/internal/pii/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testKeys is a key manager over an in-memory ring. Rotate appends a version derived
// from the same root key.
type testKeys struct {
	mu      sync.Mutex
	root    *cryptoDomain.RootKey
	deriver cryptoService.KeyDeriver
	ring    *cryptoDomain.KeyRing
}

func newTestKeys(t *testing.T) *testKeys {
	t.Helper()
	root := &cryptoDomain.RootKey{ID: "root", Key: make([]byte, cryptoDomain.KeySize)}
	_, err := rand.Read(root.Key)
	require.NoError(t, err)

	k := &testKeys{root: root, deriver: cryptoService.NewKeyDeriver(), ring: cryptoDomain.NewKeyRing(nil)}
	_, err = k.Rotate(context.Background())
	require.NoError(t, err)
	return k
}

func (k *testKeys) ActiveKey() (*cryptoDomain.KeyVersion, error) {
	kv, ok := k.ring.Active()
	if !ok {
		return nil, cryptoDomain.ErrNoActiveKey
	}
	return kv, nil
}

func (k *testKeys) KeyFor(_ context.Context, version uint) (*cryptoDomain.KeyVersion, error) {
	kv, ok := k.ring.Get(version)
	if !ok {
		return nil, fmt.Errorf("%w: %d", cryptoDomain.ErrKeyNotFound, version)
	}
	return kv, nil
}

func (k *testKeys) Versions() []uint {
	return k.ring.Versions()
}

func (k *testKeys) Rotate(_ context.Context) (*cryptoDomain.KeyVersion, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	salt, err := k.deriver.NewSalt()
	if err != nil {
		return nil, err
	}
	next := &cryptoDomain.KeyVersion{
		Version:   uint(len(k.ring.Versions()) + 1),
		RootKeyID: k.root.ID,
		Algorithm: cryptoDomain.ChaCha20,
		Salt:      salt,
		IsActive:  true,
	}
	if err := k.deriver.Derive(k.root, next); err != nil {
		return nil, err
	}

	kvs := []*cryptoDomain.KeyVersion{next}
	for _, kv := range k.ring.All() {
		c := *kv
		c.IsActive = false
		kvs = append(kvs, &c)
	}
	k.ring.Replace(kvs)
	return next, nil
}

func newTestCodec(t *testing.T, keys *testKeys) *piiService.Codec {
	t.Helper()
	normalizer, err := piiDomain.NewNormalizer(piiDomain.DefaultCountryCode)
	require.NoError(t, err)
	indexer, err := cryptoService.NewBlindIndexer(cryptoService.DefaultBlindIndexSize)
	require.NoError(t, err)
	return piiService.NewCodec(
		keys,
		cryptoService.NewAEADManager(),
		indexer,
		normalizer,
		discardLogger(),
	)
}

// passThroughTx runs fn without a transaction.
type passThroughTx struct{}

func (passThroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryRow struct {
	id        uuid.UUID
	updatedAt time.Time
	fields    map[piiDomain.FieldName]*piiDomain.FieldRecord
	legacy    map[string]*string
}

// memoryPIIRepository is an in-memory PIIRepository.
type memoryPIIRepository struct {
	mu     sync.Mutex
	tables map[string][]*memoryRow

	// listedAfter records the afterID of every ListStale call per table.
	listedAfter map[string][]uuid.UUID

	// afterList, when set, runs after every ListStale call returns its rows.
	afterList func(table string)
}

func newMemoryPIIRepository() *memoryPIIRepository {
	return &memoryPIIRepository{
		tables:      make(map[string][]*memoryRow),
		listedAfter: make(map[string][]uuid.UUID),
	}
}

// put stores a row with the given records.
func (m *memoryPIIRepository) put(table string, updatedAt time.Time, records ...*piiDomain.FieldRecord) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := &memoryRow{
		id:        uuid.Must(uuid.NewV7()),
		updatedAt: updatedAt,
		fields:    make(map[piiDomain.FieldName]*piiDomain.FieldRecord),
		legacy:    make(map[string]*string),
	}
	for _, record := range records {
		row.fields[record.Field] = record
	}
	m.tables[table] = append(m.tables[table], row)
	return row.id
}

// putLegacy stores a row whose field still lives in a plaintext column.
func (m *memoryPIIRepository) putLegacy(table, column, value string) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := &memoryRow{
		id:        uuid.Must(uuid.NewV7()),
		updatedAt: time.Now().UTC(),
		fields:    make(map[piiDomain.FieldName]*piiDomain.FieldRecord),
		legacy:    map[string]*string{column: &value},
	}
	m.tables[table] = append(m.tables[table], row)
	return row.id
}

func (m *memoryPIIRepository) get(table string, id uuid.UUID) *memoryRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.tables[table] {
		if row.id == id {
			return row
		}
	}
	return nil
}

func (m *memoryPIIRepository) sorted(table string) []*memoryRow {
	rows := slices.Clone(m.tables[table])
	slices.SortFunc(rows, func(a, b *memoryRow) int { return bytes.Compare(a.id[:], b.id[:]) })
	return rows
}

func (m *memoryPIIRepository) FindIDsByHashes(
	_ context.Context,
	table string,
	field piiDomain.FieldSpec,
	hashes [][]byte,
	excludeID uuid.UUID,
) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []uuid.UUID
	for _, row := range m.sorted(table) {
		record := row.fields[field.Name]
		if row.id == excludeID || record.IsNull() || record.Index == nil {
			continue
		}
		for _, hash := range hashes {
			if bytes.Equal(record.Index.Hash, hash) {
				ids = append(ids, row.id)
				break
			}
		}
	}
	return ids, nil
}

func stale(row *memoryRow, activeVersion uint) bool {
	for _, record := range row.fields {
		if !record.IsNull() && record.Encrypted.KeyVersion != activeVersion {
			return true
		}
	}
	return false
}

func (m *memoryPIIRepository) ListStale(
	_ context.Context,
	table *piiDomain.Table,
	activeVersion uint,
	before time.Time,
	afterID uuid.UUID,
	limit int,
) ([]*piiDomain.Row, error) {
	out := m.listStale(table.Name, activeVersion, before, afterID, limit)
	if m.afterList != nil {
		m.afterList(table.Name)
	}
	return out, nil
}

func (m *memoryPIIRepository) listStale(
	table string,
	activeVersion uint,
	before time.Time,
	afterID uuid.UUID,
	limit int,
) []*piiDomain.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listedAfter[table] = append(m.listedAfter[table], afterID)

	var out []*piiDomain.Row
	for _, row := range m.sorted(table) {
		if bytes.Compare(row.id[:], afterID[:]) <= 0 || !row.updatedAt.Before(before) || !stale(row, activeVersion) {
			continue
		}
		fields := make(map[piiDomain.FieldName]*piiDomain.FieldRecord, len(row.fields))
		for name, record := range row.fields {
			fields[name] = record
		}
		out = append(out, &piiDomain.Row{ID: row.id, UpdatedAt: row.updatedAt, Fields: fields})
		if len(out) == limit {
			break
		}
	}
	return out
}

// replace stores records over a row as the application does on update.
func (m *memoryPIIRepository) replace(table string, id uuid.UUID, records ...*piiDomain.FieldRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.tables[table] {
		if row.id == id {
			for _, record := range records {
				row.fields[record.Field] = record
			}
			row.updatedAt = time.Now().UTC()
		}
	}
}

// UpdateFields honours the nonce guard of the SQL repository and the UNIQUE indexes
// on the hash columns of unique fields.
func (m *memoryPIIRepository) UpdateFields(
	_ context.Context,
	table *piiDomain.Table,
	id uuid.UUID,
	previous []*piiDomain.FieldRecord,
	records []*piiDomain.FieldRecord,
) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var target *memoryRow
	for _, row := range m.tables[table.Name] {
		if row.id == id {
			target = row
		}
	}
	if target == nil {
		return false, nil
	}
	for _, record := range previous {
		var nonce []byte
		if current := target.fields[record.Field]; current != nil {
			nonce = current.Encrypted.Nonce
		}
		if !bytes.Equal(nonce, record.Encrypted.Nonce) {
			return false, nil
		}
	}

	for _, record := range records {
		spec, err := table.Field(record.Field)
		if err != nil {
			return false, err
		}
		if !spec.Unique || record.Index == nil {
			continue
		}
		for _, row := range m.tables[table.Name] {
			other := row.fields[record.Field]
			if row.id != id && !other.IsNull() && other.Index != nil && bytes.Equal(other.Index.Hash, record.Index.Hash) {
				return false, piiDomain.ErrDuplicateValue
			}
		}
	}

	for _, record := range records {
		target.fields[record.Field] = record
	}
	return true, nil
}

func (m *memoryPIIRepository) CountStale(_ context.Context, table *piiDomain.Table, activeVersion uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, row := range m.tables[table.Name] {
		if stale(row, activeVersion) {
			count++
		}
	}
	return count, nil
}

func (m *memoryPIIRepository) CountByKeyVersion(_ context.Context) (map[uint]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[uint]int64)
	for _, rows := range m.tables {
		for _, row := range rows {
			for _, record := range row.fields {
				if !record.IsNull() {
					counts[record.Encrypted.KeyVersion]++
				}
			}
		}
	}
	return counts, nil
}

func (m *memoryPIIRepository) ListLegacy(
	_ context.Context,
	table *piiDomain.Table,
	field piiDomain.FieldSpec,
	legacyColumn string,
	afterID uuid.UUID,
	limit int,
) ([]*piiDomain.LegacyRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*piiDomain.LegacyRow
	for _, row := range m.sorted(table.Name) {
		value := row.legacy[legacyColumn]
		if bytes.Compare(row.id[:], afterID[:]) <= 0 || value == nil || !row.fields[field.Name].IsNull() {
			continue
		}
		out = append(out, &piiDomain.LegacyRow{ID: row.id, Value: *value})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memoryPIIRepository) WriteBackfill(
	_ context.Context,
	table *piiDomain.Table,
	legacyColumn string,
	id uuid.UUID,
	record *piiDomain.FieldRecord,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.tables[table.Name] {
		if row.id == id {
			row.fields[record.Field] = record
			row.legacy[legacyColumn] = nil
			return nil
		}
	}
	return piiDomain.ErrNotFound
}

// memoryCheckpointRepository is an in-memory CheckpointRepository. onSave, when set,
// runs after every successful save.
type memoryCheckpointRepository struct {
	mu          sync.Mutex
	checkpoints map[string]*piiDomain.Checkpoint
	onSave      func(*piiDomain.Checkpoint)
}

func newMemoryCheckpointRepository() *memoryCheckpointRepository {
	return &memoryCheckpointRepository{checkpoints: make(map[string]*piiDomain.Checkpoint)}
}

func (m *memoryCheckpointRepository) Get(_ context.Context, job, table string) (*piiDomain.Checkpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	checkpoint, ok := m.checkpoints[job+"/"+table]
	if !ok {
		return nil, nil
	}
	c := *checkpoint
	return &c, nil
}

func (m *memoryCheckpointRepository) Save(_ context.Context, checkpoint *piiDomain.Checkpoint) error {
	m.mu.Lock()
	c := *checkpoint
	m.checkpoints[checkpoint.Job+"/"+checkpoint.Table] = &c
	onSave := m.onSave
	m.mu.Unlock()

	if onSave != nil {
		onSave(checkpoint)
	}
	return nil
}

func (m *memoryCheckpointRepository) Delete(_ context.Context, job, table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.checkpoints, job+"/"+table)
	return nil
}

func (m *memoryCheckpointRepository) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.checkpoints)
}
