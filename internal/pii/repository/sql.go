// Package repository persists sensitive field columns and batch job checkpoints in
// PostgreSQL and MySQL.
//
// Table and column names are taken from the pii domain registry, never from input, so
// they are interpolated into queries; every value is bound. Entity repositories reuse
// the Dialect and the field column helpers to read and write their own rows.
package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/database"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

// Dialect captures the differences between the supported databases: bind variables and
// the storage of UUIDs (native uuid in PostgreSQL, BINARY(16) in MySQL).
type Dialect struct {
	Name       string
	numbered   bool
	binaryUUID bool
}

var (
	PostgreSQL = Dialect{Name: "postgres", numbered: true}
	MySQL      = Dialect{Name: "mysql", binaryUUID: true}
)

// DialectFor returns the dialect of a DB_DRIVER value.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case PostgreSQL.Name:
		return PostgreSQL, nil
	case MySQL.Name:
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// ID returns the bind value of a row id.
func (d Dialect) ID(id uuid.UUID) (any, error) {
	if !d.binaryUUID {
		return id, nil
	}
	b, err := id.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Args collects bind values and hands out their placeholders.
type Args struct {
	dialect Dialect
	values  []any
}

// Args starts an empty argument list.
func (d Dialect) Args() *Args {
	return &Args{dialect: d}
}

// Add appends a value and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	if a.dialect.numbered {
		return fmt.Sprintf("$%d", len(a.values))
	}
	return "?"
}

// AddAll appends values and returns their comma separated placeholders.
func (a *Args) AddAll(vs ...any) string {
	placeholders := make([]string, len(vs))
	for i, v := range vs {
		placeholders[i] = a.Add(v)
	}
	return strings.Join(placeholders, ", ")
}

// Values returns the collected values in bind order.
func (a *Args) Values() []any {
	return a.values
}

// FieldColumns returns the storage columns of a field: enc, nonce, hash when the field
// is indexed, key_version.
func FieldColumns(spec piiDomain.FieldSpec) []string {
	c := spec.Columns()
	if spec.Indexed {
		return []string{c.Enc, c.Nonce, c.Hash, c.KeyVersion}
	}
	return []string{c.Enc, c.Nonce, c.KeyVersion}
}

// FieldValues returns the column values of a record in FieldColumns order. The null
// record maps to NULLs.
func FieldValues(spec piiDomain.FieldSpec, record *piiDomain.FieldRecord) []any {
	if record.IsNull() {
		values := make([]any, len(FieldColumns(spec)))
		return values
	}

	values := []any{record.Encrypted.Ciphertext, record.Encrypted.Nonce}
	if spec.Indexed {
		var hash []byte
		if record.Index != nil {
			hash = record.Index.Hash
		}
		values = append(values, hash)
	}
	return append(values, int64(record.Encrypted.KeyVersion))
}

// TableColumns returns the storage columns of every field of a table.
func TableColumns(t *piiDomain.Table) []string {
	var cols []string
	for _, spec := range t.Fields {
		cols = append(cols, FieldColumns(spec)...)
	}
	return cols
}

// FieldScan holds scan targets for the columns of one field.
type FieldScan struct {
	spec    piiDomain.FieldSpec
	enc     []byte
	nonce   []byte
	hash    []byte
	version sql.NullInt64
}

// NewFieldScan creates scan targets for a field.
func NewFieldScan(spec piiDomain.FieldSpec) *FieldScan {
	return &FieldScan{spec: spec}
}

// Targets returns the Scan destinations in FieldColumns order.
func (f *FieldScan) Targets() []any {
	if f.spec.Indexed {
		return []any{&f.enc, &f.nonce, &f.hash, &f.version}
	}
	return []any{&f.enc, &f.nonce, &f.version}
}

// Record returns the scanned record; NULL columns give the null record.
func (f *FieldScan) Record() *piiDomain.FieldRecord {
	if f.enc == nil || !f.version.Valid {
		return piiDomain.NullRecord(f.spec.Name)
	}

	version := uint(f.version.Int64)
	record := &piiDomain.FieldRecord{
		Field: f.spec.Name,
		Encrypted: piiDomain.EncryptedField{
			Ciphertext: f.enc,
			Nonce:      f.nonce,
			KeyVersion: version,
		},
	}
	if f.spec.Indexed && f.hash != nil {
		record.Index = &piiDomain.BlindIndex{Hash: f.hash, KeyVersion: version}
	}
	return record
}

// TableScan holds scan targets for every field of a table.
type TableScan struct {
	fields []*FieldScan
}

// NewTableScan creates scan targets for a table.
func NewTableScan(t *piiDomain.Table) *TableScan {
	s := &TableScan{}
	for _, spec := range t.Fields {
		s.fields = append(s.fields, NewFieldScan(spec))
	}
	return s
}

// Targets returns the Scan destinations in TableColumns order.
func (s *TableScan) Targets() []any {
	var targets []any
	for _, f := range s.fields {
		targets = append(targets, f.Targets()...)
	}
	return targets
}

// Records returns the scanned records by field.
func (s *TableScan) Records() map[piiDomain.FieldName]*piiDomain.FieldRecord {
	records := make(map[piiDomain.FieldName]*piiDomain.FieldRecord, len(s.fields))
	for _, f := range s.fields {
		records[f.spec.Name] = f.Record()
	}
	return records
}

// Assignments returns "col = placeholder" pairs that store records.
func Assignments(t *piiDomain.Table, args *Args, records ...*piiDomain.FieldRecord) ([]string, error) {
	var sets []string
	for _, record := range records {
		spec, err := t.Field(record.Field)
		if err != nil {
			return nil, err
		}
		values := FieldValues(spec, record)
		for i, col := range FieldColumns(spec) {
			sets = append(sets, fmt.Sprintf("%s = %s", col, args.Add(values[i])))
		}
	}
	return sets, nil
}

// MapWriteError turns a unique violation into ErrDuplicateValue.
func MapWriteError(err error) error {
	if database.IsUniqueViolation(err) {
		if name := database.ConstraintName(err); name != "" {
			return fmt.Errorf("%w: %s", piiDomain.ErrDuplicateValue, name)
		}
		return piiDomain.ErrDuplicateValue
	}
	return err
}
