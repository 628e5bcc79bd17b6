// Package domain models sensitive fields and the tables that store them.
//
// Every sensitive attribute of a row is persisted as a FieldRecord: ciphertext and nonce
// produced by the field cipher, an optional blind index for equality lookups, and the
// key version both were produced with. Plaintext never reaches the database.
package domain

import (
	"fmt"
)

// FieldName is the logical name of a sensitive attribute and the prefix of its columns.
type FieldName string

const (
	FieldEmail   FieldName = "email"
	FieldPhone   FieldName = "phone_number"
	FieldAddress FieldName = "address"
	FieldCity    FieldName = "city"
)

// FieldKind selects the normalization applied before encryption and indexing.
type FieldKind int

const (
	KindEmail FieldKind = iota + 1
	KindPhone
	KindText
)

// FieldSpec describes one sensitive field of a table.
type FieldSpec struct {
	Name    FieldName
	Kind    FieldKind
	Indexed bool // has a <field>_hash column
	Unique  bool // hash is unique within the table
}

// Columns are the storage column names of a field.
type Columns struct {
	Enc        string
	Nonce      string
	Hash       string // empty for encrypt-only fields
	KeyVersion string
}

// Columns returns the storage columns of the field.
func (f FieldSpec) Columns() Columns {
	c := Columns{
		Enc:        fmt.Sprintf("%s_enc", f.Name),
		Nonce:      fmt.Sprintf("%s_nonce", f.Name),
		KeyVersion: fmt.Sprintf("%s_key_version", f.Name),
	}
	if f.Indexed {
		c.Hash = fmt.Sprintf("%s_hash", f.Name)
	}
	return c
}

// EncryptedField is the output of the field cipher.
type EncryptedField struct {
	Ciphertext []byte
	Nonce      []byte
	KeyVersion uint
}

// BlindIndex is a deterministic equality token of a normalized value.
type BlindIndex struct {
	Hash       []byte
	KeyVersion uint
}

// FieldRecord is the stored form of one sensitive attribute of one row.
//
// A record with a nil Ciphertext is the null record of an absent optional value; all of
// its columns are stored as NULL.
type FieldRecord struct {
	Field     FieldName
	Encrypted EncryptedField
	Index     *BlindIndex // nil for encrypt-only fields and null records
}

// IsNull reports whether the record represents an absent value.
func (r *FieldRecord) IsNull() bool {
	return r == nil || r.Encrypted.Ciphertext == nil
}

// NullRecord returns the null record of a field.
func NullRecord(field FieldName) *FieldRecord {
	return &FieldRecord{Field: field}
}
