// Package service implements the record codec: the composition of normalization, the
// field cipher and the blind indexer that turns a plaintext field into its stored form
// and back.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	cryptoService "github.com/allisson/piivault/internal/crypto/service"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

// KeyProvider resolves key versions. The crypto KeyManager implements it.
type KeyProvider interface {
	ActiveKey() (*cryptoDomain.KeyVersion, error)
	KeyFor(ctx context.Context, version uint) (*cryptoDomain.KeyVersion, error)
	Versions() []uint
}

// Codec converts between plaintext field values and FieldRecords.
//
// Normalization happens here and nowhere else; the cipher and the indexer never see
// non-canonical input. Codec is safe for concurrent use.
type Codec struct {
	keys       KeyProvider
	aeads      cryptoService.AEADManager
	indexer    cryptoService.BlindIndexer
	normalizer *piiDomain.Normalizer
	logger     *slog.Logger
}

// NewCodec creates a Codec.
func NewCodec(
	keys KeyProvider,
	aeads cryptoService.AEADManager,
	indexer cryptoService.BlindIndexer,
	normalizer *piiDomain.Normalizer,
	logger *slog.Logger,
) *Codec {
	return &Codec{
		keys:       keys,
		aeads:      aeads,
		indexer:    indexer,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Normalize returns the canonical form of a field value.
func (c *Codec) Normalize(table string, field piiDomain.FieldName, plaintext string) (string, error) {
	spec, err := c.spec(table, field)
	if err != nil {
		return "", err
	}
	return c.normalizer.Normalize(spec.Kind, plaintext)
}

// Seal normalizes plaintext and encrypts it, and indexes it when the field is indexed,
// under the active key version.
func (c *Codec) Seal(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) (*piiDomain.FieldRecord, error) {
	spec, err := c.spec(table, field)
	if err != nil {
		return nil, err
	}

	normalized, err := c.normalizer.Normalize(spec.Kind, plaintext)
	if err != nil {
		return nil, err
	}

	kv, err := c.keys.ActiveKey()
	if err != nil {
		return nil, err
	}

	return c.seal(table, spec, normalized, kv)
}

// SealOptional seals plaintext, or returns the null record when it is nil or blank.
func (c *Codec) SealOptional(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext *string,
) (*piiDomain.FieldRecord, error) {
	if plaintext == nil || strings.TrimSpace(*plaintext) == "" {
		if _, err := c.spec(table, field); err != nil {
			return nil, err
		}
		return piiDomain.NullRecord(field), nil
	}
	return c.Seal(ctx, table, field, *plaintext)
}

// Open decrypts a record with the key version it was written under. The null record
// opens to "".
//
// A record that fails authentication is logged as a security event and returned as
// ErrAuthenticationFailed; it is never reported as an absent value.
func (c *Codec) Open(ctx context.Context, table string, record *piiDomain.FieldRecord) (string, error) {
	if record.IsNull() {
		return "", nil
	}

	version := record.Encrypted.KeyVersion
	kv, err := c.keys.KeyFor(ctx, version)
	if err != nil {
		return "", err
	}

	aead, err := c.aeads.CreateCipher(kv.DataKey, kv.Algorithm)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Decrypt(
		record.Encrypted.Ciphertext,
		record.Encrypted.Nonce,
		piiDomain.AAD(table, record.Field, version),
	)
	if err != nil {
		c.logger.ErrorContext(ctx, "field failed authentication",
			slog.String("event", "security_event"),
			slog.String("table", table),
			slog.String("field", string(record.Field)),
			slog.Uint64("key_version", uint64(version)),
		)
		return "", fmt.Errorf("%s.%s: %w", table, record.Field, err)
	}

	return string(plaintext), nil
}

// Indexes returns the blind index of plaintext under every loaded key version, active
// version first. Rows written before the last rotation carry hashes of older versions,
// so lookups must match any of them.
func (c *Codec) Indexes(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) ([]piiDomain.BlindIndex, error) {
	spec, err := c.spec(table, field)
	if err != nil {
		return nil, err
	}
	if !spec.Indexed {
		return nil, fmt.Errorf("%w: %s.%s", piiDomain.ErrFieldNotIndexed, table, field)
	}

	normalized, err := c.normalizer.Normalize(spec.Kind, plaintext)
	if err != nil {
		return nil, err
	}

	versions := c.keys.Versions()
	indexes := make([]piiDomain.BlindIndex, 0, len(versions))
	for _, version := range versions {
		kv, err := c.keys.KeyFor(ctx, version)
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, piiDomain.BlindIndex{
			Hash:       c.indexer.Index(kv.HMACKey, string(field), []byte(normalized)),
			KeyVersion: version,
		})
	}
	return indexes, nil
}

// Reseal re-encrypts a record under the active key version: same plaintext, fresh
// nonce, new hash. Records already under the active version are returned unchanged.
func (c *Codec) Reseal(ctx context.Context, table string, record *piiDomain.FieldRecord) (*piiDomain.FieldRecord, error) {
	if record.IsNull() {
		return record, nil
	}

	active, err := c.keys.ActiveKey()
	if err != nil {
		return nil, err
	}
	if record.Encrypted.KeyVersion == active.Version {
		return record, nil
	}

	spec, err := c.spec(table, record.Field)
	if err != nil {
		return nil, err
	}

	plaintext, err := c.Open(ctx, table, record)
	if err != nil {
		return nil, err
	}

	return c.seal(table, spec, plaintext, active)
}

func (c *Codec) seal(
	table string,
	spec piiDomain.FieldSpec,
	normalized string,
	kv *cryptoDomain.KeyVersion,
) (*piiDomain.FieldRecord, error) {
	aead, err := c.aeads.CreateCipher(kv.DataKey, kv.Algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt([]byte(normalized), piiDomain.AAD(table, spec.Name, kv.Version))
	if err != nil {
		return nil, err
	}

	record := &piiDomain.FieldRecord{
		Field: spec.Name,
		Encrypted: piiDomain.EncryptedField{
			Ciphertext: ciphertext,
			Nonce:      nonce,
			KeyVersion: kv.Version,
		},
	}
	if spec.Indexed {
		record.Index = &piiDomain.BlindIndex{
			Hash:       c.indexer.Index(kv.HMACKey, string(spec.Name), []byte(normalized)),
			KeyVersion: kv.Version,
		}
	}
	return record, nil
}

func (c *Codec) spec(table string, field piiDomain.FieldName) (piiDomain.FieldSpec, error) {
	t, err := piiDomain.LookupTable(table)
	if err != nil {
		return piiDomain.FieldSpec{}, err
	}
	return t.Field(field)
}
