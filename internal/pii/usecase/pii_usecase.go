package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

// piiUseCase implements Service.
type piiUseCase struct {
	store  FieldStore
	codec  RecordCodec
	keys   KeyRotator
	logger *slog.Logger
}

// NewPIIUseCase creates the public Service.
func NewPIIUseCase(store FieldStore, codec RecordCodec, keys KeyRotator, logger *slog.Logger) Service {
	return &piiUseCase{
		store:  store,
		codec:  codec,
		keys:   keys,
		logger: logger,
	}
}

func (p *piiUseCase) EncryptField(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) (*piiDomain.FieldRecord, error) {
	return p.codec.Seal(ctx, table, field, plaintext)
}

func (p *piiUseCase) DecryptField(ctx context.Context, table string, record *piiDomain.FieldRecord) (string, error) {
	return p.codec.Open(ctx, table, record)
}

func (p *piiUseCase) LookupByValue(
	ctx context.Context,
	table string,
	field piiDomain.FieldName,
	plaintext string,
) (uuid.UUID, error) {
	return p.store.LookupByPlaintext(ctx, table, field, plaintext)
}

// RotateKeys activates a new key version. With reencrypt it then moves every stored
// field to that version; rows written meanwhile already use it.
func (p *piiUseCase) RotateKeys(ctx context.Context, reencrypt bool, batchSize int) (*RotationReport, error) {
	kv, err := p.keys.Rotate(ctx)
	if err != nil {
		return nil, err
	}
	report := &RotationReport{KeyVersion: kv.Version}

	if !reencrypt {
		p.logger.Info("key rotated, stored fields keep their version until re-encrypted",
			slog.Uint64("key_version", uint64(kv.Version)),
		)
		return report, nil
	}

	count, err := p.store.RotateAll(ctx, batchSize)
	report.Reencrypted = count
	if err != nil {
		return report, err
	}
	return report, nil
}
