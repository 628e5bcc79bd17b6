package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiUsecase "github.com/allisson/piivault/internal/pii/usecase"
)

// RunBackfill moves a legacy plaintext column into the encrypted columns of a field and
// clears the plaintext. An empty legacyColumn uses the column registered for the table.
func RunBackfill(
	ctx context.Context,
	store piiUsecase.FieldStore,
	logger *slog.Logger,
	writer io.Writer,
	table, field, legacyColumn string,
	batchSize int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := validateBatchSize(batchSize); err != nil {
		return err
	}

	t, err := piiDomain.LookupTable(table)
	if err != nil {
		return err
	}
	if !t.HasField(piiDomain.FieldName(field)) {
		return fmt.Errorf("%w: %s.%s", piiDomain.ErrUnknownField, table, field)
	}

	logger.Info("backfilling legacy column",
		slog.String("table", table),
		slog.String("field", field),
		slog.String("legacy_column", legacyColumn),
		slog.Int("batch", batchSize),
	)

	result, err := store.Backfill(ctx, table, piiDomain.FieldName(field), legacyColumn, batchSize)
	if err != nil {
		return fmt.Errorf("failed to backfill %s.%s: %w", table, field, err)
	}
	return writeBatchResult(writer, format, "Backfilled", result)
}
