package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiUsecase "github.com/allisson/piivault/internal/pii/usecase"
)

// RunReencrypt moves stored fields to the active key version. An empty table processes
// every registered table. The job is resumable: an interrupted run continues from its
// checkpoint when started again.
func RunReencrypt(
	ctx context.Context,
	store piiUsecase.FieldStore,
	logger *slog.Logger,
	writer io.Writer,
	table string,
	batchSize int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := validateBatchSize(batchSize); err != nil {
		return err
	}

	logger.Info("re-encrypting stored fields", slog.String("table", table), slog.Int("batch", batchSize))

	if table == "" {
		total, err := store.RotateAll(ctx, batchSize)
		if err != nil {
			return fmt.Errorf("failed to re-encrypt: %w", err)
		}
		if format == "json" {
			return writeJSON(writer, map[string]any{"reencrypted": total})
		}
		_, _ = fmt.Fprintf(writer, "Re-encrypted %d row(s)\n", total)
		return nil
	}

	if _, err := piiDomain.LookupTable(table); err != nil {
		return err
	}

	result, err := store.RotateTable(ctx, table, batchSize)
	if err != nil {
		return fmt.Errorf("failed to re-encrypt %s: %w", table, err)
	}
	return writeBatchResult(writer, format, "Re-encrypted", result)
}

// writeBatchResult prints the outcome of a single-table batch job.
func writeBatchResult(writer io.Writer, format, verb string, result *piiDomain.BatchResult) error {
	if format == "json" {
		return writeJSON(writer, map[string]any{
			"table":     result.Table,
			"processed": result.Processed,
			"failed":    result.Failed,
			"skipped":   result.Skipped,
		})
	}

	_, _ = fmt.Fprintf(writer, "%s %d row(s) of %s\n", verb, result.Processed, result.Table)
	if result.Failed > 0 {
		_, _ = fmt.Fprintf(writer, "%d row(s) failed and were left unchanged, see the logs\n", result.Failed)
	}
	if result.Skipped > 0 {
		_, _ = fmt.Fprintf(writer, "%d row(s) were updated meanwhile and already use the active key\n", result.Skipped)
	}
	return nil
}
