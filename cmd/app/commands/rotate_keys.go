package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	piiUsecase "github.com/allisson/piivault/internal/pii/usecase"
)

// RunRotateKeys activates a new key version. With reencrypt set, every stored field is
// then moved to the new version in batches of batchSize; otherwise old records stay
// readable under their original version and can be moved later with reencrypt.
//
// Requirements: Database must be migrated and ROOT_KEYS and ACTIVE_ROOT_KEY_ID must be set.
func RunRotateKeys(
	ctx context.Context,
	pii piiUsecase.Service,
	logger *slog.Logger,
	writer io.Writer,
	reencrypt bool,
	batchSize int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := validateBatchSize(batchSize); err != nil {
		return err
	}

	logger.Info("rotating keys", slog.Bool("reencrypt", reencrypt), slog.Int("batch", batchSize))

	report, err := pii.RotateKeys(ctx, reencrypt, batchSize)
	if err != nil {
		return fmt.Errorf("failed to rotate keys: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"key_version": report.KeyVersion,
			"reencrypted": report.Reencrypted,
		})
	}

	_, _ = fmt.Fprintf(writer, "Key version %d is now active\n", report.KeyVersion)
	if reencrypt {
		_, _ = fmt.Fprintf(writer, "Re-encrypted %d row(s)\n", report.Reencrypted)
	} else {
		_, _ = fmt.Fprintln(writer, "Existing records were not re-encrypted; run 'app reencrypt' to move them")
	}
	return nil
}
