package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoUsecase "github.com/allisson/piivault/internal/crypto/usecase"
)

// RunPurgeKey deletes a retired key version. The key manager refuses while any stored
// field still references the version or when it is the active one.
func RunPurgeKey(
	ctx context.Context,
	keyManager cryptoUsecase.KeyManager,
	logger *slog.Logger,
	writer io.Writer,
	version int,
) error {
	if version < 1 {
		return fmt.Errorf("version must be a positive number, got: %d", version)
	}

	if err := keyManager.Purge(ctx, uint(version)); err != nil {
		return fmt.Errorf("failed to purge key version %d: %w", version, err)
	}

	logger.Info("key version purged", slog.Int("key_version", version))
	_, _ = fmt.Fprintf(writer, "Key version %d purged\n", version)
	return nil
}
