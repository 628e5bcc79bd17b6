package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"text/tabwriter"
	"time"

	cryptoUsecase "github.com/allisson/piivault/internal/crypto/usecase"
	piiUsecase "github.com/allisson/piivault/internal/pii/usecase"
)

type keyVersionOutput struct {
	Version   uint      `json:"version"`
	RootKeyID string    `json:"root_key_id"`
	Algorithm string    `json:"algorithm"`
	Active    bool      `json:"active"`
	Records   int64     `json:"records"`
	CreatedAt time.Time `json:"created_at"`
}

type keyStatusOutput struct {
	Versions []keyVersionOutput `json:"versions"`
	Pending  map[string]int64   `json:"pending"`
}

// RunKeyStatus prints every loaded key version with the number of stored fields under
// it, followed by the rows per table still waiting for re-encryption.
func RunKeyStatus(
	ctx context.Context,
	keyManager cryptoUsecase.KeyManager,
	store piiUsecase.FieldStore,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	statuses, err := keyManager.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read key status: %w", err)
	}

	pending, err := store.PendingCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pending rows: %w", err)
	}

	out := keyStatusOutput{Pending: pending}
	for _, s := range statuses {
		out.Versions = append(out.Versions, keyVersionOutput{
			Version:   s.Version,
			RootKeyID: s.RootKeyID,
			Algorithm: string(s.Algorithm),
			Active:    s.IsActive,
			Records:   s.Records,
			CreatedAt: s.CreatedAt,
		})
	}

	logger.Debug("key status read", slog.Int("total", len(out.Versions)))

	if format == "json" {
		return writeJSON(writer, out)
	}

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "VERSION\tROOT KEY\tALGORITHM\tACTIVE\tRECORDS\tCREATED")
	for _, v := range out.Versions {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%d\t%s\n",
			v.Version, v.RootKeyID, v.Algorithm, v.Active, v.Records, v.CreatedAt.Format(time.RFC3339))
	}
	_ = tw.Flush()

	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "Pending re-encryption:")
	for _, table := range slices.Sorted(maps.Keys(pending)) {
		_, _ = fmt.Fprintf(writer, "  %s: %d\n", table, pending[table])
	}
	return nil
}
