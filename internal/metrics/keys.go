package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// KeyState is the rotation progress observed at scrape time.
type KeyState struct {
	ActiveVersion uint
	// Pending maps a table to the number of rows holding a field under a retired key.
	Pending map[string]int64
}

// KeyStateFunc reads the current KeyState.
type KeyStateFunc func(ctx context.Context) (*KeyState, error)

// RegisterKeyStateGauges exports the active key version and the rows per table still
// waiting for re-encryption. state runs on every collection.
func RegisterKeyStateGauges(
	meterProvider metric.MeterProvider,
	namespace string,
	state KeyStateFunc,
) (metric.Registration, error) {
	meter := meterProvider.Meter(namespace)

	active, err := meter.Int64ObservableGauge(
		namespace+"_active_key_version",
		metric.WithDescription("Key version used for new writes"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active key version gauge: %w", err)
	}

	pending, err := meter.Int64ObservableGauge(
		namespace+"_pending_reencryption_rows",
		metric.WithDescription("Rows holding at least one field under a retired key version"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pending rows gauge: %w", err)
	}

	return meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		s, err := state(ctx)
		if err != nil {
			return err
		}
		o.ObserveInt64(active, int64(s.ActiveVersion))
		for table, rows := range s.Pending {
			o.ObserveInt64(pending, rows, metric.WithAttributes(attribute.String("table", table)))
		}
		return nil
	}, active, pending)
}
