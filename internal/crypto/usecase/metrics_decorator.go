package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	"github.com/allisson/piivault/internal/metrics"
)

// keyManagerWithMetrics decorates KeyManager with metrics instrumentation. The hot-path
// lookups (ActiveKey, KeyFor, Versions) pass straight through.
type keyManagerWithMetrics struct {
	next    KeyManager
	metrics metrics.BusinessMetrics
}

// NewKeyManagerWithMetrics wraps a KeyManager with metrics recording.
func NewKeyManagerWithMetrics(keyManager KeyManager, m metrics.BusinessMetrics) KeyManager {
	return &keyManagerWithMetrics{
		next:    keyManager,
		metrics: m,
	}
}

func (k *keyManagerWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "crypto", operation, status)
	k.metrics.RecordDuration(ctx, "crypto", operation, time.Since(start), status)
}

// Load records metrics for key ring loading.
func (k *keyManagerWithMetrics) Load(ctx context.Context) error {
	start := time.Now()
	err := k.next.Load(ctx)
	k.record(ctx, "key_load", start, err)
	return err
}

// Refresh records metrics for key ring refreshes.
func (k *keyManagerWithMetrics) Refresh(ctx context.Context) error {
	start := time.Now()
	err := k.next.Refresh(ctx)
	k.record(ctx, "key_refresh", start, err)
	return err
}

func (k *keyManagerWithMetrics) ActiveKey() (*cryptoDomain.KeyVersion, error) {
	return k.next.ActiveKey()
}

func (k *keyManagerWithMetrics) KeyFor(ctx context.Context, version uint) (*cryptoDomain.KeyVersion, error) {
	return k.next.KeyFor(ctx, version)
}

// Rotate records metrics for key rotations.
func (k *keyManagerWithMetrics) Rotate(ctx context.Context) (*cryptoDomain.KeyVersion, error) {
	start := time.Now()
	kv, err := k.next.Rotate(ctx)
	k.record(ctx, "key_rotate", start, err)
	return kv, err
}

// Purge records metrics for key purges.
func (k *keyManagerWithMetrics) Purge(ctx context.Context, version uint) error {
	start := time.Now()
	err := k.next.Purge(ctx, version)
	k.record(ctx, "key_purge", start, err)
	return err
}

func (k *keyManagerWithMetrics) Versions() []uint {
	return k.next.Versions()
}

func (k *keyManagerWithMetrics) Status(ctx context.Context) ([]*cryptoDomain.KeyVersionStatus, error) {
	return k.next.Status(ctx)
}

func (k *keyManagerWithMetrics) RunRefresher(ctx context.Context, interval time.Duration) {
	k.next.RunRefresher(ctx, interval)
}

func (k *keyManagerWithMetrics) Close() {
	k.next.Close()
}
