package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	cryptoService "github.com/allisson/piivault/internal/crypto/service"
	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
)

// keyManager implements KeyManager.
type keyManager struct {
	txManager    database.TxManager
	repo         KeyVersionRepository
	usage        KeyUsageCounter
	deriver      cryptoService.KeyDeriver
	rootKeyChain *cryptoDomain.RootKeyChain
	algorithm    cryptoDomain.Algorithm
	retireGrace  time.Duration
	logger       *slog.Logger

	ring     *cryptoDomain.KeyRing
	rotateMu sync.Mutex
	refresh  singleflight.Group
}

// NewKeyManager creates a KeyManager. New versions use alg and derive from the active
// root key of rootKeyChain. usage may be nil, in which case Purge is refused.
//
// retireGrace is the key refresh interval of the deployment. Purge refuses a version
// demoted less than retireGrace ago, since a process that has not refreshed yet may
// still be writing with it. Zero disables the wait.
func NewKeyManager(
	txManager database.TxManager,
	repo KeyVersionRepository,
	usage KeyUsageCounter,
	deriver cryptoService.KeyDeriver,
	rootKeyChain *cryptoDomain.RootKeyChain,
	alg cryptoDomain.Algorithm,
	retireGrace time.Duration,
	logger *slog.Logger,
) KeyManager {
	return &keyManager{
		txManager:    txManager,
		repo:         repo,
		usage:        usage,
		deriver:      deriver,
		rootKeyChain: rootKeyChain,
		algorithm:    alg,
		retireGrace:  retireGrace,
		logger:       logger,
		ring:         cryptoDomain.NewKeyRing(nil),
	}
}

func (k *keyManager) Load(ctx context.Context) error {
	versions, err := k.repo.List(ctx)
	if err != nil {
		return err
	}

	if len(versions) == 0 {
		kv, err := k.newVersion(1)
		if err != nil {
			return err
		}
		if err := k.repo.Create(ctx, kv); err != nil {
			// Another process bootstrapped concurrently; its version 1 wins.
			if !database.IsUniqueViolation(err) {
				return err
			}
		} else {
			k.logger.Info("created initial key version",
				slog.Uint64("key_version", uint64(kv.Version)),
				slog.String("root_key_id", kv.RootKeyID),
				slog.String("algorithm", string(kv.Algorithm)),
			)
		}
	}

	if err := k.Refresh(ctx); err != nil {
		return err
	}

	active, err := k.ActiveKey()
	if err != nil {
		return err
	}
	k.logger.Info("key ring loaded",
		slog.Uint64("active_key_version", uint64(active.Version)),
		slog.Int("total", len(k.ring.Versions())),
	)
	return nil
}

func (k *keyManager) Refresh(ctx context.Context) error {
	_, err, _ := k.refresh.Do("refresh", func() (any, error) {
		return nil, k.reload(ctx)
	})
	return err
}

// reload re-reads versions and derives keys for those not loaded yet. Already derived
// versions keep their key material.
func (k *keyManager) reload(ctx context.Context) error {
	stored, err := k.repo.List(ctx)
	if err != nil {
		return err
	}

	loaded := make([]*cryptoDomain.KeyVersion, 0, len(stored))
	var activeLoaded bool
	for _, kv := range stored {
		if current, ok := k.ring.Get(kv.Version); ok && string(current.Salt) == string(kv.Salt) {
			kv.DataKey = current.DataKey
			kv.HMACKey = current.HMACKey
		} else {
			rootKey, ok := k.rootKeyChain.Get(kv.RootKeyID)
			if !ok {
				if kv.IsActive {
					return fmt.Errorf("%w: %s (active key version %d)",
						cryptoDomain.ErrRootKeyNotFound, kv.RootKeyID, kv.Version)
				}
				k.logger.Warn("skipping key version with unknown root key",
					slog.Uint64("key_version", uint64(kv.Version)),
					slog.String("root_key_id", kv.RootKeyID),
				)
				continue
			}
			if err := k.deriver.Derive(rootKey, kv); err != nil {
				return apperrors.Wrap(err, fmt.Sprintf("failed to derive key version %d", kv.Version))
			}
		}
		activeLoaded = activeLoaded || kv.IsActive
		loaded = append(loaded, kv)
	}

	if !activeLoaded {
		return cryptoDomain.ErrNoActiveKey
	}

	k.ring.Replace(loaded)
	return nil
}

func (k *keyManager) ActiveKey() (*cryptoDomain.KeyVersion, error) {
	kv, ok := k.ring.Active()
	if !ok {
		return nil, cryptoDomain.ErrNoActiveKey
	}
	return kv, nil
}

func (k *keyManager) KeyFor(ctx context.Context, version uint) (*cryptoDomain.KeyVersion, error) {
	if kv, ok := k.ring.Get(version); ok {
		return kv, nil
	}

	// The version may have been created by a rotation in another process.
	if err := k.Refresh(ctx); err != nil {
		k.logger.Warn("key refresh failed", slog.Any("error", err))
	}
	if kv, ok := k.ring.Get(version); ok {
		return kv, nil
	}

	return nil, fmt.Errorf("%w: %d", cryptoDomain.ErrKeyNotFound, version)
}

func (k *keyManager) Rotate(ctx context.Context) (*cryptoDomain.KeyVersion, error) {
	if !k.rotateMu.TryLock() {
		return nil, cryptoDomain.ErrRotationInProgress
	}
	defer k.rotateMu.Unlock()

	var created *cryptoDomain.KeyVersion
	err := k.txManager.WithTx(ctx, func(ctx context.Context) error {
		versions, err := k.repo.List(ctx)
		if err != nil {
			return err
		}

		next := uint(1)
		if len(versions) > 0 {
			next = versions[0].Version + 1
		}

		kv, err := k.newVersion(next)
		if err != nil {
			return err
		}

		if err := k.repo.DeactivateAll(ctx); err != nil {
			return err
		}
		if err := k.repo.Create(ctx, kv); err != nil {
			if database.IsUniqueViolation(err) {
				return cryptoDomain.ErrRotationInProgress
			}
			return err
		}

		created = kv
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := k.Refresh(ctx); err != nil {
		return nil, err
	}

	k.logger.Info("key version rotated",
		slog.Uint64("key_version", uint64(created.Version)),
		slog.String("root_key_id", created.RootKeyID),
		slog.String("algorithm", string(created.Algorithm)),
	)

	if kv, ok := k.ring.Get(created.Version); ok {
		return kv, nil
	}
	return created, nil
}

func (k *keyManager) Purge(ctx context.Context, version uint) error {
	if k.usage == nil {
		return apperrors.Wrap(cryptoDomain.ErrKeyInUse, "usage counter not configured")
	}

	if err := k.Refresh(ctx); err != nil {
		return err
	}

	kv, ok := k.ring.Get(version)
	if !ok {
		return fmt.Errorf("%w: %d", cryptoDomain.ErrKeyNotFound, version)
	}
	if kv.IsActive {
		return fmt.Errorf("%w: version %d is active", cryptoDomain.ErrKeyInUse, version)
	}
	if retired, ok := k.retiredAt(version); ok && k.retireGrace > 0 {
		if wait := k.retireGrace - time.Since(retired); wait > 0 {
			return fmt.Errorf(
				"%w: version %d was retired at %s, retry in %s",
				cryptoDomain.ErrKeyInUse, version, retired.Format(time.RFC3339), wait.Round(time.Second),
			)
		}
	}

	counts, err := k.usage.CountByKeyVersion(ctx)
	if err != nil {
		return err
	}
	if n := counts[version]; n > 0 {
		return fmt.Errorf("%w: version %d referenced by %d fields", cryptoDomain.ErrKeyInUse, version, n)
	}

	if err := k.repo.Delete(ctx, version); err != nil {
		return err
	}
	if err := k.Refresh(ctx); err != nil {
		return err
	}
	kv.Zeroize()

	k.logger.Info("key version purged", slog.Uint64("key_version", uint64(version)))
	return nil
}

// retiredAt returns when version stopped being active: the creation time of the
// oldest version newer than it.
func (k *keyManager) retiredAt(version uint) (time.Time, bool) {
	var next *cryptoDomain.KeyVersion
	for _, kv := range k.ring.All() {
		if kv.Version > version && (next == nil || kv.Version < next.Version) {
			next = kv
		}
	}
	if next == nil {
		return time.Time{}, false
	}
	return next.CreatedAt, true
}

func (k *keyManager) Versions() []uint {
	return k.ring.Versions()
}

func (k *keyManager) Status(ctx context.Context) ([]*cryptoDomain.KeyVersionStatus, error) {
	var counts map[uint]int64
	if k.usage != nil {
		var err error
		if counts, err = k.usage.CountByKeyVersion(ctx); err != nil {
			return nil, err
		}
	}

	all := k.ring.All()
	statuses := make([]*cryptoDomain.KeyVersionStatus, 0, len(all))
	for _, kv := range all {
		statuses = append(statuses, &cryptoDomain.KeyVersionStatus{
			Version:   kv.Version,
			RootKeyID: kv.RootKeyID,
			Algorithm: kv.Algorithm,
			IsActive:  kv.IsActive,
			CreatedAt: kv.CreatedAt,
			Records:   counts[kv.Version],
		})
	}
	return statuses, nil
}

func (k *keyManager) RunRefresher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			before, _ := k.ring.Active()
			if err := k.Refresh(ctx); err != nil {
				if ctx.Err() == nil {
					k.logger.Warn("periodic key refresh failed", slog.Any("error", err))
				}
				continue
			}
			if after, ok := k.ring.Active(); ok && before != nil && after.Version != before.Version {
				k.logger.Info("active key version changed",
					slog.Uint64("key_version", uint64(after.Version)),
				)
			}
		}
	}
}

func (k *keyManager) Close() {
	k.ring.Close()
}

func (k *keyManager) newVersion(version uint) (*cryptoDomain.KeyVersion, error) {
	salt, err := k.deriver.NewSalt()
	if err != nil {
		return nil, err
	}

	rootKeyID := k.rootKeyChain.ActiveRootKeyID()
	if _, ok := k.rootKeyChain.Get(rootKeyID); !ok {
		return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrRootKeyNotFound, rootKeyID)
	}

	return &cryptoDomain.KeyVersion{
		Version:   version,
		RootKeyID: rootKeyID,
		Algorithm: k.algorithm,
		Salt:      salt,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}, nil
}
