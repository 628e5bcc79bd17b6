// Package usecase manages the lifecycle of key versions.
//
// The KeyManager is the single owner of the process-wide key state. It loads the key
// ring at startup, rotates to a new version on demand, picks up versions created by
// other processes, and purges versions no stored field references any more. Handles to
// it are passed explicitly to the record codec and the field store.
package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
)

// KeyVersionRepository persists key version metadata. Key material is never stored.
//
// Implementations participate in transactions through database.GetTx.
type KeyVersionRepository interface {
	// Create inserts a version. A concurrent insert of the same version number fails
	// with a unique violation.
	Create(ctx context.Context, kv *cryptoDomain.KeyVersion) error

	// DeactivateAll clears the active flag on every version.
	DeactivateAll(ctx context.Context) error

	// List returns every version ordered by version descending.
	List(ctx context.Context) ([]*cryptoDomain.KeyVersion, error)

	// Delete removes a version.
	Delete(ctx context.Context, version uint) error
}

// KeyUsageCounter reports how many stored fields reference each key version.
type KeyUsageCounter interface {
	CountByKeyVersion(ctx context.Context) (map[uint]int64, error)
}

// KeyManager owns the key ring.
//
// ActiveKey and KeyFor are called on every encrypt, decrypt and index operation and
// never touch the database on the hot path.
type KeyManager interface {
	// Load reads every version, derives its keys and installs the ring. When no version
	// exists yet, version 1 is created.
	Load(ctx context.Context) error

	// Refresh re-reads the versions so rotations done by other processes become visible.
	Refresh(ctx context.Context) error

	// ActiveKey returns the version new writes must use.
	ActiveKey() (*cryptoDomain.KeyVersion, error)

	// KeyFor returns a specific version. An unknown version triggers one refresh
	// before ErrKeyNotFound is returned.
	KeyFor(ctx context.Context, version uint) (*cryptoDomain.KeyVersion, error)

	// Rotate creates and activates a new version and demotes the previous one. It does
	// not re-encrypt anything. Returns ErrRotationInProgress when another rotation holds
	// the lock or wins the race in the database.
	Rotate(ctx context.Context) (*cryptoDomain.KeyVersion, error)

	// Purge deletes a retired version once no stored field references it. A version
	// retired less than one key refresh interval ago is refused with ErrKeyInUse, since
	// processes that have not refreshed may still write with it.
	Purge(ctx context.Context, version uint) error

	// Versions returns the loaded version numbers, newest first.
	Versions() []uint

	// Status lists every loaded version with its record count.
	Status(ctx context.Context) ([]*cryptoDomain.KeyVersionStatus, error)

	// RunRefresher calls Refresh every interval until ctx is done.
	RunRefresher(ctx context.Context, interval time.Duration)

	// Close zeroes all key material.
	Close()
}
