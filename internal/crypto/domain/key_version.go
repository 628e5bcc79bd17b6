package domain

import (
	"slices"
	"sync/atomic"
	"time"
)

// Purpose separates the keys derived for one version.
type Purpose string

const (
	// PurposeEncrypt derives the data-encryption key used by the field cipher.
	PurposeEncrypt Purpose = "encrypt"

	// PurposeHMAC derives the key used by the blind indexer.
	PurposeHMAC Purpose = "hmac"
)

// KeyVersion is one generation of field keys.
//
// Exactly one version is active at a time; new writes use it. Older versions stay
// loaded so records written under them can be decrypted and looked up until rotation
// moves them forward, after which the version may be purged.
type KeyVersion struct {
	Version   uint      // Monotonic version number, starting at 1
	RootKeyID string    // Root key the version was derived from
	Algorithm Algorithm // AEAD used for data encrypted under this version
	Salt      []byte    // Random HKDF salt, persisted
	IsActive  bool
	CreatedAt time.Time

	DataKey []byte // Derived in memory, never persisted
	HMACKey []byte // Derived in memory, never persisted
}

// Zeroize clears the derived key material.
func (k *KeyVersion) Zeroize() {
	Zero(k.DataKey)
	Zero(k.HMACKey)
}

type ringState struct {
	active    *KeyVersion
	byVersion map[uint]*KeyVersion
	versions  []uint // descending
}

// KeyRing is the process-wide view of loaded key versions.
//
// Lifecycle: built at startup by the key manager, replaced wholesale on rotation or
// refresh, read by every encrypt, decrypt and index call. Readers see an immutable
// snapshot through an atomic pointer, so lookups never take a lock.
type KeyRing struct {
	state atomic.Pointer[ringState]
}

// NewKeyRing creates a ring from the given versions. The version flagged IsActive wins;
// when none is flagged the highest version is active.
func NewKeyRing(versions []*KeyVersion) *KeyRing {
	ring := &KeyRing{}
	ring.Replace(versions)
	return ring
}

// Replace swaps the ring contents for versions.
func (r *KeyRing) Replace(versions []*KeyVersion) {
	state := &ringState{byVersion: make(map[uint]*KeyVersion, len(versions))}
	for _, kv := range versions {
		state.byVersion[kv.Version] = kv
		state.versions = append(state.versions, kv.Version)
		if kv.IsActive {
			state.active = kv
		}
	}
	slices.SortFunc(state.versions, func(a, b uint) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})
	if state.active == nil && len(state.versions) > 0 {
		state.active = state.byVersion[state.versions[0]]
	}
	r.state.Store(state)
}

// Active returns the version used for new writes.
func (r *KeyRing) Active() (*KeyVersion, bool) {
	state := r.state.Load()
	if state == nil || state.active == nil {
		return nil, false
	}
	return state.active, true
}

// Get returns a loaded version.
func (r *KeyRing) Get(version uint) (*KeyVersion, bool) {
	state := r.state.Load()
	if state == nil {
		return nil, false
	}
	kv, ok := state.byVersion[version]
	return kv, ok
}

// Versions returns the loaded version numbers, newest first.
func (r *KeyRing) Versions() []uint {
	state := r.state.Load()
	if state == nil {
		return nil
	}
	return slices.Clone(state.versions)
}

// All returns the loaded versions, newest first.
func (r *KeyRing) All() []*KeyVersion {
	state := r.state.Load()
	if state == nil {
		return nil
	}
	out := make([]*KeyVersion, 0, len(state.versions))
	for _, v := range state.versions {
		out = append(out, state.byVersion[v])
	}
	return out
}

// Close zeroes every loaded key and empties the ring.
func (r *KeyRing) Close() {
	state := r.state.Swap(nil)
	if state == nil {
		return
	}
	for _, kv := range state.byVersion {
		kv.Zeroize()
	}
}

// KeyVersionStatus summarizes a version and how many stored fields still reference it.
type KeyVersionStatus struct {
	Version   uint
	RootKeyID string
	Algorithm Algorithm
	IsActive  bool
	CreatedAt time.Time
	Records   int64
}
