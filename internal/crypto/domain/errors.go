package domain

import (
	"github.com/allisson/piivault/internal/errors"
)

// Cryptographic error definitions.
//
// Each error wraps one of the shared sentinels from internal/errors so callers above
// this layer can tell an input problem from an integrity failure from a transient
// condition without matching strings.
var (
	// ErrUnsupportedAlgorithm indicates the configured AEAD algorithm is unknown.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a root, data or HMAC key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrAuthenticationFailed indicates the AEAD integrity check failed.
	//
	// Possible causes:
	//   - Ciphertext, nonce or associated data was modified
	//   - Ciphertext was truncated
	//   - The record was decrypted with the wrong key version
	//
	// The cause is deliberately not disclosed. Callers must treat it as corruption or
	// tampering and never as "no value".
	ErrAuthenticationFailed = errors.Wrap(errors.ErrIntegrity, "authentication failed")

	// ErrKeyNotFound indicates a record references a key version that is not loaded.
	// It is fatal for that record only.
	ErrKeyNotFound = errors.Wrap(errors.ErrIntegrity, "key version not found")

	// ErrNoActiveKey indicates the key ring has no active version (not loaded yet).
	ErrNoActiveKey = errors.Wrap(errors.ErrIntegrity, "no active key version")

	// ErrRotationInProgress indicates another rotation currently holds the rotation lock.
	ErrRotationInProgress = errors.Wrap(errors.ErrLocked, "key rotation already in progress")

	// ErrKeyInUse indicates a purge was requested for a version still referenced by
	// stored records, or for the active version.
	ErrKeyInUse = errors.Wrap(errors.ErrConflict, "key version still in use")

	// ErrRootKeyNotFound indicates a key version references an unknown root key ID.
	ErrRootKeyNotFound = errors.Wrap(errors.ErrNotFound, "root key not found")

	// ErrRootKeysNotSet indicates ROOT_KEYS is empty.
	ErrRootKeysNotSet = errors.Wrap(errors.ErrInvalidInput, "ROOT_KEYS not set")

	// ErrActiveRootKeyIDNotSet indicates ACTIVE_ROOT_KEY_ID is empty.
	ErrActiveRootKeyIDNotSet = errors.Wrap(errors.ErrInvalidInput, "ACTIVE_ROOT_KEY_ID not set")

	// ErrInvalidRootKeysFormat indicates a ROOT_KEYS entry is not "id:base64".
	ErrInvalidRootKeysFormat = errors.Wrap(errors.ErrInvalidInput, "invalid ROOT_KEYS format")

	// ErrInvalidRootKeyBase64 indicates a ROOT_KEYS entry is not valid base64.
	ErrInvalidRootKeyBase64 = errors.Wrap(errors.ErrInvalidInput, "invalid root key base64")

	// ErrActiveRootKeyNotFound indicates ACTIVE_ROOT_KEY_ID is not among ROOT_KEYS.
	ErrActiveRootKeyNotFound = errors.Wrap(errors.ErrInvalidInput, "active root key not found")

	// ErrKMSKeyURINotSet indicates KMS_PROVIDER is set without KMS_KEY_URI.
	ErrKMSKeyURINotSet = errors.Wrap(errors.ErrInvalidInput, "KMS_KEY_URI not set")
)
