// Package service provides the cryptographic primitives behind PII field encryption.
//
// It holds the field cipher (AES-256-GCM and ChaCha20-Poly1305 AEADs), the HKDF key
// deriver that turns a root key into per-version data and HMAC keys, the blind indexer,
// and the KMS adapter used to unwrap root keys. Every type here is stateless after
// construction and safe for concurrent use.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and a fresh nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt verifies and decrypts ciphertext. Any failure is ErrAuthenticationFailed.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager creates AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver derives the working keys of a key version from a root key.
type KeyDeriver interface {
	// Derive fills DataKey and HMACKey of kv from rootKey and kv.Salt.
	Derive(rootKey *cryptoDomain.RootKey, kv *cryptoDomain.KeyVersion) error

	// NewSalt returns a random salt for a new key version.
	NewSalt() ([]byte, error)
}

// BlindIndexer computes deterministic equality tokens.
type BlindIndexer interface {
	// Index returns the truncated HMAC of normalized under the field-separated key.
	Index(hmacKey []byte, field string, normalized []byte) []byte

	// Size returns the token length in bytes.
	Size() int
}

// KMSService opens KMS keepers for root key wrapping.
type KMSService interface {
	// OpenKeeper opens a keeper for the configured KMS provider.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
