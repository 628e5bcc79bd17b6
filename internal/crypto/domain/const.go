package domain

import "fmt"

// Algorithm represents the AEAD construction used to encrypt PII fields.
//
// Both supported algorithms provide Authenticated Encryption with Associated Data: a
// single primitive gives confidentiality and tamper detection, so a flipped bit in the
// ciphertext, the nonce, or the associated data makes decryption fail instead of
// yielding different plaintext.
//
// Algorithm selection guidelines:
//   - Use ChaCha20 by default; it is constant time in software on every platform
//   - Use AESGCM on hosts with AES-NI where throughput matters
type Algorithm string

const (
	// AESGCM represents AES-256-GCM.
	//
	// Key features:
	//   - 256-bit key
	//   - 12-byte nonce (96 bits)
	//   - 16-byte authentication tag
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305 (RFC 8439).
	//
	// Key features:
	//   - 256-bit key
	//   - 12-byte nonce (96 bits)
	//   - 16-byte authentication tag
	//   - Constant-time implementation
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of every root, data and HMAC key.
	KeySize = 32

	// NonceSize is the nonce size of both supported AEADs.
	NonceSize = 12

	// TagSize is the authentication tag overhead added to every ciphertext.
	TagSize = 16

	// SaltSize is the size of the random per-version HKDF salt.
	SaltSize = 32
)

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", fmt.Errorf("%w: %q (valid options: aes-gcm, chacha20-poly1305)", ErrUnsupportedAlgorithm, s)
	}
}
