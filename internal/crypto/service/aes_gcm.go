package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
)

// AESGCMCipher implements AEAD using AES-256-GCM.
//
// Security properties:
//   - 256-bit key
//   - 12-byte nonce, randomly generated per encryption
//   - 16-byte authentication tag appended to the ciphertext
//
// The cipher is stateless and safe for concurrent use. Random 96-bit nonces keep the
// collision probability negligible well past 2^32 encryptions under one key, which is
// far beyond the row count of any PII table; rotation resets the count anyway.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher. The key must be exactly 32 bytes.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	return seal(a.aead, plaintext, aad)
}

// Decrypt opens ciphertext. It never returns partial plaintext: a wrong nonce length,
// a truncated ciphertext, a tag mismatch or a wrong key all yield ErrAuthenticationFailed.
func (a *AESGCMCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	return open(a.aead, ciphertext, nonce, aad)
}

func seal(aead cipher.AEAD, plaintext, aad []byte) ([]byte, []byte, error) {
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return aead.Seal(nil, nonce, plaintext, aad), nonce, nil
}

func open(aead cipher.AEAD, ciphertext, nonce, aad []byte) ([]byte, error) {
	// cipher.AEAD.Open panics on a bad nonce length.
	if len(nonce) != aead.NonceSize() || len(ciphertext) < aead.Overhead() {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
