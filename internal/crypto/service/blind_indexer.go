package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
)

const (
	// DefaultBlindIndexSize is the full HMAC-SHA256 output.
	DefaultBlindIndexSize = sha256.Size

	// MinBlindIndexSize keeps accidental collisions negligible for any realistic table.
	MinBlindIndexSize = 16
)

// HMACBlindIndexer implements BlindIndexer with HMAC-SHA256.
//
// The version HMAC key is first separated per field, so the same string stored as an
// email and as a phone number produces unrelated tokens and cannot be correlated across
// columns.
type HMACBlindIndexer struct {
	size int
}

// NewBlindIndexer creates an indexer producing tokens of size bytes.
func NewBlindIndexer(size int) (*HMACBlindIndexer, error) {
	if size < MinBlindIndexSize || size > sha256.Size {
		return nil, fmt.Errorf("blind index size must be between %d and %d, got %d",
			MinBlindIndexSize, sha256.Size, size)
	}
	return &HMACBlindIndexer{size: size}, nil
}

// Index returns HMAC(HMAC(hmacKey, field), normalized) truncated to Size bytes.
func (b *HMACBlindIndexer) Index(hmacKey []byte, field string, normalized []byte) []byte {
	mac := hmac.New(sha256.New, hmacKey)
	mac.Write([]byte("piivault/blind-index/" + field))
	fieldKey := mac.Sum(nil)

	mac = hmac.New(sha256.New, fieldKey)
	mac.Write(normalized)
	sum := mac.Sum(nil)
	return sum[:b.size]
}

// Size returns the token length in bytes.
func (b *HMACBlindIndexer) Size() int {
	return b.size
}
