package service

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
)

// HKDFKeyDeriver derives key version material with HKDF-SHA256.
//
// For version v the info string is "piivault/<purpose>/v<v>", so the data key and the
// HMAC key of one version are independent and no two versions share a key even when
// they come from the same root key and, improbably, the same salt.
type HKDFKeyDeriver struct{}

// NewKeyDeriver creates a new HKDFKeyDeriver.
func NewKeyDeriver() *HKDFKeyDeriver {
	return &HKDFKeyDeriver{}
}

// Derive fills kv.DataKey and kv.HMACKey.
func (d *HKDFKeyDeriver) Derive(rootKey *cryptoDomain.RootKey, kv *cryptoDomain.KeyVersion) error {
	if rootKey == nil || len(rootKey.Key) != cryptoDomain.KeySize {
		return cryptoDomain.ErrInvalidKeySize
	}
	if len(kv.Salt) == 0 {
		return fmt.Errorf("key version %d has no salt", kv.Version)
	}

	dataKey, err := deriveKey(rootKey.Key, kv.Salt, cryptoDomain.PurposeEncrypt, kv.Version)
	if err != nil {
		return err
	}
	hmacKey, err := deriveKey(rootKey.Key, kv.Salt, cryptoDomain.PurposeHMAC, kv.Version)
	if err != nil {
		cryptoDomain.Zero(dataKey)
		return err
	}

	kv.DataKey = dataKey
	kv.HMACKey = hmacKey
	return nil
}

// NewSalt returns SaltSize random bytes.
func (d *HKDFKeyDeriver) NewSalt() ([]byte, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

func deriveKey(secret, salt []byte, purpose cryptoDomain.Purpose, version uint) ([]byte, error) {
	info := fmt.Sprintf("piivault/%s/v%d", purpose, version)
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive %s key: %w", purpose, err)
	}
	return key, nil
}
