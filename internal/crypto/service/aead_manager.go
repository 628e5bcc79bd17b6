package service

import (
	"fmt"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
)

// AEADManagerService implements AEADManager.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns ErrInvalidKeySize if key is not 32 bytes or
// ErrUnsupportedAlgorithm if alg is unknown.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	switch alg {
	case cryptoDomain.AESGCM:
		return NewAESGCM(key)
	case cryptoDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedAlgorithm, alg)
	}
}
