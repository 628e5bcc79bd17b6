// Package domain defines the key material model behind PII field encryption.
//
// The hierarchy has two tiers: externally supplied root keys and versioned key pairs
// derived from them. A KeyVersion holds one data-encryption key and one HMAC key, both
// derived in memory from a root key and a random per-version salt. Only the salt and the
// root key ID are persisted, so the database alone never reveals key material.
package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// RootKey is externally supplied secret material from which key versions are derived.
//
// Root keys come from the environment (optionally wrapped by a KMS keeper) and are never
// written to the database.
type RootKey struct {
	ID  string
	Key []byte
}

// RootKeyChain holds every configured root key with one designated as active.
//
// Older root keys stay in the chain so key versions derived from them remain usable
// until their records are re-encrypted. New key versions always derive from the active
// root key.
type RootKeyChain struct {
	activeID string
	keys     sync.Map
}

// ActiveRootKeyID returns the ID of the root key used for new key versions.
func (r *RootKeyChain) ActiveRootKeyID() string {
	return r.activeID
}

// Get returns the root key with the given ID.
func (r *RootKeyChain) Get(id string) (*RootKey, bool) {
	if rootKey, ok := r.keys.Load(id); ok {
		return rootKey.(*RootKey), ok
	}
	return nil, false
}

// IDs returns the IDs of every loaded root key.
func (r *RootKeyChain) IDs() []string {
	var ids []string
	r.keys.Range(func(key, _ any) bool {
		ids = append(ids, key.(string))
		return true
	})
	return ids
}

// Close zeroes every root key and empties the chain.
func (r *RootKeyChain) Close() {
	r.keys.Range(func(_, value any) bool {
		if rootKey, ok := value.(*RootKey); ok {
			Zero(rootKey.Key)
		}
		return true
	})
	r.activeID = ""
	r.keys.Clear()
}

// NewRootKeyChain builds a chain from already decoded keys. Keys are copied.
func NewRootKeyChain(activeID string, keys ...*RootKey) (*RootKeyChain, error) {
	chain := &RootKeyChain{activeID: activeID}
	for _, key := range keys {
		if len(key.Key) != KeySize {
			chain.Close()
			return nil, fmt.Errorf("%w: root key %s must be %d bytes, got %d",
				ErrInvalidKeySize, key.ID, KeySize, len(key.Key))
		}
		material := make([]byte, KeySize)
		copy(material, key.Key)
		chain.keys.Store(key.ID, &RootKey{ID: key.ID, Key: material})
	}

	if _, ok := chain.Get(activeID); !ok {
		chain.Close()
		return nil, fmt.Errorf("%w: ACTIVE_ROOT_KEY_ID=%s", ErrActiveRootKeyNotFound, activeID)
	}

	return chain, nil
}

// KMSKeeper wraps and unwraps root keys with an external KMS. *secrets.Keeper satisfies it.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens KMS keepers by URI.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}

// RootKeySource describes where root keys come from.
//
// Keys is a comma-separated list of "id:base64" entries. When KMSProvider is set every
// base64 payload is a KMS ciphertext that is unwrapped through the keeper at KMSKeyURI;
// otherwise it is the raw 32-byte key.
type RootKeySource struct {
	Keys        string
	ActiveID    string
	KMSProvider string
	KMSKeyURI   string
}

// LoadRootKeyChain parses and, when configured, KMS-unwraps the root keys.
//
// Decoded key bytes are copied into the chain and the temporaries zeroed. On any error
// the partially built chain is closed.
func LoadRootKeyChain(
	ctx context.Context,
	source RootKeySource,
	kmsService KMSService,
	logger *slog.Logger,
) (*RootKeyChain, error) {
	if strings.TrimSpace(source.Keys) == "" {
		return nil, ErrRootKeysNotSet
	}
	if source.ActiveID == "" {
		return nil, ErrActiveRootKeyIDNotSet
	}

	var keeper KMSKeeper
	if source.KMSProvider != "" {
		if source.KMSKeyURI == "" {
			return nil, ErrKMSKeyURINotSet
		}
		var err error
		keeper, err = kmsService.OpenKeeper(ctx, source.KMSKeyURI)
		if err != nil {
			return nil, err
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil && logger != nil {
				logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
			}
		}()
		if logger != nil {
			logger.Info("unwrapping root keys with KMS", slog.String("kms_provider", source.KMSProvider))
		}
	}

	var keys []*RootKey
	defer func() {
		for _, key := range keys {
			Zero(key.Key)
		}
	}()

	for part := range strings.SplitSeq(source.Keys, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 || p[0] == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRootKeysFormat, part)
		}
		id := p[0]

		payload, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidRootKeyBase64, id, err)
		}

		if keeper != nil {
			plaintext, err := keeper.Decrypt(ctx, payload)
			if err != nil {
				return nil, fmt.Errorf("failed to unwrap root key %s: %w", id, err)
			}
			payload = plaintext
		}

		keys = append(keys, &RootKey{ID: id, Key: payload})
	}

	return NewRootKeyChain(source.ActiveID, keys...)
}
