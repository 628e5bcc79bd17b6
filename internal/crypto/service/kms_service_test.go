package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"gocloud.dev/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("local secrets wrap and unwrap", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, keeper.Close())
		}()

		_, ok := keeper.(*secrets.Keeper)
		assert.True(t, ok)

		rootKey := newTestKey(t)
		wrapped, err := keeper.Encrypt(ctx, rootKey)
		require.NoError(t, err)
		assert.NotEqual(t, rootKey, wrapped)

		unwrapped, err := keeper.Decrypt(ctx, wrapped)
		require.NoError(t, err)
		assert.Equal(t, rootKey, unwrapped)
	})

	t.Run("invalid uri", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "invalid://uri")
		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})
}
