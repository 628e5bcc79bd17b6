package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	"github.com/allisson/piivault/internal/crypto/usecase"
	usecaseMocks "github.com/allisson/piivault/internal/crypto/usecase/mocks"
	metricsMocks "github.com/allisson/piivault/internal/metrics/mocks"
)

func TestKeyManagerWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Rotate success", func(t *testing.T) {
		next := usecaseMocks.NewMockKeyManager(t)
		m := &metricsMocks.MockBusinessMetrics{}
		km := usecase.NewKeyManagerWithMetrics(next, m)

		kv := &cryptoDomain.KeyVersion{Version: 2}
		next.On("Rotate", ctx).Return(kv, nil).Once()
		m.ExpectOperation("crypto", "key_rotate", "success")

		got, err := km.Rotate(ctx)
		assert.NoError(t, err)
		assert.Equal(t, kv, got)
		m.AssertExpectations(t)
	})

	t.Run("Rotate error", func(t *testing.T) {
		next := usecaseMocks.NewMockKeyManager(t)
		m := &metricsMocks.MockBusinessMetrics{}
		km := usecase.NewKeyManagerWithMetrics(next, m)

		next.On("Rotate", ctx).Return(nil, cryptoDomain.ErrRotationInProgress).Once()
		m.ExpectOperation("crypto", "key_rotate", "error")

		_, err := km.Rotate(ctx)
		assert.ErrorIs(t, err, cryptoDomain.ErrRotationInProgress)
		m.AssertExpectations(t)
	})

	t.Run("Purge and Load", func(t *testing.T) {
		next := usecaseMocks.NewMockKeyManager(t)
		m := &metricsMocks.MockBusinessMetrics{}
		km := usecase.NewKeyManagerWithMetrics(next, m)

		next.On("Purge", ctx, uint(1)).Return(errors.New("in use")).Once()
		next.On("Load", ctx).Return(nil).Once()
		m.ExpectOperation("crypto", "key_purge", "error")
		m.ExpectOperation("crypto", "key_load", "success")

		assert.Error(t, km.Purge(ctx, 1))
		assert.NoError(t, km.Load(ctx))
		m.AssertExpectations(t)
	})

	t.Run("hot path is not instrumented", func(t *testing.T) {
		next := usecaseMocks.NewMockKeyManager(t)
		m := &metricsMocks.MockBusinessMetrics{}
		km := usecase.NewKeyManagerWithMetrics(next, m)

		kv := &cryptoDomain.KeyVersion{Version: 1}
		next.On("ActiveKey").Return(kv, nil).Once()
		next.On("KeyFor", ctx, uint(1)).Return(kv, nil).Once()

		_, err := km.ActiveKey()
		assert.NoError(t, err)
		_, err = km.KeyFor(ctx, 1)
		assert.NoError(t, err)
		m.AssertNotCalled(t, "RecordOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
