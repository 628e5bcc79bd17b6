// Package mocks provides testify mocks for the database package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of database.TxManager.
type MockTxManager struct {
	mock.Mock
}

// NewMockTxManager creates a MockTxManager and asserts its expectations on cleanup.
func NewMockTxManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTxManager {
	m := &MockTxManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// WithTx returns the configured error, or runs the configured function in place of a
// real transaction when Return was given one (see RunInTx).
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ret := m.Called(ctx, fn)
	if rf, ok := ret.Get(0).(func(context.Context, func(context.Context) error) error); ok {
		return rf(ctx, fn)
	}
	return ret.Error(0)
}

// RunInTx runs fn directly. Use it as the return value of a WithTx expectation.
func RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
