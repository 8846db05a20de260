package iocache

import (
	"context"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetKVStore implements the StoreManager interface.
func (m *MockStoreManager) GetKVStore() contract.KVStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.KVStore)
	return store
}

// MockKVStore is a mock implementation of KVStore for testing.
type MockKVStore struct {
	mock.Mock
}

var _ contract.KVStore = &MockKVStore{} // Compile-time check

// GetMany implements the KVStore interface.
func (m *MockKVStore) GetMany(ctx context.Context, keys ...string) (map[string]contract.Entry, error) {
	args := []any{ctx}
	for _, k := range keys {
		args = append(args, k)
	}
	ret := m.Called(args...)
	entries, _ := ret.Get(0).(map[string]contract.Entry)
	return entries, ret.Error(1)
}

// Set implements the KVStore interface.
func (m *MockKVStore) Set(ctx context.Context, key string, value []byte, version int) error {
	ret := m.Called(ctx, key, value, version)
	return ret.Error(0)
}

// Delete implements the KVStore interface.
func (m *MockKVStore) Delete(ctx context.Context, keys ...string) error {
	args := []any{ctx}
	for _, k := range keys {
		args = append(args, k)
	}
	ret := m.Called(args...)
	return ret.Error(0)
}

// GetStatus implements the KVStore interface.
func (m *MockKVStore) GetStatus() (schema.StoreStatus, error) {
	ret := m.Called()
	status, _ := ret.Get(0).(schema.StoreStatus)
	return status, ret.Error(1)
}

// Close implements the KVStore interface.
func (m *MockKVStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}
