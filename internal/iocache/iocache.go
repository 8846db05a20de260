// Package iocache is for the durable key-value storage behind gitpet's learning state.
package iocache

import (
	"sync"

	"github.com/huangsam/gitpet/internal/contract"
)

// KVStoreManager manages the process-wide KVStore instance.
type KVStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	kv           contract.KVStore
}

var _ contract.StoreManager = &KVStoreManager{} // Compile-time check

// GetKVStore returns the KVStore.
func (mgr *KVStoreManager) GetKVStore() contract.KVStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.kv
}
