// Package iocache is for caching p4 calls across runs.
package iocache

import (
	"sync"

	"github.com/huangsam/whodunit/internal/contract"
)

// CacheStoreManager manages the owner store instance.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	owners       contract.OwnerStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetOwnerStore returns the owner store, or nil before initialization.
func (mgr *CacheStoreManager) GetOwnerStore() contract.OwnerStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.owners
}
