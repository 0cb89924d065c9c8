package iocache

import (
	"github.com/huangsam/whodunit/internal/contract"
	"github.com/huangsam/whodunit/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetOwnerStore implements the CacheManager interface.
func (m *MockCacheManager) GetOwnerStore() contract.OwnerStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.OwnerStore)
	return store
}

// MockOwnerStore is a mock implementation of OwnerStore for testing.
type MockOwnerStore struct {
	mock.Mock
}

var _ contract.OwnerStore = &MockOwnerStore{} // Compile-time check

// GetOwner implements the OwnerStore interface.
func (m *MockOwnerStore) GetOwner(server string, change int) (string, error) {
	args := m.Called(server, change)
	return args.String(0), args.Error(1)
}

// SetOwner implements the OwnerStore interface.
func (m *MockOwnerStore) SetOwner(server string, change int, owner string) error {
	args := m.Called(server, change, owner)
	return args.Error(0)
}

// Close implements the OwnerStore interface.
func (m *MockOwnerStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the OwnerStore interface.
func (m *MockOwnerStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}
