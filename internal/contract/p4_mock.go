package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockP4Client is a mock implementation of P4Client for testing.
type MockP4Client struct {
	mock.Mock
}

var _ P4Client = &MockP4Client{} // Compile-time check

// Run implements the P4Client interface.
func (m *MockP4Client) Run(ctx context.Context, args ...string) ([]byte, error) {
	mockArgs := []any{ctx}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// Annotate implements the P4Client interface.
func (m *MockP4Client) Annotate(ctx context.Context, path string) ([]byte, error) {
	ret := m.Called(ctx, path)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// Describe implements the P4Client interface.
func (m *MockP4Client) Describe(ctx context.Context, change int) ([]byte, error) {
	ret := m.Called(ctx, change)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// ServerKey implements the P4Client interface.
func (m *MockP4Client) ServerKey() string {
	ret := m.Called()
	return ret.String(0)
}
