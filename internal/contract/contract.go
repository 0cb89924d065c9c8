// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/whodunit/schema"
)

// P4Client defines the Perforce operations needed to reconstruct line history.
// This allows the core logic to be tested without needing a real p4 executable.
type P4Client interface {
	// Run executes a p4 command and returns the combined stdout/stderr output.
	// A non-zero exit status is returned as an error wrapping ErrCommandFailed.
	Run(ctx context.Context, args ...string) ([]byte, error)

	// Annotate returns the raw `p4 -s annotate -a -i -I` output for a file.
	Annotate(ctx context.Context, path string) ([]byte, error)

	// Describe returns the raw `p4 describe -s` output for a change.
	Describe(ctx context.Context, change int) ([]byte, error)

	// ServerKey identifies the Perforce server the client talks to.
	// It is empty when the server cannot be identified.
	ServerKey() string
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetOwnerStore() OwnerStore
}

// OwnerStore persists change owners across runs.
// GetOwner returns sql.ErrNoRows when the change is unknown.
type OwnerStore interface {
	GetOwner(server string, change int) (string, error)
	SetOwner(server string, change int, owner string) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
