package core

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strconv"
	"testing"

	"github.com/huangsam/whodunit/internal/contract"
	"github.com/huangsam/whodunit/internal/iocache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func describeOutput(change int, owner string) []byte {
	return []byte("Change " + strconv.Itoa(change) + " by " + owner + "@" + owner + "-ws on 2024/01/01 10:00:00\n\n\tSome description\n\nAffected files ...\n")
}

func TestParseDescribeOwner(t *testing.T) {
	tests := []struct {
		name     string
		change   int
		output   string
		expected string
		wantErr  bool
	}{
		{
			name:     "first line",
			change:   10,
			output:   "Change 10 by amy@amy-ws on 2024/01/01 10:00:00\n\n\tFix\n",
			expected: "amy",
		},
		{
			name:     "owner with dots",
			change:   12,
			output:   "Change 12 by amy.smith@ws on 2024/01/01\n",
			expected: "amy.smith",
		},
		{
			name:     "tagged output prefix",
			change:   7,
			output:   "info: Change 7 by bob@ws on 2024/01/01\n",
			expected: "bob",
		},
		{
			name:     "first matching line wins",
			change:   20,
			output:   "Change 20 by bob@ws\n\n\tReverts Change 10 by amy@ws\n",
			expected: "bob",
		},
		{
			name:    "different change number",
			change:  99,
			output:  "Change 98 by amy@ws on 2024/01/01\n",
			wantErr: true,
		},
		{
			name:    "no change line",
			change:  5,
			output:  "5 - no such changelist.\n",
			wantErr: true,
		},
		{
			name:    "empty output",
			change:  5,
			output:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, err := ParseDescribeOwner(tt.change, []byte(tt.output))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrRecordNotFound)
				assert.Contains(t, err.Error(), strconv.Itoa(tt.change))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, owner)
		})
	}
}

func TestOwnerCache(t *testing.T) {
	cache := NewOwnerCache()
	calls := 0
	compute := func() (string, error) {
		calls++
		return "amy", nil
	}

	owner, err := cache.GetOrCompute(10, compute)
	require.NoError(t, err)
	assert.Equal(t, "amy", owner)

	owner, err = cache.GetOrCompute(10, compute)
	require.NoError(t, err)
	assert.Equal(t, "amy", owner)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())

	_, err = cache.GetOrCompute(20, func() (string, error) { return "", errors.New("boom") })
	assert.Error(t, err)
	assert.Equal(t, 1, cache.Len(), "failures are not cached")
}

func TestOwnerResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("describe runs once per change", func(t *testing.T) {
		client := &contract.MockP4Client{}
		client.On("Describe", mock.Anything, 10).Return(describeOutput(10, "amy"), nil).Once()
		client.On("Describe", mock.Anything, 20).Return(describeOutput(20, "bob"), nil).Once()

		r := NewOwnerResolver(client, nil, nil)
		for _, change := range []int{10, 20, 10, 10, 20} {
			_, err := r.Resolve(ctx, change)
			require.NoError(t, err)
		}
		owner, err := r.Resolve(ctx, 20)
		require.NoError(t, err)
		assert.Equal(t, "bob", owner)

		client.AssertNumberOfCalls(t, "Describe", 2)
		client.AssertExpectations(t)
	})

	t.Run("describe failure is returned and not cached", func(t *testing.T) {
		client := &contract.MockP4Client{}
		client.On("Describe", mock.Anything, 10).Return(nil, contract.ErrCommandFailed).Once()
		client.On("Describe", mock.Anything, 10).Return(describeOutput(10, "amy"), nil).Once()

		r := NewOwnerResolver(client, nil, nil)
		_, err := r.Resolve(ctx, 10)
		require.ErrorIs(t, err, contract.ErrCommandFailed)

		owner, err := r.Resolve(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, "amy", owner)
	})

	t.Run("mismatched describe output", func(t *testing.T) {
		client := &contract.MockP4Client{}
		client.On("Describe", mock.Anything, 99).Return(describeOutput(98, "amy"), nil)

		r := NewOwnerResolver(client, nil, nil)
		_, err := r.Resolve(ctx, 99)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("store hit skips describe", func(t *testing.T) {
		client := &contract.MockP4Client{}
		client.On("ServerKey").Return("perforce:1666")
		store := &iocache.MockOwnerStore{}
		store.On("GetOwner", "perforce:1666", 10).Return("amy", nil).Once()

		r := NewOwnerResolver(client, store, nil)
		owner, err := r.Resolve(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, "amy", owner)

		client.AssertNotCalled(t, "Describe", mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("store miss writes back", func(t *testing.T) {
		client := &contract.MockP4Client{}
		client.On("ServerKey").Return("ssl:perforce:1666")
		client.On("Describe", mock.Anything, 30).Return(describeOutput(30, "cleo"), nil).Once()
		store := &iocache.MockOwnerStore{}
		store.On("GetOwner", "ssl:perforce:1666", 30).Return("", sql.ErrNoRows).Once()
		store.On("SetOwner", "ssl:perforce:1666", 30, "cleo").Return(nil).Once()

		r := NewOwnerResolver(client, store, nil)
		owner, err := r.Resolve(ctx, 30)
		require.NoError(t, err)
		assert.Equal(t, "cleo", owner)

		// Second lookup is served from memory
		_, err = r.Resolve(ctx, 30)
		require.NoError(t, err)

		client.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("store errors fall back to describe", func(t *testing.T) {
		client := &contract.MockP4Client{}
		client.On("ServerKey").Return("ssl:perforce:1666")
		client.On("Describe", mock.Anything, 30).Return(describeOutput(30, "cleo"), nil).Once()
		store := &iocache.MockOwnerStore{}
		store.On("GetOwner", "ssl:perforce:1666", 30).Return("", errors.New("database is locked"))
		store.On("SetOwner", "ssl:perforce:1666", 30, "cleo").Return(errors.New("database is locked"))

		r := NewOwnerResolver(client, store, nil)
		owner, err := r.Resolve(ctx, 30)
		require.NoError(t, err)
		assert.Equal(t, "cleo", owner)
	})

	t.Run("unidentified server bypasses store", func(t *testing.T) {
		client := &contract.MockP4Client{}
		client.On("ServerKey").Return("")
		client.On("Describe", mock.Anything, 20).Return(describeOutput(20, "bob"), nil).Once()
		store := &iocache.MockOwnerStore{}

		r := NewOwnerResolver(client, store, contract.NewLogger(1, io.Discard))
		owner, err := r.Resolve(ctx, 20)
		require.NoError(t, err)
		assert.Equal(t, "bob", owner)

		store.AssertNotCalled(t, "GetOwner", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "SetOwner", mock.Anything, mock.Anything, mock.Anything)
		client.AssertExpectations(t)
	})
}
