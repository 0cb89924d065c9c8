package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/whodunit/internal/contract"
)

// ErrRecordNotFound is returned when `p4 describe` output does not confirm
// the owner of the requested change.
var ErrRecordNotFound = errors.New("p4 describe record not found")

var describeOwnerRe = regexp.MustCompile(`Change (\d+) by ([^@]+)@`)

// OwnerCache memoizes change owners for the lifetime of one file's processing.
type OwnerCache struct {
	owners map[int]string
}

// NewOwnerCache returns an empty cache.
func NewOwnerCache() *OwnerCache {
	return &OwnerCache{owners: make(map[int]string)}
}

// GetOrCompute returns the cached owner for change, calling compute on a miss.
// Failed computations are not cached.
func (c *OwnerCache) GetOrCompute(change int, compute func() (string, error)) (string, error) {
	if owner, ok := c.owners[change]; ok {
		return owner, nil
	}
	owner, err := compute()
	if err != nil {
		return "", err
	}
	c.owners[change] = owner
	return owner, nil
}

// Len returns the number of distinct changes resolved so far.
func (c *OwnerCache) Len() int {
	return len(c.owners)
}

// OwnerResolver maps change numbers to their owners.
// At most one describe command is issued per distinct change.
type OwnerResolver struct {
	client contract.P4Client
	store  contract.OwnerStore // optional durable layer
	cache  *OwnerCache
	log    *contract.Logger

	warnedKey bool
}

// NewOwnerResolver creates a resolver with a fresh cache.
// store may be nil, in which case every cache miss runs `p4 describe`.
func NewOwnerResolver(client contract.P4Client, store contract.OwnerStore, log *contract.Logger) *OwnerResolver {
	return &OwnerResolver{
		client: client,
		store:  store,
		cache:  NewOwnerCache(),
		log:    log,
	}
}

// Resolve returns the owner of change.
func (r *OwnerResolver) Resolve(ctx context.Context, change int) (string, error) {
	return r.cache.GetOrCompute(change, func() (string, error) {
		return r.lookup(ctx, change)
	})
}

// lookup consults the durable store and then p4.
func (r *OwnerResolver) lookup(ctx context.Context, change int) (string, error) {
	server := r.storeKey()
	if server != "" {
		owner, err := r.store.GetOwner(server, change)
		switch {
		case err == nil:
			r.log.V(2, "change %d owner %s (cached)", change, owner)
			return owner, nil
		case !errors.Is(err, sql.ErrNoRows):
			contract.LogWarn(fmt.Sprintf("Cannot read owner of change %d from cache", change), err)
		}
	}

	out, err := r.client.Describe(ctx, change)
	if err != nil {
		return "", err
	}
	owner, err := ParseDescribeOwner(change, out)
	if err != nil {
		return "", err
	}
	r.log.V(2, "change %d owner %s", change, owner)

	if server != "" {
		if err := r.store.SetOwner(server, change, owner); err != nil {
			contract.LogWarn(fmt.Sprintf("Cannot write owner of change %d to cache", change), err)
		}
	}
	return owner, nil
}

// storeKey returns the server key for the durable store, or "" when the
// store is disabled. Owners of an unidentified server are never stored,
// since change numbers are only unique per server.
func (r *OwnerResolver) storeKey() string {
	if r.store == nil {
		return ""
	}
	server := r.client.ServerKey()
	if server == "" && !r.warnedKey {
		r.warnedKey = true
		r.log.V(1, "cannot identify the Perforce server; owner cache disabled")
	}
	return server
}

// ParseDescribeOwner extracts the owner from `p4 describe -s` output.
// The first `Change N by owner@client` line must name the requested change.
func ParseDescribeOwner(change int, out []byte) (string, error) {
	for line := range strings.SplitSeq(string(out), "\n") {
		match := describeOwnerRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		got, err := strconv.Atoi(match[1])
		if err != nil || got != change {
			break
		}
		return match[2], nil
	}
	return "", fmt.Errorf("%w for %d", ErrRecordNotFound, change)
}
