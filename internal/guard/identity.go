package guard

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stockroom/admin-cli/internal/session"
)

// IdentityKey is the cache key of the "who am I" query
const IdentityKey = "info"

// DefaultStaleTime is how long a resolved identity is considered fresh
const DefaultStaleTime = 5 * time.Minute

// IdentityClient resolves the current user
type IdentityClient interface {
	UserInfo(ctx context.Context) (session.User, error)
}

type identityResult struct {
	user      session.User
	fetchedAt time.Time
}

// Identity is the cached "who am I" query shared by the guards.
// Concurrent fetches share one request and failures are never cached.
type Identity struct {
	client    IdentityClient
	staleTime time.Duration
	now       func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	result   *identityResult
	inFlight int
}

// NewIdentity creates a new identity query
func NewIdentity(client IdentityClient, staleTime time.Duration) *Identity {
	return &Identity{client: client, staleTime: staleTime, now: time.Now}
}

// Cached returns the last resolved identity regardless of its freshness
func (i *Identity) Cached() (session.User, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.result == nil {
		return session.User{}, false
	}
	return i.result.user, true
}

// Fresh returns the last resolved identity if it is within the freshness window
func (i *Identity) Fresh() (session.User, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.fresh()
}

func (i *Identity) fresh() (session.User, bool) {
	if i.result == nil || i.now().Sub(i.result.fetchedAt) >= i.staleTime {
		return session.User{}, false
	}
	return i.result.user, true
}

// InFlight returns true while the query is being fetched
func (i *Identity) InFlight() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.inFlight > 0
}

// Invalidate drops the cached identity
func (i *Identity) Invalidate() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.result = nil
}

// Fetch returns the fresh cached identity or resolves it with the client.
// A cancelled ctx stops waiting but leaves a shared fetch running for its other callers.
func (i *Identity) Fetch(ctx context.Context) (session.User, error) {
	i.mu.Lock()
	if user, ok := i.fresh(); ok {
		i.mu.Unlock()
		return user, nil
	}
	i.inFlight++
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.inFlight--
		i.mu.Unlock()
	}()

	ch := i.group.DoChan(IdentityKey, func() (interface{}, error) {
		user, err := i.client.UserInfo(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		i.mu.Lock()
		i.result = &identityResult{user, i.now()}
		i.mu.Unlock()
		return user, nil
	})

	select {
	case <-ctx.Done():
		return session.User{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return session.User{}, res.Err
		}
		return res.Val.(session.User), nil
	}
}
