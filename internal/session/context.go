package session

import (
	"context"
	"time"
)

// RefreshLockTTL bounds how long a process that died mid refresh keeps others waiting
const RefreshLockTTL = 10 * time.Second

const refreshLockName = "refresh"

// Context is the session state shared by the HTTP client and the guards.
// It is passed explicitly so tests can substitute their own Storage.
type Context struct {
	Tokens  *Tokens
	Users   *Store
	Cookies *Cookies

	storage Storage
}

// NewContext creates a new session context backed by the provided storage
func NewContext(ctx context.Context, storage Storage) *Context {
	return &Context{
		Tokens:  NewTokens(storage),
		Users:   NewStore(ctx, storage),
		Cookies: NewCookies(storage, DefaultRefreshCookie),
		storage: storage,
	}
}

// LockRefresh keeps other processes sharing the storage from refreshing the
// session until unlock is called. Storage private to one process needs no lock.
func (c *Context) LockRefresh(ctx context.Context) (unlock func(), err error) {
	locker, ok := c.storage.(Locker)
	if !ok {
		return func() {}, nil
	}
	return locker.Lock(ctx, refreshLockName, RefreshLockTTL)
}

// Clear ends the session by removing the access token, current user and refresh cookie
func (c *Context) Clear(ctx context.Context) error {
	if err := c.Tokens.Clear(ctx); err != nil {
		return err
	}
	if err := c.Users.Clear(ctx); err != nil {
		return err
	}
	return c.Cookies.Clear(ctx)
}
