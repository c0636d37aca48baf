package session

import (
	"context"
	"sync"
	"time"
)

// set of durable storage keys
const (
	KeyAccessToken   = "accessToken"
	KeyCurrentUser   = "currentUser"
	KeyRefreshCookie = "refreshCookie"
)

// Storage is the durable key/value storage backing the session state.
// A missing key reads as the empty string.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error

	// Save flushes any pending writes to durable storage
	Save(ctx context.Context) error
}

// Replacer is a Storage that can swap a stored value in a single step,
// so no reader observes the key missing in between
type Replacer interface {
	Replace(ctx context.Context, key, value string) error
}

// Locker is a Storage shared between processes that can hold a named lock.
// The lock is released by calling unlock or once ttl elapses.
type Locker interface {
	Lock(ctx context.Context, name string, ttl time.Duration) (unlock func(), err error)
}

// MemoryStorage is an in-process Storage
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
	saves  int
}

// NewMemoryStorage creates a new in-process Storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

// Get returns the stored value for key
func (s *MemoryStorage) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

// Set stores value under key
func (s *MemoryStorage) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Remove deletes key
func (s *MemoryStorage) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Save records the flush
func (s *MemoryStorage) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	return nil
}

// Saves returns the number of times the storage has been saved
func (s *MemoryStorage) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Keys returns the number of stored keys
func (s *MemoryStorage) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
