package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Store is the session store, holding at most one current user
type Store struct {
	mu      sync.RWMutex
	storage Storage
	user    *User
}

// NewStore creates a new session store hydrated from durable storage.
// A missing, unreadable or corrupted user record leaves the store empty.
func NewStore(ctx context.Context, storage Storage) *Store {
	s := Store{storage: storage}

	raw, err := storage.Get(ctx, KeyCurrentUser)
	if err != nil || raw == "" {
		return &s
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return &s
	}
	s.user = &user
	return &s
}

// User returns the current user, if any
func (s *Store) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// SetUser replaces the current user and mirrors it into durable storage
func (s *Store) SetUser(ctx context.Context, user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode current user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &user
	if err := s.storage.Set(ctx, KeyCurrentUser, string(data)); err != nil {
		return fmt.Errorf("failed to store current user: %w", err)
	}
	return s.storage.Save(ctx)
}

// Clear removes the current user
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	if err := s.storage.Remove(ctx, KeyCurrentUser); err != nil {
		return fmt.Errorf("failed to remove current user: %w", err)
	}
	return s.storage.Save(ctx)
}
