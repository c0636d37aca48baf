package session

import (
	"context"
	"fmt"
	"sync"
)

// Tokens is the access token storage.
// Reads block while a token is being replaced, so a reader never observes
// the token that a concurrent Replace is retiring.
type Tokens struct {
	mu      sync.RWMutex
	storage Storage
}

// NewTokens creates a new access token storage
func NewTokens(storage Storage) *Tokens {
	return &Tokens{storage: storage}
}

// AccessToken returns the current access token or the empty string if there is none
func (t *Tokens) AccessToken(ctx context.Context) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	token, err := t.storage.Get(ctx, KeyAccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to read access token: %w", err)
	}
	return token, nil
}

// Replace removes the current access token and stores the provided one.
// The new token is durably saved before Replace returns.
func (t *Tokens) Replace(ctx context.Context, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if replacer, ok := t.storage.(Replacer); ok {
		if err := replacer.Replace(ctx, KeyAccessToken, token); err != nil {
			return fmt.Errorf("failed to replace access token: %w", err)
		}
		if err := t.storage.Save(ctx); err != nil {
			return fmt.Errorf("failed to save access token: %w", err)
		}
		return nil
	}

	if err := t.storage.Remove(ctx, KeyAccessToken); err != nil {
		return fmt.Errorf("failed to remove access token: %w", err)
	}
	if err := t.storage.Set(ctx, KeyAccessToken, token); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if err := t.storage.Save(ctx); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	return nil
}

// Clear removes the current access token
func (t *Tokens) Clear(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.storage.Remove(ctx, KeyAccessToken); err != nil {
		return fmt.Errorf("failed to remove access token: %w", err)
	}
	return t.storage.Save(ctx)
}
