package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// DefaultRefreshCookie is the name of the cookie carrying the refresh credential
const DefaultRefreshCookie = "refresh_token"

// Cookies persists the refresh cookie between CLI invocations,
// standing in for a browser's httpOnly cookie
type Cookies struct {
	mu      sync.Mutex
	storage Storage
	name    string
	now     func() time.Time
}

type storedCookie struct {
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// NewCookies creates a new refresh cookie storage for the named cookie
func NewCookies(storage Storage, name string) *Cookies {
	if name == "" {
		name = DefaultRefreshCookie
	}
	return &Cookies{storage: storage, name: name, now: time.Now}
}

// Name returns the refresh cookie name
func (c *Cookies) Name() string { return c.name }

// Load returns the stored refresh cookie or nil if it is missing, expired or corrupted
func (c *Cookies) Load(ctx context.Context) (*http.Cookie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := c.storage.Get(ctx, KeyRefreshCookie)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh cookie: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var stored storedCookie
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.Value == "" {
		return nil, nil
	}
	if !stored.Expires.IsZero() && c.now().After(stored.Expires) {
		return nil, nil
	}
	return &http.Cookie{Name: c.name, Value: stored.Value, Expires: stored.Expires}, nil
}

// Update persists the refresh cookie found in the provided response cookies.
// A cookie with an empty value or a negative MaxAge deletes the stored cookie.
func (c *Cookies) Update(ctx context.Context, cookies []*http.Cookie) error {
	for _, cookie := range cookies {
		if cookie.Name != c.name {
			continue
		}
		if cookie.Value == "" || cookie.MaxAge < 0 {
			return c.Clear(ctx)
		}
		return c.store(ctx, cookie)
	}
	return nil
}

func (c *Cookies) store(ctx context.Context, cookie *http.Cookie) error {
	stored := storedCookie{Value: cookie.Value, Expires: cookie.Expires}
	if cookie.MaxAge > 0 {
		stored.Expires = c.now().Add(time.Duration(cookie.MaxAge) * time.Second)
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.storage.Set(ctx, KeyRefreshCookie, string(data)); err != nil {
		return fmt.Errorf("failed to store refresh cookie: %w", err)
	}
	return c.storage.Save(ctx)
}

// Clear removes the stored refresh cookie
func (c *Cookies) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.storage.Remove(ctx, KeyRefreshCookie); err != nil {
		return fmt.Errorf("failed to remove refresh cookie: %w", err)
	}
	return c.storage.Save(ctx)
}
