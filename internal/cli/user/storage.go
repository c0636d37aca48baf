package user

import (
	"context"

	"github.com/stockroom/admin-cli/internal/session"
)

// profile keys are case-insensitive, so the session keys are mapped to snake case
var sessionKeys = map[string]string{
	session.KeyAccessToken:   "access_token",
	session.KeyCurrentUser:   "current_user",
	session.KeyRefreshCookie: "refresh_cookie",
}

func sessionKey(key string) string {
	if k, ok := sessionKeys[key]; ok {
		return k
	}
	return key
}

// SessionStorage returns the CLI profile as the durable storage of a session.
// Writes are only persisted on Save.
func (p *Profile) SessionStorage() session.Storage {
	return profileStorage{p}
}

type profileStorage struct {
	profile *Profile
}

func (s profileStorage) Get(ctx context.Context, key string) (string, error) {
	return s.profile.GetString(sessionKey(key)), nil
}

func (s profileStorage) Set(ctx context.Context, key, value string) error {
	s.profile.SetString(sessionKey(key), value)
	return nil
}

func (s profileStorage) Remove(ctx context.Context, key string) error {
	s.profile.Clear(sessionKey(key))
	return nil
}

func (s profileStorage) Save(ctx context.Context) error {
	return s.profile.Save()
}
