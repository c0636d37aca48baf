package user_test

import (
	"context"
	"io/ioutil"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/session"
	u "github.com/stockroom/admin-cli/internal/utils/test"
	"github.com/stockroom/admin-cli/internal/utils/test/assert"
)

func TestProfile(t *testing.T) {
	tmpDir, teardownTmpDir, tmpDirErr := u.NewTempDir("home")
	assert.Nil(t, tmpDirErr)
	defer teardownTmpDir()

	_, teardownHomeDir := u.SetupHomeDir(tmpDir)
	defer teardownHomeDir()

	profile, profileErr := user.NewDefaultProfile()
	assert.Nil(t, profileErr)

	t.Run("Should initialize as an empty, default profile", func(t *testing.T) {
		assert.Equal(t, user.DefaultProfile, profile.Name)
		assert.Equal(t, filepath.Join(tmpDir, ".config/admin-cli"), profile.Dir())
	})

	t.Run("Should load a config that does not exist without error", func(t *testing.T) {
		assert.Nil(t, profile.Load())
	})

	t.Run("Should set config values properly", func(t *testing.T) {
		profile.SetString("a", "ayyy")
		profile.SetString("b", "be")

		assert.Equal(t, "ayyy", profile.GetString("a"))
		assert.Equal(t, "be", profile.GetString("b"))
	})

	t.Run("Should save a config properly", func(t *testing.T) {
		assert.Nil(t, profile.Save())

		config, err := ioutil.ReadFile(profile.Path())
		assert.Nil(t, err)
		assert.True(t, strings.Contains(string(config), `default:
  a: ayyy
  b: be
`), "config must contain the expected contents but got:\n%s", config)
	})

	t.Run("Should provide a path to the metrics textfile", func(t *testing.T) {
		assert.Equal(t, filepath.Join(profile.Dir(), "metrics", "default", "admin-cli.prom"), profile.MetricsPath())
	})
}

func TestProfileSessionStorage(t *testing.T) {
	tmpDir, teardownTmpDir, tmpDirErr := u.NewTempDir("home")
	assert.Nil(t, tmpDirErr)
	defer teardownTmpDir()

	_, teardownHomeDir := u.SetupHomeDir(tmpDir)
	defer teardownHomeDir()

	ctx := context.Background()

	t.Run("Should persist the session across profile loads", func(t *testing.T) {
		profile, err := user.NewProfile("session")
		assert.Nil(t, err)
		assert.Nil(t, profile.Load())

		sess := session.NewContext(ctx, profile.SessionStorage())
		assert.Nil(t, sess.Tokens.Replace(ctx, "T1"))
		assert.Nil(t, sess.Users.SetUser(ctx, session.User{ID: "u1", Username: "alice", Role: session.Role{Name: "admin"}}))
		assert.Nil(t, sess.Cookies.Update(ctx, []*http.Cookie{{Name: session.DefaultRefreshCookie, Value: "r1"}}))

		reloaded, err := user.NewProfile("session")
		assert.Nil(t, err)
		assert.Nil(t, reloaded.Load())

		reloadedSession := session.NewContext(ctx, reloaded.SessionStorage())

		token, err := reloadedSession.Tokens.AccessToken(ctx)
		assert.Nil(t, err)
		assert.Equal(t, "T1", token)

		current, ok := reloadedSession.Users.User()
		assert.True(t, ok, "expected the current user to be loaded")
		assert.Equal(t, "alice", current.Username)

		cookie, err := reloadedSession.Cookies.Load(ctx)
		assert.Nil(t, err)
		assert.Equal(t, "r1", cookie.Value)
	})

	t.Run("Should clear the session", func(t *testing.T) {
		profile, err := user.NewProfile("session")
		assert.Nil(t, err)
		assert.Nil(t, profile.Load())

		sess := session.NewContext(ctx, profile.SessionStorage())
		assert.Nil(t, sess.Clear(ctx))

		reloaded, err := user.NewProfile("session")
		assert.Nil(t, err)
		assert.Nil(t, reloaded.Load())

		token, err := session.NewTokens(reloaded.SessionStorage()).AccessToken(ctx)
		assert.Nil(t, err)
		assert.Equal(t, "", token)

		_, ok := session.NewStore(ctx, reloaded.SessionStorage()).User()
		assert.False(t, ok, "expected no current user")
	})
}
