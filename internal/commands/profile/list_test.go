package profile

import (
	"context"
	"testing"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/session"
	"github.com/stockroom/admin-cli/internal/utils/test/assert"
	"github.com/stockroom/admin-cli/internal/utils/test/mock"
)

func TestProfileList(t *testing.T) {
	ctx := context.Background()

	t.Run("Should report when no profiles exist", func(t *testing.T) {
		profile, teardown := mock.NewProfileFromTmpDir(t, "profile_list_test")
		defer teardown()

		out, ui := mock.NewUI()
		cmd := &CommandList{}

		assert.Nil(t, cmd.Handler(ctx, profile, ui, cli.Clients{}))
		assert.Equal(t, "01:23:45 UTC INFO  No available profiles to show\n", out.String())
	})

	t.Run("Should list every saved profile with its session", func(t *testing.T) {
		profile, teardown := mock.NewProfileFromTmpDir(t, "profile_list_test")
		defer teardown()

		profile.Name = user.DefaultProfile
		sess := session.NewContext(ctx, profile.SessionStorage())
		assert.Nil(t, sess.Tokens.Replace(ctx, "T1"))
		assert.Nil(t, sess.Users.SetUser(ctx, session.User{ID: "u1", Username: "alice", Name: "Alice"}))

		loggedOut, err := user.NewProfile("ops")
		assert.Nil(t, err)
		loggedOut.SetUsername("bob")
		assert.Nil(t, loggedOut.Save())

		shared, err := user.NewProfile("shared")
		assert.Nil(t, err)
		shared.SetUsername("carol")
		shared.SetSessionStore("redis://localhost:6379/0")
		assert.Nil(t, shared.Save())

		out, ui := mock.NewUI()
		cmd := &CommandList{}

		assert.Nil(t, cmd.Handler(ctx, profile, ui, cli.Clients{}))
		assert.Equal(t, `01:23:45 UTC INFO  Found 3 profile(s)
  Profile  User                    Session Store
  -------  ----------------------  ------------------------
  default  Alice (alice)
  ops      (logged out)
  shared   carol (shared session)  redis://localhost:6379/0
`, out.String())
	})
}
