package logout

import (
	"context"
	"errors"
	"testing"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/session"
	"github.com/stockroom/admin-cli/internal/utils/test/assert"
	"github.com/stockroom/admin-cli/internal/utils/test/mock"
)

func TestLogoutHandler(t *testing.T) {
	ctx := context.Background()
	current := session.User{ID: "u1", Username: "alice", Role: session.Role{Name: session.RoleAdmin}}

	for _, tc := range []struct {
		description    string
		logoutErr      error
		expectedOutput string
	}{
		{
			description:    "Should clear the session after the server logs out",
			expectedOutput: "01:23:45 UTC INFO  Successfully logged out\n",
		},
		{
			description: "Should clear the session even when the server logout fails",
			logoutErr:   errors.New("connection refused"),
			expectedOutput: `01:23:45 UTC WARN  Failed to end the session on the server: connection refused
01:23:45 UTC INFO  Successfully logged out
`,
		},
	} {
		t.Run(tc.description, func(t *testing.T) {
			profile, teardown := mock.NewProfileWithSession(t, "T1", current)
			defer teardown()

			var logoutCalls int
			client := mock.DashboardClient{
				LogoutFn: func(ctx context.Context) error {
					logoutCalls++
					return tc.logoutErr
				},
			}

			sess := session.NewContext(ctx, profile.SessionStorage())
			out, ui := mock.NewUI()

			cmd := &Command{}
			assert.Nil(t, cmd.Handler(ctx, profile, ui, cli.Clients{Dashboard: client, Session: sess}))

			assert.Equal(t, tc.expectedOutput, out.String())
			assert.Equal(t, 1, logoutCalls)

			_, ok := sess.Users.User()
			assert.False(t, ok, "expected the current user to be cleared")

			assert.Nil(t, profile.Load())
			reloaded := session.NewContext(ctx, profile.SessionStorage())
			token, err := reloaded.Tokens.AccessToken(ctx)
			assert.Nil(t, err)
			assert.Equal(t, "", token)

			_, ok = reloaded.Users.User()
			assert.False(t, ok, "expected the stored user to be cleared")
		})
	}

	t.Run("Should not call the server without a session", func(t *testing.T) {
		profile, teardown := mock.NewProfileFromTmpDir(t, "logout_test")
		defer teardown()

		client := mock.DashboardClient{
			LogoutFn: func(ctx context.Context) error {
				t.Error("logout should not be called")
				return nil
			},
		}

		_, ui := mock.NewUI()
		cmd := &Command{}
		assert.Nil(t, cmd.Handler(ctx, profile, ui, cli.Clients{
			Dashboard: client,
			Session:   session.NewContext(ctx, profile.SessionStorage()),
		}))
	})
}
