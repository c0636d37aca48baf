package login

import (
	"context"
	"errors"
	"testing"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/session"
	"github.com/stockroom/admin-cli/internal/utils/test/assert"
	"github.com/stockroom/admin-cli/internal/utils/test/mock"
)

var (
	existingUser = session.User{ID: "u1", Username: "alice", Name: "Alice", Role: session.Role{Name: session.RoleAdmin}}
	newUser      = session.User{ID: "u2", Username: "bob", Name: "Bob", Role: session.Role{Name: "staff"}}
)

func loginAs(u session.User, token string) mock.DashboardClient {
	return mock.DashboardClient{
		LoginFn: func(ctx context.Context, username, password string) (dashboard.AuthResponse, error) {
			if username != u.Username || password != "password" {
				return dashboard.AuthResponse{}, dashboard.ServerError{HTTPStatus: 401, StatusCode: 401, Message: "Invalid credentials"}
			}
			return dashboard.AuthResponse{AccessToken: token, User: u}, nil
		},
	}
}

func clientsFor(profile *user.Profile, client dashboard.Client) cli.Clients {
	return cli.Clients{
		Dashboard: client,
		Session:   session.NewContext(context.Background(), profile.SessionStorage()),
	}
}

func TestLoginHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("Should store the session of a new login", func(t *testing.T) {
		profile, teardown := mock.NewProfileFromTmpDir(t, "login_test")
		defer teardown()

		out, ui := mock.NewUI()
		cmd := &Command{inputs{Username: "bob", Password: "password"}}

		assert.Nil(t, cmd.Handler(ctx, profile, ui, clientsFor(profile, loginAs(newUser, "T1"))))
		assert.Equal(t, "01:23:45 UTC INFO  Successfully logged in as Bob (bob)\n", out.String())

		assert.Nil(t, profile.Load())
		assert.Equal(t, "bob", profile.Username())

		reloaded := session.NewContext(ctx, profile.SessionStorage())
		token, err := reloaded.Tokens.AccessToken(ctx)
		assert.Nil(t, err)
		assert.Equal(t, "T1", token)

		current, ok := reloaded.Users.User()
		assert.True(t, ok, "expected the current user to be stored")
		assert.Equal(t, newUser, current)
	})

	t.Run("Should return the error of a failed login and keep the session untouched", func(t *testing.T) {
		profile, teardown := mock.NewProfileWithSession(t, "T0", existingUser)
		defer teardown()

		_, ui := mock.NewUI()
		cmd := &Command{inputs{Username: "alice", Password: "wrong"}}

		err := cmd.Handler(ctx, profile, ui, clientsFor(profile, loginAs(existingUser, "T1")))
		assert.Equal(t, errors.New("Invalid credentials"), err)

		token, err := session.NewTokens(profile.SessionStorage()).AccessToken(ctx)
		assert.Nil(t, err)
		assert.Equal(t, "T0", token)
	})

	t.Run("Should log in again as the same user without confirmation", func(t *testing.T) {
		profile, teardown := mock.NewProfileWithSession(t, "T0", existingUser)
		defer teardown()

		_, ui := mock.NewUI()
		cmd := &Command{inputs{Username: "alice", Password: "password"}}

		assert.Nil(t, cmd.Handler(ctx, profile, ui, clientsFor(profile, loginAs(existingUser, "T1"))))

		token, err := session.NewTokens(profile.SessionStorage()).AccessToken(ctx)
		assert.Nil(t, err)
		assert.Equal(t, "T1", token)
	})

	t.Run("With an existing session for another user", func(t *testing.T) {
		for _, tc := range []struct {
			description   string
			confirmAnswer string
			expectedToken string
			expectedUser  session.User
		}{
			{
				description:   "Should do nothing if the user does not want to proceed",
				confirmAnswer: "n",
				expectedToken: "T0",
				expectedUser:  existingUser,
			},
			{
				description:   "Should replace the session if the user does want to proceed",
				confirmAnswer: "y",
				expectedToken: "T1",
				expectedUser:  newUser,
			},
		} {
			t.Run(tc.description, func(t *testing.T) {
				profile, teardown := mock.NewProfileWithSession(t, "T0", existingUser)
				defer teardown()

				_, console, _, ui, consoleErr := mock.NewVT10XConsole()
				assert.Nil(t, consoleErr)
				defer console.Close()

				doneCh := make(chan struct{})
				go func() {
					defer close(doneCh)
					console.ExpectString("This action will terminate the existing session for user: Alice (alice), would you like to proceed?")
					console.SendLine(tc.confirmAnswer)
					console.ExpectEOF()
				}()

				cmd := &Command{inputs{Username: "bob", Password: "password"}}
				err := cmd.Handler(ctx, profile, ui, clientsFor(profile, loginAs(newUser, "T1")))
				assert.Nil(t, err)

				assert.Nil(t, console.Tty().Close())
				<-doneCh

				reloaded := session.NewContext(ctx, profile.SessionStorage())
				token, err := reloaded.Tokens.AccessToken(ctx)
				assert.Nil(t, err)
				assert.Equal(t, tc.expectedToken, token)

				current, ok := reloaded.Users.User()
				assert.True(t, ok, "expected a current user")
				assert.Equal(t, tc.expectedUser, current)
			})
		}
	})
}
