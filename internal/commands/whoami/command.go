package whoami

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/terminal"
)

const (
	headerUsername = "Username"
	headerName     = "Name"
	headerRole     = "Role"
)

// Command is the `whoami` command
type Command struct {
	now func() time.Time
}

// Handler is the command handler
func (cmd *Command) Handler(ctx context.Context, profile *user.Profile, ui terminal.UI, clients cli.Clients) error {
	current, ok := clients.Session.Users.User()
	if !ok {
		ui.Print(terminal.NewTextLog("No user is currently logged in"))
		return nil
	}

	ui.Print(terminal.NewTableLog(
		"Currently logged in user",
		[]string{headerUsername, headerName, headerRole},
		map[string]interface{}{
			headerUsername: current.Username,
			headerName:     current.Name,
			headerRole:     current.Role.Name,
		},
	))

	token, err := clients.Session.Tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	expiresAt, ok := tokenExpiry(token)
	if !ok {
		return nil
	}

	now := time.Now
	if cmd.now != nil {
		now = cmd.now
	}

	if expiresAt.After(now()) {
		ui.Print(terminal.NewDebugLog("Access token expires at %s", expiresAt.UTC().Format(time.RFC3339)))
	} else {
		ui.Print(terminal.NewDebugLog("Access token expired at %s and will be refreshed on the next request", expiresAt.UTC().Format(time.RFC3339)))
	}
	return nil
}

// tokenExpiry reads the expiration of an access token without verifying it;
// the token is opaque to the CLI, so any token that is not a JWT has no known expiry
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
