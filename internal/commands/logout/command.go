package logout

import (
	"context"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/terminal"
)

// Command is the `logout` command
type Command struct{}

// Handler is the command handler
func (cmd *Command) Handler(ctx context.Context, profile *user.Profile, ui terminal.UI, clients cli.Clients) error {
	token, err := clients.Session.Tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	if token != "" {
		// the local session ends regardless of whether the server acknowledges it
		if err := clients.Dashboard.Logout(ctx); err != nil {
			ui.Print(terminal.NewWarningLog("Failed to end the session on the server: %s", err))
		}
	}

	if err := clients.Session.Clear(ctx); err != nil {
		return err
	}

	ui.Print(terminal.NewTextLog("Successfully logged out"))
	return nil
}
