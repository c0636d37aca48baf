package login

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/terminal"
)

// Command is the `login` command
type Command struct {
	inputs inputs
}

// Flags is the command flags
func (cmd *Command) Flags(fs *pflag.FlagSet) {
	fs.StringVarP(&cmd.inputs.Username, flagUsername, flagUsernameShort, "", flagUsernameUsage)
	fs.StringVarP(&cmd.inputs.Password, flagPassword, flagPasswordShort, "", flagPasswordUsage)
}

// Inputs is the command inputs
func (cmd *Command) Inputs() cli.InputResolver {
	return &cmd.inputs
}

// Handler is the command handler
func (cmd *Command) Handler(ctx context.Context, profile *user.Profile, ui terminal.UI, clients cli.Clients) error {
	if existing, ok := clients.Session.Users.User(); ok && existing.Username != cmd.inputs.Username {
		proceed, err := ui.Confirm(
			"This action will terminate the existing session for user: %s, would you like to proceed?",
			existing.Display(),
		)
		if err != nil {
			return err
		}
		if !proceed {
			return nil
		}
	}

	auth, err := clients.Dashboard.Login(ctx, cmd.inputs.Username, cmd.inputs.Password)
	if err != nil {
		return err
	}

	if err := clients.Session.Tokens.Replace(ctx, auth.AccessToken); err != nil {
		return err
	}
	if err := clients.Session.Users.SetUser(ctx, auth.User); err != nil {
		return err
	}

	profile.SetUsername(cmd.inputs.Username)
	if err := profile.Save(); err != nil {
		return err
	}

	ui.Print(terminal.NewTextLog("Successfully logged in as %s", auth.User.Display()))
	return nil
}
