package products

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/terminal"
)

// CommandGet is the `products get` command
type CommandGet struct {
	inputs productInputs
}

// Flags is the command flags
func (cmd *CommandGet) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&cmd.inputs.ID, flagID, "", flagIDUsage)
}

// Inputs is the command inputs
func (cmd *CommandGet) Inputs() cli.InputResolver {
	return &cmd.inputs
}

// Handler is the command handler
func (cmd *CommandGet) Handler(ctx context.Context, profile *user.Profile, ui terminal.UI, clients cli.Clients) error {
	product, err := clients.Dashboard.Product(ctx, cmd.inputs.ID)
	if err != nil {
		return err
	}

	ui.Print(terminal.NewJSONLog("Product", product))
	return nil
}
