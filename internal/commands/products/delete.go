package products

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/terminal"
)

// CommandDelete is the `products delete` command
type CommandDelete struct {
	inputs productInputs
}

// Flags is the command flags
func (cmd *CommandDelete) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&cmd.inputs.ID, flagID, "", flagIDUsage)
}

// Inputs is the command inputs
func (cmd *CommandDelete) Inputs() cli.InputResolver {
	return &cmd.inputs
}

// Handler is the command handler
func (cmd *CommandDelete) Handler(ctx context.Context, profile *user.Profile, ui terminal.UI, clients cli.Clients) error {
	product, err := clients.Dashboard.Product(ctx, cmd.inputs.ID)
	if err != nil {
		return err
	}

	proceed, err := ui.Confirm("Are you sure you want to delete product %s (%s)?", product.Name, product.ID)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	if err := clients.Dashboard.DeleteProduct(ctx, product.ID); err != nil {
		return err
	}

	ui.Print(terminal.NewTextLog("Successfully deleted product %s (%s)", product.Name, product.ID))
	return nil
}
