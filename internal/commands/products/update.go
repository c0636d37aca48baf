package products

import (
	"context"
	"errors"

	"github.com/spf13/pflag"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/terminal"
	"github.com/stockroom/admin-cli/internal/utils/flags"
)

var errNoChanges = errors.New("no changes specified, set at least one of the product flags")

type updateInputs struct {
	productInputs
	Name     flags.OptionalString
	SKU      flags.OptionalString
	Price    flags.OptionalFloat
	Quantity flags.OptionalInt
	ImageURL flags.OptionalString
}

func (i *updateInputs) Resolve(profile *user.Profile, ui terminal.UI) error {
	patch := i.patch()
	if patch == (dashboard.ProductPatch{}) {
		return errNoChanges
	}
	if patch.Price != nil && *patch.Price < 0 {
		return errNegativePrice
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return errNegativeQuantity
	}
	return i.productInputs.Resolve(profile, ui)
}

func (i *updateInputs) patch() dashboard.ProductPatch {
	return dashboard.ProductPatch{
		Name:     i.Name.Ptr(),
		SKU:      i.SKU.Ptr(),
		Price:    i.Price.Ptr(),
		Quantity: i.Quantity.Ptr(),
		ImageURL: i.ImageURL.Ptr(),
	}
}

// CommandUpdate is the `products update` command
type CommandUpdate struct {
	inputs updateInputs
}

// Flags is the command flags
func (cmd *CommandUpdate) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&cmd.inputs.ID, flagID, "", flagIDUsage)
	fs.Var(&cmd.inputs.Name, flagName, flagNameUsage)
	fs.Var(&cmd.inputs.SKU, flagSKU, flagSKUUsage)
	fs.Var(&cmd.inputs.Price, flagPrice, flagPriceUsage)
	fs.Var(&cmd.inputs.Quantity, flagQuantity, flagQuantityUsage)
	fs.Var(&cmd.inputs.ImageURL, flagImageURL, flagImageURLUsage)
}

// Inputs is the command inputs
func (cmd *CommandUpdate) Inputs() cli.InputResolver {
	return &cmd.inputs
}

// Handler is the command handler
func (cmd *CommandUpdate) Handler(ctx context.Context, profile *user.Profile, ui terminal.UI, clients cli.Clients) error {
	product, err := clients.Dashboard.UpdateProduct(ctx, cmd.inputs.ID, cmd.inputs.patch())
	if err != nil {
		return err
	}

	ui.Print(terminal.NewTableLog(
		"Successfully updated product",
		productHeaders,
		productRow(product),
	))
	return nil
}
