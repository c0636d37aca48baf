package products

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/pflag"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/terminal"
)

const (
	flagName      = "name"
	flagNameUsage = "the product name"

	flagSKU      = "sku"
	flagSKUUsage = "the product stock keeping unit"

	flagPrice      = "price"
	flagPriceUsage = "the product unit price"

	flagQuantity      = "quantity"
	flagQuantityUsage = "the product quantity in stock"

	flagImageURL      = "image-url"
	flagImageURLUsage = "the url of the product image"
)

var (
	errNegativePrice    = errors.New("price cannot be negative")
	errNegativeQuantity = errors.New("quantity cannot be negative")
)

type createInputs struct {
	dashboard.ProductInput
}

func (i *createInputs) Resolve(profile *user.Profile, ui terminal.UI) error {
	if i.Price < 0 {
		return errNegativePrice
	}
	if i.Quantity < 0 {
		return errNegativeQuantity
	}

	var questions []*survey.Question
	if i.Name == "" {
		questions = append(questions, &survey.Question{
			Name:     flagName,
			Prompt:   &survey.Input{Message: "Product name"},
			Validate: survey.Required,
		})
	}
	if i.SKU == "" {
		questions = append(questions, &survey.Question{
			Name:     flagSKU,
			Prompt:   &survey.Input{Message: "Product SKU"},
			Validate: survey.Required,
		})
	}

	if len(questions) == 0 {
		return nil
	}

	var answers struct {
		Name string
		SKU  string
	}
	if err := ui.Ask(&answers, questions...); err != nil {
		return err
	}
	if answers.Name != "" {
		i.Name = answers.Name
	}
	if answers.SKU != "" {
		i.SKU = answers.SKU
	}
	return nil
}

// CommandCreate is the `products create` command
type CommandCreate struct {
	inputs createInputs
}

// Flags is the command flags
func (cmd *CommandCreate) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&cmd.inputs.Name, flagName, "", flagNameUsage)
	fs.StringVar(&cmd.inputs.SKU, flagSKU, "", flagSKUUsage)
	fs.Float64Var(&cmd.inputs.Price, flagPrice, 0, flagPriceUsage)
	fs.IntVar(&cmd.inputs.Quantity, flagQuantity, 0, flagQuantityUsage)
	fs.StringVar(&cmd.inputs.ImageURL, flagImageURL, "", flagImageURLUsage)
}

// Inputs is the command inputs
func (cmd *CommandCreate) Inputs() cli.InputResolver {
	return &cmd.inputs
}

// Handler is the command handler
func (cmd *CommandCreate) Handler(ctx context.Context, profile *user.Profile, ui terminal.UI, clients cli.Clients) error {
	product, err := clients.Dashboard.CreateProduct(ctx, cmd.inputs.ProductInput)
	if err != nil {
		return err
	}

	ui.Print(terminal.NewTextLog("Successfully created product %s (%s)", product.Name, product.ID))
	return nil
}
