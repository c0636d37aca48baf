package transactions

import (
	"context"
	"errors"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/pflag"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/terminal"
	"github.com/stockroom/admin-cli/internal/utils/flags"
)

const (
	flagCreateTypeUsage = `the direction of the stock movement, available options: ["in", "out"]`

	flagQuantity      = "quantity"
	flagQuantityUsage = "the number of units moved"

	flagNote      = "note"
	flagNoteUsage = "a note describing the stock movement"
)

var errInvalidQuantity = errors.New("quantity must be a positive number")

type createInputs struct {
	ProductID string
	Type      string
	Quantity  int
	Note      string
}

func (i *createInputs) Resolve(profile *user.Profile, ui terminal.UI) error {
	if i.Quantity < 0 {
		return errInvalidQuantity
	}

	var questions []*survey.Question
	if i.ProductID == "" {
		questions = append(questions, &survey.Question{
			Name:     "productid",
			Prompt:   &survey.Input{Message: "Product ID"},
			Validate: survey.Required,
		})
	}
	if i.Type == "" {
		questions = append(questions, &survey.Question{
			Name:   "type",
			Prompt: &survey.Select{Message: "Transaction type", Options: transactionTypes},
		})
	}
	if i.Quantity == 0 {
		questions = append(questions, &survey.Question{
			Name:     "quantity",
			Prompt:   &survey.Input{Message: "Quantity"},
			Validate: validateQuantity,
		})
	}

	if len(questions) == 0 {
		return nil
	}

	answers := struct {
		ProductID string
		Type      string
		Quantity  string
	}{i.ProductID, i.Type, strconv.Itoa(i.Quantity)}
	if err := ui.Ask(&answers, questions...); err != nil {
		return err
	}

	quantity, err := strconv.Atoi(answers.Quantity)
	if err != nil {
		return errInvalidQuantity
	}

	i.ProductID = answers.ProductID
	i.Type = answers.Type
	i.Quantity = quantity
	return nil
}

func validateQuantity(ans interface{}) error {
	s, ok := ans.(string)
	if !ok {
		return errInvalidQuantity
	}
	if quantity, err := strconv.Atoi(s); err != nil || quantity <= 0 {
		return errInvalidQuantity
	}
	return nil
}

// CommandCreate is the `transactions create` command
type CommandCreate struct {
	inputs createInputs
}

// Flags is the command flags
func (cmd *CommandCreate) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&cmd.inputs.ProductID, flagProduct, "", flagProductUsage)
	fs.Var(flags.NewEnumValue(&cmd.inputs.Type, transactionTypes...), flagType, flagCreateTypeUsage)
	fs.IntVar(&cmd.inputs.Quantity, flagQuantity, 0, flagQuantityUsage)
	fs.StringVar(&cmd.inputs.Note, flagNote, "", flagNoteUsage)
}

// Inputs is the command inputs
func (cmd *CommandCreate) Inputs() cli.InputResolver {
	return &cmd.inputs
}

// Handler is the command handler
func (cmd *CommandCreate) Handler(ctx context.Context, profile *user.Profile, ui terminal.UI, clients cli.Clients) error {
	transaction, err := clients.Dashboard.CreateTransaction(ctx, dashboard.TransactionInput{
		ProductID: cmd.inputs.ProductID,
		Type:      dashboard.TransactionType(cmd.inputs.Type),
		Quantity:  cmd.inputs.Quantity,
		Note:      cmd.inputs.Note,
	})
	if err != nil {
		return err
	}

	ui.Print(terminal.NewTextLog(
		"Successfully recorded %d unit(s) %s for product %s (%s)",
		transaction.Quantity,
		transaction.Type,
		transaction.ProductID,
		transaction.ID,
	))
	return nil
}
