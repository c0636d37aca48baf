package transactions

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/terminal"
	"github.com/stockroom/admin-cli/internal/utils/flags"
)

const (
	flagListTypeUsage = `only list transactions of the type, available options: ["in", "out"]`

	flagPage      = "page"
	flagPageUsage = "the page of results to list"

	flagLimit      = "limit"
	flagLimitUsage = "the number of results per page"
)

type listInputs struct {
	ProductID string
	Type      string
	Page      int
	Limit     int
}

// CommandList is the `transactions list` command
type CommandList struct {
	inputs listInputs
}

// Flags is the command flags
func (cmd *CommandList) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&cmd.inputs.ProductID, flagProduct, "", flagProductUsage)
	fs.Var(flags.NewEnumValue(&cmd.inputs.Type, transactionTypes...), flagType, flagListTypeUsage)
	fs.IntVar(&cmd.inputs.Page, flagPage, 0, flagPageUsage)
	fs.IntVar(&cmd.inputs.Limit, flagLimit, 0, flagLimitUsage)
}

// Handler is the command handler
func (cmd *CommandList) Handler(ctx context.Context, profile *user.Profile, ui terminal.UI, clients cli.Clients) error {
	page, err := clients.Dashboard.Transactions(ctx, dashboard.TransactionFilter{
		ProductID: cmd.inputs.ProductID,
		Type:      dashboard.TransactionType(cmd.inputs.Type),
		Page:      cmd.inputs.Page,
		Limit:     cmd.inputs.Limit,
	})
	if err != nil {
		return err
	}

	if len(page.Items) == 0 {
		ui.Print(terminal.NewTextLog("No transactions found"))
		return nil
	}

	rows := make([]map[string]interface{}, 0, len(page.Items))
	for _, transaction := range page.Items {
		rows = append(rows, transactionRow(transaction))
	}

	ui.Print(terminal.NewTableLog(
		fmt.Sprintf("Found %d transaction(s)", page.Total),
		transactionHeaders,
		rows...,
	))
	return nil
}
