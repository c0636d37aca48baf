package products

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/terminal"
)

const (
	flagSearch      = "search"
	flagSearchShort = "s"
	flagSearchUsage = "only list products whose name or SKU contains the search term"

	flagPage      = "page"
	flagPageUsage = "the page of results to list"

	flagLimit      = "limit"
	flagLimitUsage = "the number of results per page"
)

// CommandList is the `products list` command
type CommandList struct {
	filter dashboard.ProductFilter
}

// Flags is the command flags
func (cmd *CommandList) Flags(fs *pflag.FlagSet) {
	fs.StringVarP(&cmd.filter.Search, flagSearch, flagSearchShort, "", flagSearchUsage)
	fs.IntVar(&cmd.filter.Page, flagPage, 0, flagPageUsage)
	fs.IntVar(&cmd.filter.Limit, flagLimit, 0, flagLimitUsage)
}

// Handler is the command handler
func (cmd *CommandList) Handler(ctx context.Context, profile *user.Profile, ui terminal.UI, clients cli.Clients) error {
	page, err := clients.Dashboard.Products(ctx, cmd.filter)
	if err != nil {
		return err
	}

	if len(page.Items) == 0 {
		ui.Print(terminal.NewTextLog("No products found"))
		return nil
	}

	rows := make([]map[string]interface{}, 0, len(page.Items))
	for _, product := range page.Items {
		rows = append(rows, productRow(product))
	}

	ui.Print(terminal.NewTableLog(
		fmt.Sprintf("Found %d product(s)", page.Total),
		productHeaders,
		rows...,
	))

	if page.Limit > 0 && page.Page*page.Limit < page.Total {
		ui.Print(terminal.NewFollowupLog(
			terminal.MsgSuggestedCommands,
			fmt.Sprintf("%s products list --%s %d", cli.Name, flagPage, page.Page+1),
		))
	}
	return nil
}
