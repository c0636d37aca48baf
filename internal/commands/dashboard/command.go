package dashboard

import (
	"context"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/terminal"
)

const (
	headerTotalProducts     = "Total Products"
	headerTotalStock        = "Total Stock"
	headerLowStock          = "Low Stock"
	headerTransactionsToday = "Transactions Today"
)

// Command is the `dashboard` command
type Command struct{}

// Handler is the command handler
func (cmd *Command) Handler(ctx context.Context, profile *user.Profile, ui terminal.UI, clients cli.Clients) error {
	stats, err := clients.Dashboard.DashboardStats(ctx)
	if err != nil {
		return err
	}

	ui.Print(terminal.NewTableLog(
		"Inventory overview",
		[]string{headerTotalProducts, headerTotalStock, headerLowStock, headerTransactionsToday},
		map[string]interface{}{
			headerTotalProducts:     stats.TotalProducts,
			headerTotalStock:        stats.TotalStock,
			headerLowStock:          stats.LowStock,
			headerTransactionsToday: stats.TransactionsToday,
		},
	))
	return nil
}
