package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/utils/test/assert"
	"github.com/stockroom/admin-cli/internal/utils/test/mock"
)

func TestDashboardHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("Should display the dashboard stats", func(t *testing.T) {
		client := mock.DashboardClient{
			DashboardStatsFn: func(ctx context.Context) (dashboard.DashboardStats, error) {
				return dashboard.DashboardStats{TotalProducts: 12, TotalStock: 340, LowStock: 2, TransactionsToday: 7}, nil
			},
		}

		out, ui := mock.NewUI()
		cmd := &Command{}

		assert.Nil(t, cmd.Handler(ctx, nil, ui, cli.Clients{Dashboard: client}))
		assert.Equal(t, `01:23:45 UTC INFO  Inventory overview
  Total Products  Total Stock  Low Stock  Transactions Today
  --------------  -----------  ---------  ------------------
  12              340          2          7
`, out.String())
	})

	t.Run("Should return the client error", func(t *testing.T) {
		client := mock.DashboardClient{
			DashboardStatsFn: func(ctx context.Context) (dashboard.DashboardStats, error) {
				return dashboard.DashboardStats{}, errors.New("something bad happened")
			},
		}

		_, ui := mock.NewUI()
		cmd := &Command{}

		err := cmd.Handler(ctx, nil, ui, cli.Clients{Dashboard: client})
		assert.Equal(t, errors.New("something bad happened"), err)
	})
}
