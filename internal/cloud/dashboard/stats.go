package dashboard

import (
	"context"
	"net/http"

	"github.com/stockroom/admin-cli/internal/utils/api"
)

const (
	dashboardStatsPath = "/dashboard/stats"
)

// DashboardStats summarizes the inventory
type DashboardStats struct {
	TotalProducts     int `json:"totalProducts"`
	TotalStock        int `json:"totalStock"`
	LowStock          int `json:"lowStock"`
	TransactionsToday int `json:"transactionsToday"`
}

func (c *client) DashboardStats(ctx context.Context) (DashboardStats, error) {
	res, err := c.do(ctx, http.MethodGet, dashboardStatsPath, api.RequestOptions{})
	if err != nil {
		return DashboardStats{}, err
	}

	var stats DashboardStats
	if err := decodeData(res, &stats); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}
