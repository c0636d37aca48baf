package mock

import (
	"context"

	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/session"
)

// DashboardClient is a mocked dashboard client
type DashboardClient struct {
	dashboard.Client
	LoginFn             func(ctx context.Context, username, password string) (dashboard.AuthResponse, error)
	LogoutFn            func(ctx context.Context) error
	RefreshFn           func(ctx context.Context) (string, error)
	UserInfoFn          func(ctx context.Context) (session.User, error)
	DashboardStatsFn    func(ctx context.Context) (dashboard.DashboardStats, error)
	ProductsFn          func(ctx context.Context, filter dashboard.ProductFilter) (dashboard.ProductPage, error)
	ProductFn           func(ctx context.Context, productID string) (dashboard.Product, error)
	CreateProductFn     func(ctx context.Context, product dashboard.ProductInput) (dashboard.Product, error)
	UpdateProductFn     func(ctx context.Context, productID string, patch dashboard.ProductPatch) (dashboard.Product, error)
	DeleteProductFn     func(ctx context.Context, productID string) error
	TransactionsFn      func(ctx context.Context, filter dashboard.TransactionFilter) (dashboard.TransactionPage, error)
	CreateTransactionFn func(ctx context.Context, transaction dashboard.TransactionInput) (dashboard.Transaction, error)
}

// Login calls the mocked Login implementation if provided,
// otherwise the call falls back to the underlying dashboard.Client implementation.
// NOTE: this may panic if the underlying dashboard.Client is left undefined
func (dc DashboardClient) Login(ctx context.Context, username, password string) (dashboard.AuthResponse, error) {
	if dc.LoginFn != nil {
		return dc.LoginFn(ctx, username, password)
	}
	return dc.Client.Login(ctx, username, password)
}

// Logout calls the mocked Logout implementation if provided,
// otherwise the call falls back to the underlying dashboard.Client implementation.
// NOTE: this may panic if the underlying dashboard.Client is left undefined
func (dc DashboardClient) Logout(ctx context.Context) error {
	if dc.LogoutFn != nil {
		return dc.LogoutFn(ctx)
	}
	return dc.Client.Logout(ctx)
}

// Refresh calls the mocked Refresh implementation if provided,
// otherwise the call falls back to the underlying dashboard.Client implementation.
// NOTE: this may panic if the underlying dashboard.Client is left undefined
func (dc DashboardClient) Refresh(ctx context.Context) (string, error) {
	if dc.RefreshFn != nil {
		return dc.RefreshFn(ctx)
	}
	return dc.Client.Refresh(ctx)
}

// UserInfo calls the mocked UserInfo implementation if provided,
// otherwise the call falls back to the underlying dashboard.Client implementation.
// NOTE: this may panic if the underlying dashboard.Client is left undefined
func (dc DashboardClient) UserInfo(ctx context.Context) (session.User, error) {
	if dc.UserInfoFn != nil {
		return dc.UserInfoFn(ctx)
	}
	return dc.Client.UserInfo(ctx)
}

// DashboardStats calls the mocked DashboardStats implementation if provided,
// otherwise the call falls back to the underlying dashboard.Client implementation.
// NOTE: this may panic if the underlying dashboard.Client is left undefined
func (dc DashboardClient) DashboardStats(ctx context.Context) (dashboard.DashboardStats, error) {
	if dc.DashboardStatsFn != nil {
		return dc.DashboardStatsFn(ctx)
	}
	return dc.Client.DashboardStats(ctx)
}

// Products calls the mocked Products implementation if provided,
// otherwise the call falls back to the underlying dashboard.Client implementation.
// NOTE: this may panic if the underlying dashboard.Client is left undefined
func (dc DashboardClient) Products(ctx context.Context, filter dashboard.ProductFilter) (dashboard.ProductPage, error) {
	if dc.ProductsFn != nil {
		return dc.ProductsFn(ctx, filter)
	}
	return dc.Client.Products(ctx, filter)
}

// Product calls the mocked Product implementation if provided,
// otherwise the call falls back to the underlying dashboard.Client implementation.
// NOTE: this may panic if the underlying dashboard.Client is left undefined
func (dc DashboardClient) Product(ctx context.Context, productID string) (dashboard.Product, error) {
	if dc.ProductFn != nil {
		return dc.ProductFn(ctx, productID)
	}
	return dc.Client.Product(ctx, productID)
}

// CreateProduct calls the mocked CreateProduct implementation if provided,
// otherwise the call falls back to the underlying dashboard.Client implementation.
// NOTE: this may panic if the underlying dashboard.Client is left undefined
func (dc DashboardClient) CreateProduct(ctx context.Context, product dashboard.ProductInput) (dashboard.Product, error) {
	if dc.CreateProductFn != nil {
		return dc.CreateProductFn(ctx, product)
	}
	return dc.Client.CreateProduct(ctx, product)
}

// UpdateProduct calls the mocked UpdateProduct implementation if provided,
// otherwise the call falls back to the underlying dashboard.Client implementation.
// NOTE: this may panic if the underlying dashboard.Client is left undefined
func (dc DashboardClient) UpdateProduct(ctx context.Context, productID string, patch dashboard.ProductPatch) (dashboard.Product, error) {
	if dc.UpdateProductFn != nil {
		return dc.UpdateProductFn(ctx, productID, patch)
	}
	return dc.Client.UpdateProduct(ctx, productID, patch)
}

// DeleteProduct calls the mocked DeleteProduct implementation if provided,
// otherwise the call falls back to the underlying dashboard.Client implementation.
// NOTE: this may panic if the underlying dashboard.Client is left undefined
func (dc DashboardClient) DeleteProduct(ctx context.Context, productID string) error {
	if dc.DeleteProductFn != nil {
		return dc.DeleteProductFn(ctx, productID)
	}
	return dc.Client.DeleteProduct(ctx, productID)
}

// Transactions calls the mocked Transactions implementation if provided,
// otherwise the call falls back to the underlying dashboard.Client implementation.
// NOTE: this may panic if the underlying dashboard.Client is left undefined
func (dc DashboardClient) Transactions(ctx context.Context, filter dashboard.TransactionFilter) (dashboard.TransactionPage, error) {
	if dc.TransactionsFn != nil {
		return dc.TransactionsFn(ctx, filter)
	}
	return dc.Client.Transactions(ctx, filter)
}

// CreateTransaction calls the mocked CreateTransaction implementation if provided,
// otherwise the call falls back to the underlying dashboard.Client implementation.
// NOTE: this may panic if the underlying dashboard.Client is left undefined
func (dc DashboardClient) CreateTransaction(ctx context.Context, transaction dashboard.TransactionInput) (dashboard.Transaction, error) {
	if dc.CreateTransactionFn != nil {
		return dc.CreateTransactionFn(ctx, transaction)
	}
	return dc.Client.CreateTransaction(ctx, transaction)
}
