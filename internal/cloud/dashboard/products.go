package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/stockroom/admin-cli/internal/utils/api"
)

const (
	productsPath = "/products"
	productPath  = productsPath + "/%s"
)

// Product is a catalog product
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductInput is the payload to create a product
type ProductInput struct {
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// ProductPatch is the payload to update a product, nil fields are left unchanged
type ProductPatch struct {
	Name     *string  `json:"name,omitempty"`
	SKU      *string  `json:"sku,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
	ImageURL *string  `json:"imageUrl,omitempty"`
}

// ProductFilter filters and paginates the product list
type ProductFilter struct {
	Search string
	Page   int
	Limit  int
}

func (f ProductFilter) query() url.Values {
	query := url.Values{}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	setPagination(query, f.Page, f.Limit)
	return query
}

// ProductPage is a page of products
type ProductPage struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

func (c *client) Products(ctx context.Context, filter ProductFilter) (ProductPage, error) {
	res, err := c.do(ctx, http.MethodGet, productsPath, api.RequestOptions{Query: filter.query()})
	if err != nil {
		return ProductPage{}, err
	}

	var page ProductPage
	if err := decodeData(res, &page); err != nil {
		return ProductPage{}, err
	}
	return page, nil
}

func (c *client) Product(ctx context.Context, productID string) (Product, error) {
	res, err := c.do(ctx, http.MethodGet, fmt.Sprintf(productPath, url.PathEscape(productID)), api.RequestOptions{})
	if err != nil {
		return Product{}, err
	}

	var product Product
	if err := decodeData(res, &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

func (c *client) CreateProduct(ctx context.Context, product ProductInput) (Product, error) {
	res, err := c.doJSON(ctx, http.MethodPost, productsPath, product, api.RequestOptions{})
	if err != nil {
		return Product{}, err
	}

	var created Product
	if err := decodeData(res, &created); err != nil {
		return Product{}, err
	}
	return created, nil
}

func (c *client) UpdateProduct(ctx context.Context, productID string, patch ProductPatch) (Product, error) {
	res, err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf(productPath, url.PathEscape(productID)), patch, api.RequestOptions{})
	if err != nil {
		return Product{}, err
	}

	var updated Product
	if err := decodeData(res, &updated); err != nil {
		return Product{}, err
	}
	return updated, nil
}

func (c *client) DeleteProduct(ctx context.Context, productID string) error {
	res, err := c.do(ctx, http.MethodDelete, fmt.Sprintf(productPath, url.PathEscape(productID)), api.RequestOptions{})
	if err != nil {
		return err
	}
	res.Body.Close()
	return nil
}

func setPagination(query url.Values, page, limit int) {
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
}
