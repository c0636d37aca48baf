package dashboard

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/stockroom/admin-cli/internal/utils/api"
)

const (
	transactionsPath = "/transactions"
)

// TransactionType is the direction of an inventory transaction
type TransactionType string

// set of transaction types
const (
	TransactionTypeIn  TransactionType = "in"
	TransactionTypeOut TransactionType = "out"
)

// Transaction is a recorded stock movement
type Transaction struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Type      TransactionType `json:"type"`
	Quantity  int             `json:"quantity"`
	Note      string          `json:"note,omitempty"`
	CreatedBy string          `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
}

// TransactionInput is the payload to record a transaction
type TransactionInput struct {
	ProductID string          `json:"productId"`
	Type      TransactionType `json:"type"`
	Quantity  int             `json:"quantity"`
	Note      string          `json:"note,omitempty"`
}

// TransactionFilter filters and paginates the transaction list
type TransactionFilter struct {
	ProductID string
	Type      TransactionType
	Page      int
	Limit     int
}

func (f TransactionFilter) query() url.Values {
	query := url.Values{}
	if f.ProductID != "" {
		query.Set("productId", f.ProductID)
	}
	if f.Type != "" {
		query.Set("type", string(f.Type))
	}
	setPagination(query, f.Page, f.Limit)
	return query
}

// TransactionPage is a page of transactions
type TransactionPage struct {
	Items []Transaction `json:"items"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (c *client) Transactions(ctx context.Context, filter TransactionFilter) (TransactionPage, error) {
	res, err := c.do(ctx, http.MethodGet, transactionsPath, api.RequestOptions{Query: filter.query()})
	if err != nil {
		return TransactionPage{}, err
	}

	var page TransactionPage
	if err := decodeData(res, &page); err != nil {
		return TransactionPage{}, err
	}
	return page, nil
}

func (c *client) CreateTransaction(ctx context.Context, transaction TransactionInput) (Transaction, error) {
	res, err := c.doJSON(ctx, http.MethodPost, transactionsPath, transaction, api.RequestOptions{})
	if err != nil {
		return Transaction{}, err
	}

	var created Transaction
	if err := decodeData(res, &created); err != nil {
		return Transaction{}, err
	}
	return created, nil
}
