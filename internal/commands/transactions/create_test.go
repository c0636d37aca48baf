package transactions

import (
	"context"
	"errors"
	"testing"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/utils/test/assert"
	"github.com/stockroom/admin-cli/internal/utils/test/mock"
)

func TestTransactionsCreateHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("Should record the transaction", func(t *testing.T) {
		var captured dashboard.TransactionInput
		client := mock.DashboardClient{
			CreateTransactionFn: func(ctx context.Context, transaction dashboard.TransactionInput) (dashboard.Transaction, error) {
				captured = transaction
				return dashboard.Transaction{
					ID:        "t3",
					ProductID: transaction.ProductID,
					Type:      transaction.Type,
					Quantity:  transaction.Quantity,
					Note:      transaction.Note,
				}, nil
			},
		}

		out, ui := mock.NewUI()
		cmd := &CommandCreate{createInputs{ProductID: "p1", Type: "out", Quantity: 4, Note: "order 1001"}}

		assert.Nil(t, cmd.Handler(ctx, nil, ui, cli.Clients{Dashboard: client}))
		assert.Equal(t, dashboard.TransactionInput{ProductID: "p1", Type: dashboard.TransactionTypeOut, Quantity: 4, Note: "order 1001"}, captured)
		assert.Equal(t, "01:23:45 UTC INFO  Successfully recorded 4 unit(s) out for product p1 (t3)\n", out.String())
	})

	t.Run("Should return the error for insufficient stock", func(t *testing.T) {
		client := mock.DashboardClient{
			CreateTransactionFn: func(ctx context.Context, transaction dashboard.TransactionInput) (dashboard.Transaction, error) {
				return dashboard.Transaction{}, dashboard.ServerError{HTTPStatus: 400, StatusCode: 400, Message: "Insufficient stock"}
			},
		}

		_, ui := mock.NewUI()
		cmd := &CommandCreate{createInputs{ProductID: "p1", Type: "out", Quantity: 400}}

		err := cmd.Handler(ctx, nil, ui, cli.Clients{Dashboard: client})
		assert.Equal(t, errors.New("Insufficient stock"), err)
	})
}

func TestTransactionsCreateInputs(t *testing.T) {
	t.Run("Should not prompt when the flags provide the data", func(t *testing.T) {
		_, ui := mock.NewUI()

		i := createInputs{ProductID: "p1", Type: "in", Quantity: 3}
		assert.Nil(t, i.Resolve(nil, ui))
		assert.Equal(t, createInputs{ProductID: "p1", Type: "in", Quantity: 3}, i)
	})

	t.Run("Should reject a negative quantity", func(t *testing.T) {
		_, ui := mock.NewUI()

		i := createInputs{ProductID: "p1", Type: "in", Quantity: -3}
		assert.Equal(t, errInvalidQuantity, i.Resolve(nil, ui))
	})

	t.Run("Should prompt for the missing inputs", func(t *testing.T) {
		_, console, _, ui, consoleErr := mock.NewVT10XConsole()
		assert.Nil(t, consoleErr)
		defer console.Close()

		doneCh := make(chan struct{})
		go func() {
			defer close(doneCh)
			console.ExpectString("Product ID")
			console.SendLine("p1")
			console.ExpectString("Transaction type")
			console.SendLine("")
			console.ExpectString("Quantity")
			console.SendLine("5")
			console.ExpectEOF()
		}()

		i := createInputs{Note: "restock"}
		assert.Nil(t, i.Resolve(nil, ui))

		assert.Nil(t, console.Tty().Close())
		<-doneCh

		assert.Equal(t, createInputs{ProductID: "p1", Type: "in", Quantity: 5, Note: "restock"}, i)
	})
}

func TestValidateQuantity(t *testing.T) {
	for _, tc := range []struct {
		answer   interface{}
		expected error
	}{
		{"5", nil},
		{"0", errInvalidQuantity},
		{"-1", errInvalidQuantity},
		{"five", errInvalidQuantity},
		{5, errInvalidQuantity},
	} {
		assert.Equal(t, tc.expected, validateQuantity(tc.answer))
	}
}
