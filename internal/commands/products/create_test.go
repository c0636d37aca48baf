package products

import (
	"context"
	"testing"

	"github.com/stockroom/admin-cli/internal/cli"
	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/utils/test/assert"
	"github.com/stockroom/admin-cli/internal/utils/test/mock"
)

func TestProductsCreateHandler(t *testing.T) {
	ctx := context.Background()

	var captured dashboard.ProductInput
	client := mock.DashboardClient{
		CreateProductFn: func(ctx context.Context, product dashboard.ProductInput) (dashboard.Product, error) {
			captured = product
			return dashboard.Product{ID: "p3", Name: product.Name, SKU: product.SKU, Price: product.Price, Quantity: product.Quantity}, nil
		},
	}

	input := dashboard.ProductInput{Name: "Sprocket", SKU: "SPR-3", Price: 2.25, Quantity: 40}

	out, ui := mock.NewUI()
	cmd := &CommandCreate{createInputs{input}}

	assert.Nil(t, cmd.Handler(ctx, nil, ui, cli.Clients{Dashboard: client}))
	assert.Equal(t, input, captured)
	assert.Equal(t, "01:23:45 UTC INFO  Successfully created product Sprocket (p3)\n", out.String())
}

func TestProductsCreateInputs(t *testing.T) {
	t.Run("Should reject a negative price", func(t *testing.T) {
		_, ui := mock.NewUI()
		i := createInputs{dashboard.ProductInput{Name: "Sprocket", SKU: "SPR-3", Price: -1}}
		assert.Equal(t, errNegativePrice, i.Resolve(nil, ui))
	})

	t.Run("Should reject a negative quantity", func(t *testing.T) {
		_, ui := mock.NewUI()
		i := createInputs{dashboard.ProductInput{Name: "Sprocket", SKU: "SPR-3", Quantity: -1}}
		assert.Equal(t, errNegativeQuantity, i.Resolve(nil, ui))
	})

	t.Run("Should prompt for the name and sku when not provided", func(t *testing.T) {
		_, console, _, ui, consoleErr := mock.NewVT10XConsole()
		assert.Nil(t, consoleErr)
		defer console.Close()

		doneCh := make(chan struct{})
		go func() {
			defer close(doneCh)
			console.ExpectString("Product name")
			console.SendLine("Sprocket")
			console.ExpectString("Product SKU")
			console.SendLine("SPR-3")
			console.ExpectEOF()
		}()

		i := createInputs{dashboard.ProductInput{Price: 2.25}}
		assert.Nil(t, i.Resolve(nil, ui))

		assert.Nil(t, console.Tty().Close())
		<-doneCh

		assert.Equal(t, dashboard.ProductInput{Name: "Sprocket", SKU: "SPR-3", Price: 2.25}, i.ProductInput)
	})
}
