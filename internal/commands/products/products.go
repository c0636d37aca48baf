package products

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/stockroom/admin-cli/internal/cli/user"
	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/terminal"
)

const (
	flagID      = "id"
	flagIDUsage = "the id of the product"

	headerID       = "ID"
	headerName     = "Name"
	headerSKU      = "SKU"
	headerPrice    = "Price"
	headerQuantity = "Quantity"
)

var productHeaders = []string{headerID, headerName, headerSKU, headerPrice, headerQuantity}

func productRow(product dashboard.Product) map[string]interface{} {
	return map[string]interface{}{
		headerID:       product.ID,
		headerName:     product.Name,
		headerSKU:      product.SKU,
		headerPrice:    formatPrice(product.Price),
		headerQuantity: product.Quantity,
	}
}

func formatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// productInputs resolves the product a command acts on
type productInputs struct {
	ID string
}

func (i *productInputs) Resolve(profile *user.Profile, ui terminal.UI) error {
	if i.ID != "" {
		return nil
	}
	return ui.Ask(i, &survey.Question{
		Name:     "id",
		Prompt:   &survey.Input{Message: "Product ID"},
		Validate: survey.Required,
	})
}
