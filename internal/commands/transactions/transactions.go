package transactions

import (
	"time"

	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
)

const (
	flagProduct      = "product"
	flagProductUsage = "the id of the product"

	flagType = "type"

	headerID        = "ID"
	headerProductID = "Product ID"
	headerType      = "Type"
	headerQuantity  = "Quantity"
	headerNote      = "Note"
	headerCreatedBy = "Created By"
	headerCreatedAt = "Created At"
)

var (
	transactionTypes = []string{string(dashboard.TransactionTypeIn), string(dashboard.TransactionTypeOut)}

	transactionHeaders = []string{headerID, headerProductID, headerType, headerQuantity, headerNote, headerCreatedBy, headerCreatedAt}
)

func transactionRow(transaction dashboard.Transaction) map[string]interface{} {
	return map[string]interface{}{
		headerID:        transaction.ID,
		headerProductID: transaction.ProductID,
		headerType:      string(transaction.Type),
		headerQuantity:  transaction.Quantity,
		headerNote:      transaction.Note,
		headerCreatedBy: transaction.CreatedBy,
		headerCreatedAt: transaction.CreatedAt.UTC().Format(time.RFC3339),
	}
}
