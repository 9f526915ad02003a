package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuildItems turns priced cart lines into order items and sums the total.
func BuildItems(orderID string, lines []CartLine) ([]Item, decimal.Decimal) {
	items := make([]Item, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		items = append(items, Item{
			ID:        uuid.NewString(),
			OrderID:   orderID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
		})
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return items, total
}
