package models

import "github.com/shopspring/decimal"

// CartItem is a product line in the cart or in the saved-for-later list.
type CartItem struct {
	Product
	Quantity int `json:"cantidad"`
}

// SavedItem has the same shape as a cart line; it only lives in a different
// collection.
type SavedItem = CartItem

// Subtotal is UnitPrice × Quantity.
func (c CartItem) Subtotal() decimal.Decimal {
	return c.UnitPrice().Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// Total sums the line subtotals.
func Total(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ClampQuantity coerces q to an integer ≥ 1.
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
