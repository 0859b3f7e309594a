package session

import (
	"slices"

	"github.com/dmitrijs2005/storefront/internal/client/models"
)

// Visible returns the orders identity may see: none without an identity,
// all of them for an administrator, otherwise the identity's own orders.
// The input is never modified.
func Visible(identity *models.Identity, orders []models.Order) []models.Order {
	if identity == nil || identity.ID.IsZero() {
		return []models.Order{}
	}
	if models.IsAdmin(identity.Role) {
		out := slices.Clone(orders)
		if out == nil {
			out = []models.Order{}
		}
		return out
	}

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.UserID == identity.ID {
			out = append(out, o)
		}
	}
	return out
}
