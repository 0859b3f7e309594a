package services

import (
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/shopspring/decimal"
)

// Registry is the read side of the session store.
type Registry interface {
	Users() []models.UserRecord
	Orders() []models.Order
}

// Dashboard aggregates what the session can see.
type Dashboard struct {
	Users     int
	Orders    int
	Pending   int
	Cancelled int
	Revenue   decimal.Decimal
}

// Summarize counts users and visible orders and sums the order totals.
func Summarize(r Registry) Dashboard {
	d := Dashboard{Users: len(r.Users()), Revenue: decimal.Zero}
	for _, o := range r.Orders() {
		d.Orders++
		switch {
		case o.Status.IsPending():
			d.Pending++
		case o.Status.IsCancelled():
			d.Cancelled++
		}
		d.Revenue = d.Revenue.Add(o.Total)
	}
	return d
}
