// Package models defines the storefront entities exchanged with the backend
// and persisted by the client: catalog products, cart lines, the session
// identity, user records and orders.
//
// The backend speaks Spanish field names; Go names are English and the JSON
// tags carry the wire names.
package models

import "github.com/shopspring/decimal"

func init() {
	// The backend stores prices and totals as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}
