package models

import "github.com/shopspring/decimal"

// Product is a catalog entry as served by GET /productos.
type Product struct {
	ID            ID               `json:"id,omitempty"`
	AltID         ID               `json:"_id,omitempty"`
	Name          string           `json:"nombre"`
	Description   string           `json:"descripcion,omitempty"`
	Image         string           `json:"imagen,omitempty"`
	Category      string           `json:"categoria,omitempty"`
	Price         decimal.Decimal  `json:"precio"`
	DiscountPrice *decimal.Decimal `json:"precioDescuento,omitempty"`
	HasDiscount   bool             `json:"tieneDescuento,omitempty"`
}

// Key resolves the product identity: the primary id, or the alternate id
// when the primary is absent. Empty when neither resolves.
func (p Product) Key() ID {
	if !p.ID.IsZero() {
		return p.ID
	}
	return p.AltID
}

// UnitPrice is the discount price when a discount applies, the list price
// otherwise.
func (p Product) UnitPrice() decimal.Decimal {
	if p.HasDiscount && p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}
