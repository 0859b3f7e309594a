package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pendiente"
	StatusCancelled OrderStatus = "Cancelado"
)

// IsPending matches the pending status in any case, in Spanish or English.
func (s OrderStatus) IsPending() bool {
	v := strings.TrimSpace(string(s))
	return strings.EqualFold(v, string(StatusPending)) || strings.EqualFold(v, "pending")
}

// IsCancelled matches the cancelled status in any case, in Spanish or English.
func (s OrderStatus) IsCancelled() bool {
	v := strings.TrimSpace(string(s))
	return strings.EqualFold(v, string(StatusCancelled)) ||
		strings.EqualFold(v, "cancelled") ||
		strings.EqualFold(v, "canceled")
}

// CanCancel reports whether a user may cancel an order in this status.
// Pending -> Cancelled is the only transition the backend confirms.
func (s OrderStatus) CanCancel() bool {
	return s.IsPending()
}

type ShippingInfo struct {
	Name    string `json:"nombre"`
	Address string `json:"direccion"`
	City    string `json:"ciudad"`
	Method  string `json:"metodo,omitempty"`
}

// PaymentInfo is a label only; nothing is charged.
type PaymentInfo struct {
	Method string `json:"metodo"`
	Card   string `json:"tarjeta,omitempty"`
}

type Order struct {
	ID        ID              `json:"id,omitempty"`
	UserID    ID              `json:"usuarioId"`
	Items     []CartItem      `json:"items"`
	Shipping  ShippingInfo    `json:"envio"`
	Payment   PaymentInfo     `json:"pago"`
	Total     decimal.Decimal `json:"total"`
	Status    OrderStatus     `json:"estado,omitempty"`
	CreatedAt string          `json:"createdAt,omitempty"`
}

// Created parses CreatedAt as RFC 3339. ok is false when absent or
// unparseable.
func (o Order) Created() (t time.Time, ok bool) {
	if o.CreatedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, o.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
