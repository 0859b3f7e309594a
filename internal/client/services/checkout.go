package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

const (
	ShippingDelivery = "delivery"
	ShippingPickup   = "tienda"

	PaymentQR   = "qr"
	PaymentCard = "tarjeta"
)

// Cart is the part of the cart store checkout needs.
type Cart interface {
	Items() []models.CartItem
	Clear(ctx context.Context)
}

// OrderPlacer is the part of the session store checkout needs.
type OrderPlacer interface {
	Identity() (models.Identity, bool)
	AddOrder(ctx context.Context, order models.Order) (models.Order, error)
}

// CheckoutService turns the cart into an order.
type CheckoutService interface {
	Checkout(ctx context.Context, shipping models.ShippingInfo, payment models.PaymentInfo) (models.Order, error)
}

type checkoutService struct {
	cart    Cart
	session OrderPlacer
	log     logging.Logger
}

func NewCheckoutService(cart Cart, session OrderPlacer, log logging.Logger) CheckoutService {
	if log == nil {
		log = logging.Nop()
	}
	return &checkoutService{cart: cart, session: session, log: log.With("component", "checkout")}
}

// Checkout places an order for the cart contents as read in one snapshot;
// the order total is computed from that snapshot. The cart is cleared only
// after the backend accepted the order. Payment is recorded as a label; a
// card number is reduced to its last four digits.
func (c *checkoutService) Checkout(ctx context.Context, shipping models.ShippingInfo, payment models.PaymentInfo) (models.Order, error) {
	if _, ok := c.session.Identity(); !ok {
		return models.Order{}, common.NewError(common.ErrAuthentication, "log in to complete the purchase")
	}

	items := c.cart.Items()
	if len(items) == 0 {
		return models.Order{}, common.NewError(common.ErrValidation, "the cart is empty")
	}

	shipping.Name = strings.TrimSpace(shipping.Name)
	shipping.Address = strings.TrimSpace(shipping.Address)
	shipping.City = strings.TrimSpace(shipping.City)
	if shipping.Name == "" || shipping.Address == "" || shipping.City == "" {
		return models.Order{}, common.NewError(common.ErrValidation, "shipping name, address and city are required")
	}
	if shipping.Method == "" {
		shipping.Method = ShippingDelivery
	}

	payment, err := normalizePayment(payment)
	if err != nil {
		return models.Order{}, err
	}

	created, err := c.session.AddOrder(ctx, models.Order{
		Items:    items,
		Shipping: shipping,
		Payment:  payment,
		Total:    models.Total(items),
	})
	if err != nil {
		return models.Order{}, err
	}

	c.cart.Clear(ctx)
	c.log.Info(ctx, "checkout complete", "order_id", created.ID.String())
	return created, nil
}

func normalizePayment(p models.PaymentInfo) (models.PaymentInfo, error) {
	p.Method = strings.ToLower(strings.TrimSpace(p.Method))
	if p.Method == "" {
		p.Method = PaymentQR
	}
	if p.Method != PaymentCard {
		p.Card = ""
		return p, nil
	}

	digits := onlyDigits(p.Card)
	if len(digits) < 4 {
		return p, common.NewError(common.ErrValidation, "a card number is required for card payments")
	}
	p.Card = MaskCard(digits)
	return p, nil
}

// MaskCard keeps the last four digits of a card number.
func MaskCard(number string) string {
	digits := onlyDigits(number)
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
