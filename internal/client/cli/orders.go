package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/services"
	"github.com/dmitrijs2005/storefront/internal/common"
)

// Checkout collects shipping and payment details and places the order.
func (a *App) Checkout(ctx context.Context) error {
	id, ok := a.session.Identity()
	if !ok {
		return common.NewError(common.ErrAuthentication, "log in to complete the purchase")
	}
	if a.cart.Count() == 0 {
		return common.NewError(common.ErrValidation, "the cart is empty")
	}
	fmt.Fprintf(a.out, "Total to pay: %s\n", money(a.cart.Total()))

	var shipping models.ShippingInfo
	var err error
	defName := strings.TrimSpace(id.Name + " " + id.Surname)
	if shipping.Name, err = getSimpleText(a.reader, fmt.Sprintf("Recipient (default %s)", defName), a.out); err != nil {
		return err
	}
	if shipping.Name == "" {
		shipping.Name = defName
	}
	if shipping.Address, err = getSimpleText(a.reader, "Address", a.out); err != nil {
		return err
	}
	if shipping.City, err = getSimpleText(a.reader, "City", a.out); err != nil {
		return err
	}
	shipping.Method, err = GetChoice(a.reader, "Shipping",
		[]string{services.ShippingDelivery, services.ShippingPickup}, services.ShippingDelivery, a.out)
	if err != nil {
		return common.NewError(common.ErrValidation, err.Error())
	}

	var payment models.PaymentInfo
	payment.Method, err = GetChoice(a.reader, "Payment",
		[]string{services.PaymentQR, services.PaymentCard}, services.PaymentQR, a.out)
	if err != nil {
		return common.NewError(common.ErrValidation, err.Error())
	}
	if payment.Method == services.PaymentCard {
		if payment.Card, err = a.readSecret("Card number"); err != nil {
			return err
		}
	}

	order, err := a.checkout.Checkout(ctx, shipping, payment)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Order %s placed. Total: %s\n", order.ID, money(order.Total))
	return nil
}

// Orders lists the orders visible to the session.
func (a *App) Orders(_ context.Context) error {
	if !a.isLoggedIn() {
		return common.NewError(common.ErrAuthentication, "log in to see your orders")
	}

	orders := a.session.Orders()
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders")
		if st := a.session.Status(); st.Err != nil {
			fmt.Fprintln(a.out, "Last refresh failed:", common.Message(st.Err))
		}
		return nil
	}

	admin := a.isAdmin()
	headers := []string{"ID", "DATE", "STATUS", "ITEMS", "TOTAL"}
	if admin {
		headers = append(headers, "USER")
	}
	tw := newTable(a.out, headers...)
	for _, o := range orders {
		line := fmt.Sprintf("%s\t%s\t%s\t%d\t%s", o.ID, orderDate(o), o.Status, len(o.Items), money(o.Total))
		if admin {
			line += "\t" + o.UserID.String()
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

// Order fetches one order and prints it in full.
func (a *App) Order(ctx context.Context, args []string) error {
	id, err := idArg(args, "order")
	if err != nil {
		return err
	}
	o, err := a.session.OrderDetail(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Order %s  %s  %s\n", o.ID, orderDate(o), o.Status)
	fmt.Fprintf(a.out, "Ship to: %s, %s, %s (%s)\n", o.Shipping.Name, o.Shipping.Address, o.Shipping.City, o.Shipping.Method)
	payment := o.Payment.Method
	if o.Payment.Card != "" {
		payment += " " + o.Payment.Card
	}
	fmt.Fprintf(a.out, "Payment: %s\n", payment)

	tw := newTable(a.out, "ID", "NAME", "QTY", "SUBTOTAL")
	for _, it := range o.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", it.Key(), it.Name, it.Quantity, money(it.Subtotal()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Total: %s\n", money(o.Total))
	return nil
}

func (a *App) Cancel(ctx context.Context, args []string) error {
	id, err := idArg(args, "cancel")
	if err != nil {
		return err
	}
	o, err := a.session.CancelOrder(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Order %s is now %s\n", o.ID, o.Status)
	return nil
}
