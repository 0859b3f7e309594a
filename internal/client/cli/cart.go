package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/common"
)

// Add puts a catalog product into the cart. An unknown id triggers one
// catalog reload before giving up.
func (a *App) Add(ctx context.Context, args []string) error {
	id, qty, err := idQtyArgs(args, "add", true)
	if err != nil {
		return err
	}

	p, ok := a.catalog.Find(id)
	if !ok {
		if err := a.catalog.Load(ctx); err != nil {
			return err
		}
		if p, ok = a.catalog.Find(id); !ok {
			return common.NewError(common.ErrNotFound, fmt.Sprintf("product %s not found", id))
		}
	}

	a.cart.Add(ctx, p, qty)
	fmt.Fprintf(a.out, "Added %s to the cart\n", p.Name)
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	id, err := a.cartLine(args, "remove")
	if err != nil {
		return err
	}
	a.cart.Remove(ctx, id)
	fmt.Fprintln(a.out, "Removed from the cart")
	return nil
}

func (a *App) Quantity(ctx context.Context, args []string) error {
	id, qty, err := idQtyArgs(args, "qty", false)
	if err != nil {
		return err
	}
	if !hasLine(a.cart.Items(), id) {
		return notInCart(id)
	}
	a.cart.SetQuantity(ctx, id, qty)
	fmt.Fprintf(a.out, "Quantity set to %d\n", models.ClampQuantity(qty))
	return nil
}

func (a *App) Save(ctx context.Context, args []string) error {
	id, err := a.cartLine(args, "save")
	if err != nil {
		return err
	}
	a.cart.SaveForLater(ctx, id)
	fmt.Fprintln(a.out, "Saved for later")
	return nil
}

func (a *App) Restore(ctx context.Context, args []string) error {
	id, err := a.savedLine(args, "restore")
	if err != nil {
		return err
	}
	a.cart.Restore(ctx, id)
	fmt.Fprintln(a.out, "Moved back to the cart")
	return nil
}

func (a *App) Unsave(ctx context.Context, args []string) error {
	id, err := a.savedLine(args, "unsave")
	if err != nil {
		return err
	}
	a.cart.RemoveSaved(ctx, id)
	fmt.Fprintln(a.out, "Removed from saved items")
	return nil
}

// Cart prints the cart lines, the total and the saved-for-later list.
func (a *App) Cart(_ context.Context) error {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "The cart is empty")
	} else {
		tw := newTable(a.out, "ID", "NAME", "QTY", "UNIT", "SUBTOTAL")
		for _, it := range items {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", it.Key(), it.Name, it.Quantity, money(it.UnitPrice()), money(it.Subtotal()))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Items: %d  Total: %s\n", a.cart.Count(), money(a.cart.Total()))
	}

	if saved := a.cart.Saved(); len(saved) > 0 {
		fmt.Fprintln(a.out, "Saved for later:")
		tw := newTable(a.out, "ID", "NAME", "QTY", "UNIT")
		for _, it := range saved {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", it.Key(), it.Name, it.Quantity, money(it.UnitPrice()))
		}
		return tw.Flush()
	}
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	a.cart.Clear(ctx)
	fmt.Fprintln(a.out, "The cart was emptied")
	return nil
}

func (a *App) cartLine(args []string, cmd string) (models.ID, error) {
	id, err := idArg(args, cmd)
	if err != nil {
		return "", err
	}
	if !hasLine(a.cart.Items(), id) {
		return "", notInCart(id)
	}
	return id, nil
}

func (a *App) savedLine(args []string, cmd string) (models.ID, error) {
	id, err := idArg(args, cmd)
	if err != nil {
		return "", err
	}
	if !hasLine(a.cart.Saved(), id) {
		return "", common.NewError(common.ErrNotFound, fmt.Sprintf("%s is not among the saved items", id))
	}
	return id, nil
}

func notInCart(id models.ID) error {
	return common.NewError(common.ErrNotFound, fmt.Sprintf("%s is not in the cart", id))
}
