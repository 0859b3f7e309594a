package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/client/services"
	"github.com/dmitrijs2005/storefront/internal/common"
)

func (a *App) requireAdmin() error {
	if !a.isAdmin() {
		return common.NewError(common.ErrAuthentication, "administrator access required")
	}
	return nil
}

func (a *App) Users(_ context.Context) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	users := a.session.Users()
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}
	tw := newTable(a.out, "ID", "NAME", "EMAIL", "ROLE", "ACTIVE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\n", u.ID, u.Name, u.Surname, u.Email, u.Role, yesNo(u.Active))
	}
	return tw.Flush()
}

// Toggle flips the active flag of a user in the local registry.
func (a *App) Toggle(_ context.Context, args []string) error {
	id, err := idArg(args, "toggle")
	if err != nil {
		return err
	}
	u, err := a.session.ToggleActive(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s active: %s\n", u.Email, yesNo(u.Active))
	return nil
}

func (a *App) Dashboard(_ context.Context) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	d := services.Summarize(a.session)
	fmt.Fprintf(a.out, "Users: %d\nOrders: %d (pending %d, cancelled %d)\nRevenue: %s\n",
		d.Users, d.Orders, d.Pending, d.Cancelled, money(d.Revenue))
	return nil
}

// Refresh reloads the catalog and the session registries.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.catalog.Load(ctx); err != nil {
		return err
	}
	if err := a.session.Refresh(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Refreshed")
	return nil
}
