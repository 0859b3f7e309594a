package cli

import (
	"context"
	"fmt"
	"strings"
)

// Products lists the catalog, optionally narrowed to one category. The
// catalog is fetched on first use.
func (a *App) Products(ctx context.Context, args []string) error {
	if err := a.ensureCatalog(ctx); err != nil {
		return err
	}

	products := a.catalog.ByCategory(strings.Join(args, " "))
	if len(products) == 0 {
		fmt.Fprintln(a.out, "No products found")
		return nil
	}

	tw := newTable(a.out, "ID", "NAME", "CATEGORY", "PRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Key(), p.Name, p.Category, priceLabel(p))
	}
	return tw.Flush()
}

func (a *App) Categories(ctx context.Context) error {
	if err := a.ensureCatalog(ctx); err != nil {
		return err
	}
	cats := a.catalog.Categories()
	if len(cats) == 0 {
		fmt.Fprintln(a.out, "No categories")
		return nil
	}
	for _, c := range cats {
		fmt.Fprintln(a.out, " -", c)
	}
	return nil
}

func (a *App) ensureCatalog(ctx context.Context) error {
	if len(a.catalog.Products()) > 0 {
		return nil
	}
	return a.catalog.Load(ctx)
}
