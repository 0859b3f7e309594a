package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/shopspring/decimal"
)

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func priceLabel(p models.Product) string {
	unit := p.UnitPrice()
	if unit.Equal(p.Price) {
		return money(unit)
	}
	return fmt.Sprintf("%s (was %s)", money(unit), money(p.Price))
}

func orderDate(o models.Order) string {
	if t, ok := o.Created(); ok {
		return t.Local().Format("2006-01-02 15:04")
	}
	return o.CreatedAt
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// idArg returns the first argument as an id.
func idArg(args []string, cmd string) (models.ID, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", usage(cmd + " <id>")
	}
	return models.ID(args[0]), nil
}

// idQtyArgs parses "<id> <n>". When optional is true the quantity may be
// omitted and defaults to 1.
func idQtyArgs(args []string, cmd string, optional bool) (models.ID, int, error) {
	form := cmd + " <id> <n>"
	if optional {
		form = cmd + " <id> [qty]"
	}
	if len(args) == 0 || (!optional && len(args) < 2) {
		return "", 0, usage(form)
	}
	if len(args) < 2 {
		return models.ID(args[0]), 1, nil
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return "", 0, usage(form)
	}
	return models.ID(args[0]), n, nil
}

func hasLine(items []models.CartItem, id models.ID) bool {
	for _, it := range items {
		if it.Key() == id {
			return true
		}
	}
	return false
}
