// Package invoice turns an order snapshot into a priced invoice document.
package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/money"
	"github.com/Simplici0/o.bakery/internal/settings"
)

// Line is one billed item.
type Line struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// Invoice is the billable view of an order. Amounts are rounded to cents.
type Invoice struct {
	Number       string    `json:"number"`
	BusinessName string    `json:"businessName"`
	CustomerName string    `json:"customerName"`
	DeliveryDate time.Time `json:"deliveryDate"`
	Currency     string    `json:"currency"`
	Lines        []Line    `json:"lines"`
	Subtotal     float64   `json:"subtotal"`
	TaxRate      float64   `json:"taxRate"`
	Tax          float64   `json:"tax"`
	Total        float64   `json:"total"`
	DepositDue   float64   `json:"depositDue"`
	Notes        string    `json:"notes,omitempty"`
}

// Build prices an order with the business tax rate. A deposit is computed
// only when the order settings require one.
func Build(o bakery.Order, biz settings.Business, ord settings.Order) Invoice {
	inv := Invoice{
		Number:       o.OrderNumber,
		BusinessName: biz.BusinessName,
		CustomerName: o.CustomerName,
		DeliveryDate: o.DeliveryDate,
		Currency:     biz.Currency,
		TaxRate:      biz.TaxRate,
		Lines:        make([]Line, 0, len(o.Lines)),
		Notes:        o.Notes,
	}

	subtotal := decimal.Zero
	for _, l := range o.Lines {
		total := money.RoundCents(l.Total())
		inv.Lines = append(inv.Lines, Line{
			Description: l.RecipeName,
			Quantity:    l.Quantity,
			UnitPrice:   money.RoundCents(l.UnitPrice),
			Total:       total,
		})
		subtotal = subtotal.Add(decimal.NewFromFloat(total))
	}

	hundred := decimal.NewFromInt(100)
	tax := subtotal.Mul(decimal.NewFromFloat(biz.TaxRate)).Div(hundred).Round(2)
	total := subtotal.Add(tax)

	inv.Subtotal = subtotal.InexactFloat64()
	inv.Tax = tax.InexactFloat64()
	inv.Total = total.InexactFloat64()
	if ord.RequireDeposit {
		inv.DepositDue = total.Mul(decimal.NewFromFloat(ord.DepositPercentage)).Div(hundred).Round(2).InexactFloat64()
	}
	return inv
}

// Text renders the invoice as a fixed-width plain text document.
func Text(inv Invoice) string {
	var b strings.Builder
	if inv.BusinessName != "" {
		fmt.Fprintf(&b, "%s\n", inv.BusinessName)
	}
	fmt.Fprintf(&b, "Invoice %s\n", inv.Number)
	fmt.Fprintf(&b, "Customer: %s\n", inv.CustomerName)
	fmt.Fprintf(&b, "Delivery: %s\n\n", inv.DeliveryDate.Format("2006-01-02"))

	for _, l := range inv.Lines {
		fmt.Fprintf(&b, "%-28s %6s x %14s = %14s\n",
			truncate(l.Description, 28),
			money.Format("", l.Quantity),
			money.Format(inv.Currency, l.UnitPrice),
			money.Format(inv.Currency, l.Total))
	}

	fmt.Fprintf(&b, "\n%-20s %s\n", "Subtotal:", money.Format(inv.Currency, inv.Subtotal))
	fmt.Fprintf(&b, "%-20s %s\n", fmt.Sprintf("Tax (%s%%):", money.Format("", inv.TaxRate)), money.Format(inv.Currency, inv.Tax))
	fmt.Fprintf(&b, "%-20s %s\n", "Total:", money.Format(inv.Currency, inv.Total))
	if inv.DepositDue > 0 {
		fmt.Fprintf(&b, "%-20s %s\n", "Deposit due:", money.Format(inv.Currency, inv.DepositDue))
	}
	if inv.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", inv.Notes)
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
