// Package money computes document totals with exact decimal arithmetic.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places persisted for money columns.
const Places int32 = 2

// VATRate is the fixed tax rate applied to every document subtotal.
var VATRate = decimal.RequireFromString("0.07")

var (
	ErrEmptyItems          = errors.New("document must contain at least one item")
	ErrNonPositiveQuantity = errors.New("item quantity must be greater than zero")
	ErrNegativeUnitPrice   = errors.New("item unit price must not be negative")
)

// LineItem is the minimal input needed to price a document line.
type LineItem struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals holds the computed amounts of a document.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// ComputeTotals prices items at full precision. Use Rounded before persisting.
func ComputeTotals(items []LineItem) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, ErrEmptyItems
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return Totals{}, ErrNonPositiveQuantity
		}
		if item.UnitPrice.IsNegative() {
			return Totals{}, ErrNegativeUnitPrice
		}
		subtotal = subtotal.Add(LineTotal(item.Quantity, item.UnitPrice))
	}

	tax := subtotal.Mul(VATRate)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
	}, nil
}

// Rounded returns the totals rounded half-up to Places. GrandTotal is the sum
// of the rounded parts so the persisted columns always add up.
func (t Totals) Rounded() Totals {
	subtotal := Round(t.Subtotal)
	tax := Round(t.Tax)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
	}
}

// LineTotal returns quantity * unitPrice.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Round rounds d to Places. Amounts are never negative, so rounding half away
// from zero is the same as rounding half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}
