package service

import (
	"strings"

	"github.com/sangkips/fms-api/pkg/apperror"
	"github.com/sangkips/fms-api/pkg/money"
	"github.com/shopspring/decimal"
)

// ItemInput is a line item as supplied by a client
type ItemInput struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type pricedItem struct {
	ItemInput
	Total decimal.Decimal
}

// priceItems validates items and returns them with their line totals and the
// rounded document totals
func priceItems(document string, inputs []ItemInput) ([]pricedItem, money.Totals, error) {
	lines := make([]money.LineItem, len(inputs))
	for i, in := range inputs {
		lines[i] = money.LineItem{Quantity: in.Quantity, UnitPrice: in.UnitPrice}
	}

	totals, err := money.ComputeTotals(lines)
	if err != nil {
		return nil, money.Totals{}, itemsError(document, err)
	}

	priced := make([]pricedItem, len(inputs))
	for i, in := range inputs {
		in.Description = strings.TrimSpace(in.Description)
		if in.Description == "" {
			return nil, money.Totals{}, apperror.NewValidationError("Item description is required.",
				apperror.FieldError{Field: "items.description", Message: "is required"})
		}
		priced[i] = pricedItem{ItemInput: in, Total: money.LineTotal(in.Quantity, in.UnitPrice)}
	}
	return priced, totals.Rounded(), nil
}

func requireCustomer(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperror.NewValidationError("Customer name is required.",
			apperror.FieldError{Field: "customer_name", Message: "is required"})
	}
	return nil
}
