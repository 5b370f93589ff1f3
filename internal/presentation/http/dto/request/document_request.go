package request

import (
	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/shopspring/decimal"
)

// ItemRequest is one line item. Quantities and prices are validated by the
// service so the client gets the domain message.
type ItemRequest struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Items converts request items to service input
func Items(items []ItemRequest) []service.ItemInput {
	out := make([]service.ItemInput, len(items))
	for i, it := range items {
		out[i] = service.ItemInput{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return out
}

// CreateQuotationRequest represents the create quotation request body.
// Status is Draft (default) or Submitted.
type CreateQuotationRequest struct {
	QuotationNumber string        `json:"quotation_number" binding:"max=100"`
	CustomerName    string        `json:"customer_name" binding:"required,max=255"`
	CustomerAddress string        `json:"customer_address"`
	CustomerEmail   string        `json:"customer_email" binding:"omitempty,email"`
	Status          string        `json:"status"`
	Items           []ItemRequest `json:"items"`
}

// UpdateQuotationRequest represents the edit quotation request body
type UpdateQuotationRequest struct {
	CustomerName    string        `json:"customer_name" binding:"required,max=255"`
	CustomerAddress string        `json:"customer_address"`
	CustomerEmail   string        `json:"customer_email" binding:"omitempty,email"`
	Items           []ItemRequest `json:"items"`
}

// CreateInvoiceRequest represents the create invoice request body. DueDate
// is YYYY-MM-DD; Status is Draft (default) or Submitted.
type CreateInvoiceRequest struct {
	InvoiceNumber   string        `json:"invoice_number" binding:"max=100"`
	CustomerName    string        `json:"customer_name" binding:"required,max=255"`
	CustomerAddress string        `json:"customer_address"`
	PaymentTerm     string        `json:"payment_term" binding:"max=100"`
	DueDate         string        `json:"due_date"`
	Status          string        `json:"status"`
	Items           []ItemRequest `json:"items"`
}

// UpdateInvoiceRequest represents the edit invoice request body
type UpdateInvoiceRequest struct {
	CustomerName    string        `json:"customer_name" binding:"required,max=255"`
	CustomerAddress string        `json:"customer_address"`
	PaymentTerm     string        `json:"payment_term" binding:"max=100"`
	DueDate         string        `json:"due_date"`
	Items           []ItemRequest `json:"items"`
}

// CreateReceiptRequest represents the manual receipt request body.
// InvoiceID is optional. PaymentDate is YYYY-MM-DD and defaults to today.
type CreateReceiptRequest struct {
	InvoiceID     string          `json:"invoice_id" binding:"omitempty,uuid"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
}
