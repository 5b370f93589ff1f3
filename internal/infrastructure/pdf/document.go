package pdf

import (
	"fmt"
	"time"

	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/pkg/money"
	"github.com/shopspring/decimal"
)

const dateLayout = "02 Jan 2006"

// Line is one row of the item table
type Line struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// Document is the printable view of a quotation, invoice or receipt
type Document struct {
	Title      string
	Number     string
	Date       time.Time
	Status     string
	Details    [][2]string
	Lines      []Line
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	IssuedBy   string
	ApprovedBy string
}

// HasTotals reports whether the document carries a VAT breakdown
func (d Document) HasTotals() bool {
	return len(d.Lines) > 0
}

func ownerName(u *entity.User) string {
	if u == nil {
		return ""
	}
	return u.Name
}

// FromQuotation builds the printable view of q
func FromQuotation(q *entity.Quotation, approvedBy string) Document {
	lines := make([]Line, 0, len(q.Items))
	for _, it := range q.Items {
		lines = append(lines, Line{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice, Total: it.Total})
	}
	return Document{
		Title:  "QUOTATION",
		Number: q.QuotationNumber,
		Date:   q.CreatedAt,
		Status: q.Status.String(),
		Details: [][2]string{
			{"Customer", q.CustomerName},
			{"Address", q.CustomerAddress},
			{"Email", q.CustomerEmail},
		},
		Lines:      lines,
		Subtotal:   q.Subtotal,
		Tax:        q.Tax,
		Total:      q.Total,
		IssuedBy:   ownerName(q.Owner),
		ApprovedBy: approvedBy,
	}
}

// FromInvoice builds the printable view of inv
func FromInvoice(inv *entity.Invoice, approvedBy string) Document {
	lines := make([]Line, 0, len(inv.Items))
	for _, it := range inv.Items {
		lines = append(lines, Line{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice, Total: it.Total})
	}
	due := ""
	if inv.DueDate != nil {
		due = inv.DueDate.Format(dateLayout)
	}
	return Document{
		Title:  "INVOICE",
		Number: inv.InvoiceNumber,
		Date:   inv.CreatedAt,
		Status: inv.Status.String(),
		Details: [][2]string{
			{"Bill To", inv.CustomerName},
			{"Address", inv.CustomerAddress},
			{"Payment Terms", inv.PaymentTerm},
			{"Due Date", due},
		},
		Lines:      lines,
		Subtotal:   inv.Subtotal,
		Tax:        inv.Tax,
		Total:      inv.Total,
		IssuedBy:   ownerName(inv.Owner),
		ApprovedBy: approvedBy,
	}
}

// FromReceipt builds the printable view of r. inv may be nil for receipts
// whose invoice was removed.
func FromReceipt(r *entity.Receipt, inv *entity.Invoice, approvedBy string) Document {
	details := [][2]string{
		{"Payment Date", r.PaymentDate.Format(dateLayout)},
		{"Payment Method", r.PaymentMethod.String()},
		{"Amount Paid", money.Round(r.Amount).StringFixed(money.Places)},
	}
	if inv != nil {
		details = append([][2]string{
			{"Received From", inv.CustomerName},
			{"Invoice", inv.InvoiceNumber},
		}, details...)
	}
	return Document{
		Title:      "RECEIPT",
		Number:     r.ReceiptNumber,
		Date:       r.CreatedAt,
		Status:     r.Status.String(),
		Details:    details,
		Total:      r.Amount,
		IssuedBy:   ownerName(r.Owner),
		ApprovedBy: approvedBy,
	}
}

// Filename suggests a download name for d
func (d Document) Filename() string {
	return fmt.Sprintf("%s.pdf", d.Number)
}
