package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuotation() *entity.Quotation {
	return &entity.Quotation{
		ID:              uuid.New(),
		QuotationNumber: "QT-2024-001",
		CustomerName:    "Acme Co.",
		CustomerAddress: "1 Main Road",
		Status:          enum.QuotationStatusApproved,
		Subtotal:        decimal.RequireFromString("250.00"),
		Tax:             decimal.RequireFromString("17.50"),
		Total:           decimal.RequireFromString("267.50"),
		CreatedAt:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Owner:           &entity.User{Name: "Nok"},
		Items: []entity.QuotationItem{
			{Description: "Widget", Quantity: 2, UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(200)},
			{Description: "Gadget", Quantity: 1, UnitPrice: decimal.NewFromInt(50), Total: decimal.NewFromInt(50)},
		},
	}
}

func TestFromQuotation(t *testing.T) {
	doc := FromQuotation(sampleQuotation(), "Admin One")

	assert.Equal(t, "QUOTATION", doc.Title)
	assert.Equal(t, "QT-2024-001", doc.Number)
	assert.Equal(t, "Nok", doc.IssuedBy)
	assert.Equal(t, "Admin One", doc.ApprovedBy)
	assert.Len(t, doc.Lines, 2)
	assert.True(t, doc.HasTotals())
	assert.Equal(t, "QT-2024-001.pdf", doc.Filename())
}

func TestFromReceipt(t *testing.T) {
	inv := &entity.Invoice{InvoiceNumber: "INV-QT-1", CustomerName: "Acme Co."}
	r := &entity.Receipt{
		ReceiptNumber: "RC-INV-QT-1",
		Amount:        decimal.RequireFromString("267.5"),
		PaymentMethod: enum.PaymentMethodBankTransfer,
		PaymentDate:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Status:        enum.ReceiptStatusPending,
	}

	doc := FromReceipt(r, inv, "")
	assert.False(t, doc.HasTotals())
	assert.Equal(t, [2]string{"Received From", "Acme Co."}, doc.Details[0])
	assert.Contains(t, doc.Details, [2]string{"Amount Paid", "267.50"})

	withoutInvoice := FromReceipt(r, nil, "")
	assert.Len(t, withoutInvoice.Details, 3)
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer("FMS Co., Ltd.")
	due := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		InvoiceNumber: "INV-QT-2024-001",
		CustomerName:  "Acme Co.",
		PaymentTerm:   entity.DefaultPaymentTerm,
		DueDate:       &due,
		Status:        enum.InvoiceStatusDraft,
		Subtotal:      decimal.RequireFromString("250.00"),
		Tax:           decimal.RequireFromString("17.50"),
		Total:         decimal.RequireFromString("267.50"),
		Items: []entity.InvoiceItem{
			{Description: "Widget", Quantity: 2, UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(200)},
		},
	}

	for name, doc := range map[string]Document{
		"quotation": FromQuotation(sampleQuotation(), "Admin One"),
		"invoice":   FromInvoice(inv, ""),
		"receipt": FromReceipt(&entity.Receipt{
			ReceiptNumber: "RC-1",
			Amount:        decimal.NewFromInt(10),
			PaymentMethod: enum.PaymentMethodCash,
		}, nil, ""),
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, doc))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}
