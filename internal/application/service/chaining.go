package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/internal/domain/repository"
	"github.com/sangkips/fms-api/pkg/apperror"
	"github.com/sangkips/fms-api/pkg/money"
)

const (
	invoicePrefix = "INV-"
	receiptPrefix = "RC-"
	paymentWindow = 30 * 24 * time.Hour
)

// DocumentChainer derives the next document of the pipeline from an approved
// one. Both methods run on transaction-bound repositories and return the
// existing successor unchanged when one is already present, reporting
// created=false. A derived number already held by another document is a
// ConflictError.
type DocumentChainer struct {
	now func() time.Time
}

// NewDocumentChainer creates a new chainer
func NewDocumentChainer() *DocumentChainer {
	return &DocumentChainer{now: time.Now}
}

// InvoiceFromQuotation creates the Draft invoice for an approved quotation
func (c *DocumentChainer) InvoiceFromQuotation(ctx context.Context, repos *repository.Repositories, q *entity.Quotation) (*entity.Invoice, bool, error) {
	existing, err := repos.Invoices.GetByQuotationID(ctx, q.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	number := invoicePrefix + q.QuotationNumber
	taken, err := repos.Invoices.GetByNumber(ctx, number)
	if err != nil {
		return nil, false, err
	}
	if taken != nil {
		return nil, false, apperror.NewConflictError(fmt.Sprintf(
			"Cannot derive an invoice from quotation %s: invoice number '%s' is already in use.", q.QuotationNumber, number))
	}

	now := c.now()
	due := now.Add(paymentWindow)
	quotationID := q.ID

	invoice := &entity.Invoice{
		QuotationID:     &quotationID,
		InvoiceNumber:   number,
		CustomerName:    q.CustomerName,
		CustomerAddress: q.CustomerAddress,
		PaymentTerm:     entity.DefaultPaymentTerm,
		UserID:          q.UserID,
		Status:          enum.InvoiceStatusDraft,
		Subtotal:        q.Subtotal,
		Tax:             q.Tax,
		Total:           q.Total,
		DueDate:         &due,
		Items:           make([]entity.InvoiceItem, 0, len(q.Items)),
	}
	for _, item := range q.Items {
		invoice.Items = append(invoice.Items, entity.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       money.LineTotal(item.Quantity, item.UnitPrice),
		})
	}

	if err := repos.Invoices.Create(ctx, invoice); err != nil {
		return nil, false, err
	}
	return invoice, true, nil
}

// ReceiptFromInvoice creates the Pending receipt for an approved invoice
func (c *DocumentChainer) ReceiptFromInvoice(ctx context.Context, repos *repository.Repositories, inv *entity.Invoice) (*entity.Receipt, bool, error) {
	existing, err := repos.Receipts.GetByInvoiceID(ctx, inv.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	number := receiptPrefix + inv.InvoiceNumber
	taken, err := repos.Receipts.GetByNumber(ctx, number)
	if err != nil {
		return nil, false, err
	}
	if taken != nil {
		return nil, false, apperror.NewConflictError(fmt.Sprintf(
			"Cannot derive a receipt from invoice %s: receipt number '%s' is already in use.", inv.InvoiceNumber, number))
	}

	invoiceID := inv.ID
	receipt := &entity.Receipt{
		InvoiceID:     &invoiceID,
		ReceiptNumber: number,
		PaymentDate:   c.now(),
		Amount:        inv.Total,
		PaymentMethod: enum.PaymentMethodBankTransfer,
		UserID:        inv.UserID,
		Status:        enum.ReceiptStatusPending,
	}
	if err := repos.Receipts.Create(ctx, receipt); err != nil {
		return nil, false, err
	}
	return receipt, true, nil
}
