package workflow

import "github.com/sangkips/fms-api/internal/domain/enum"

// Quotations governs quotation status changes.
var Quotations = newQuotationMachine()

// Invoices governs invoice status changes. Paid is only reached through
// payment recording, so no transition here leads to it.
var Invoices = newInvoiceMachine()

// Receipts governs receipt status changes. Receipts start Pending because
// they are normally created by invoice approval.
var Receipts = newReceiptMachine()

func newQuotationMachine() *Machine[enum.QuotationStatus] {
	return NewBuilder(enum.DocumentQuotation.String(), enum.QuotationStatusDraft).
		Require(ActionSubmit, enum.RoleUser).
		Require(ActionApprove, enum.RoleAdmin).
		Require(ActionReject, enum.RoleAdmin).
		Require(ActionEdit, enum.RoleUser).
		Require(ActionDelete, enum.RoleUser).
		Configure(enum.QuotationStatusDraft).
		Permit(ActionSubmit, enum.QuotationStatusSubmitted).
		Configure(enum.QuotationStatusSubmitted).
		Permit(ActionApprove, enum.QuotationStatusApproved).
		Permit(ActionReject, enum.QuotationStatusRejected).
		Builder().
		Editable(
			enum.QuotationStatusDraft,
			enum.QuotationStatusSubmitted,
			enum.QuotationStatusRejected,
			enum.QuotationStatusCancelled,
		).
		Deletable(
			enum.QuotationStatusDraft,
			enum.QuotationStatusCancelled,
			enum.QuotationStatusRejected,
		).
		Build()
}

func newInvoiceMachine() *Machine[enum.InvoiceStatus] {
	return NewBuilder(enum.DocumentInvoice.String(), enum.InvoiceStatusDraft).
		Require(ActionSubmit, enum.RoleUser).
		Require(ActionApprove, enum.RoleAdmin).
		Require(ActionReject, enum.RoleAdmin).
		Require(ActionEdit, enum.RoleUser).
		Require(ActionDelete, enum.RoleUser).
		Configure(enum.InvoiceStatusDraft).
		Permit(ActionSubmit, enum.InvoiceStatusSubmitted).
		Configure(enum.InvoiceStatusSubmitted).
		Permit(ActionApprove, enum.InvoiceStatusApproved).
		Permit(ActionReject, enum.InvoiceStatusRejected).
		Builder().
		Editable(enum.InvoiceStatusDraft).
		Deletable(enum.InvoiceStatusDraft, enum.InvoiceStatusSubmitted, enum.InvoiceStatusRejected).
		Build()
}

func newReceiptMachine() *Machine[enum.ReceiptStatus] {
	return NewBuilder(enum.DocumentReceipt.String(), enum.ReceiptStatusPending).
		Require(ActionSubmit, enum.RoleUser).
		Require(ActionApprove, enum.RoleAdmin).
		Require(ActionReject, enum.RoleAdmin).
		Configure(enum.ReceiptStatusPending).
		Permit(ActionSubmit, enum.ReceiptStatusSubmitted).
		Configure(enum.ReceiptStatusSubmitted).
		Permit(ActionApprove, enum.ReceiptStatusApproved).
		Permit(ActionReject, enum.ReceiptStatusRejected).
		Builder().
		Build()
}
