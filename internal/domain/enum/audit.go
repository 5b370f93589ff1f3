package enum

// DocumentType names the document an audit entry refers to
type DocumentType string

const (
	DocumentQuotation DocumentType = "Quotation"
	DocumentInvoice   DocumentType = "Invoice"
	DocumentReceipt   DocumentType = "Receipt"
)

func (t DocumentType) String() string {
	return string(t)
}

// AuditAction is the action recorded in the audit log
type AuditAction string

const (
	AuditActionCreated   AuditAction = "Created"
	AuditActionUpdated   AuditAction = "Updated"
	AuditActionDeleted   AuditAction = "Deleted"
	AuditActionSubmitted AuditAction = "Submitted"
	AuditActionApproved  AuditAction = "Approved"
	AuditActionRejected  AuditAction = "Rejected"
	AuditActionChained   AuditAction = "Chained"
)

func (a AuditAction) String() string {
	return string(a)
}
