package repository

import "context"

// Repositories groups the stores a single operation works with. A set handed
// out by UnitOfWork.WithTransaction is bound to that transaction.
type Repositories struct {
	Users         UserRepository
	Quotations    QuotationRepository
	Invoices      InvoiceRepository
	Receipts      ReceiptRepository
	Notifications NotificationRepository
	AuditLogs     AuditLogRepository
}

// UnitOfWork runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back on error or panic.
type UnitOfWork interface {
	WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}
