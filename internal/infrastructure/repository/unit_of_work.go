package repository

import (
	"context"

	domainRepo "github.com/sangkips/fms-api/internal/domain/repository"
	"gorm.io/gorm"
)

// NewRepositories builds the repository set bound to db. Pass a transaction
// handle to get a transaction-scoped set.
func NewRepositories(db *gorm.DB) *domainRepo.Repositories {
	return &domainRepo.Repositories{
		Users:         NewUserRepository(db),
		Quotations:    NewQuotationRepository(db),
		Invoices:      NewInvoiceRepository(db),
		Receipts:      NewReceiptRepository(db),
		Notifications: NewNotificationRepository(db),
		AuditLogs:     NewAuditLogRepository(db),
	}
}

type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a unit of work backed by db
func NewUnitOfWork(db *gorm.DB) domainRepo.UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) WithTransaction(ctx context.Context, fn func(repos *domainRepo.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
