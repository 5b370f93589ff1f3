package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/pkg/pagination"
)

// DocumentFilterParams contains filtering parameters for document list queries
type DocumentFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     string
	OwnerID    *uuid.UUID
}

// QuotationRepository defines the interface for quotation data operations.
// Getters return nil, nil when no row matches.
type QuotationRepository interface {
	Create(ctx context.Context, quotation *entity.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	GetByNumber(ctx context.Context, number string) (*entity.Quotation, error)
	Update(ctx context.Context, quotation *entity.Quotation) error
	UpdateStatus(ctx context.Context, quotation *entity.Quotation, status enum.QuotationStatus) error
	ReplaceItems(ctx context.Context, quotationID uuid.UUID, items []entity.QuotationItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *DocumentFilterParams) ([]entity.Quotation, int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params *DocumentFilterParams) ([]entity.Quotation, int64, error)
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	GetByQuotationID(ctx context.Context, quotationID uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, invoice *entity.Invoice, status enum.InvoiceStatus) error
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []entity.InvoiceItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *DocumentFilterParams) ([]entity.Invoice, int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params *DocumentFilterParams) ([]entity.Invoice, int64, error)
}

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	GetByNumber(ctx context.Context, number string) (*entity.Receipt, error)
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*entity.Receipt, error)
	UpdateStatus(ctx context.Context, receipt *entity.Receipt, status enum.ReceiptStatus) error
	List(ctx context.Context, params *DocumentFilterParams) ([]entity.Receipt, int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params *DocumentFilterParams) ([]entity.Receipt, int64, error)
}
