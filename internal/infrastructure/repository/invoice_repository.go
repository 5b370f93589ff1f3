package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	domainRepo "github.com/sangkips/fms-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *invoiceRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return r.first(r.db.WithContext(ctx).Scopes(ForUpdate), "id = ?", id)
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	return r.first(r.db.WithContext(ctx), "invoice_number = ?", number)
}

func (r *invoiceRepository) GetByQuotationID(ctx context.Context, quotationID uuid.UUID) (*entity.Invoice, error) {
	return r.first(r.db.WithContext(ctx), "quotation_id = ?", quotationID)
}

func (r *invoiceRepository) first(query *gorm.DB, cond string, arg interface{}) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := query.
		Preload("Items").
		Preload("Owner").
		First(&invoice, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(invoice).Error
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, invoice *entity.Invoice, status enum.InvoiceStatus) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{"status": status, "updated_at": now}).Error
	if err != nil {
		return err
	}
	invoice.Status = status
	invoice.UpdatedAt = now
	return nil
}

func (r *invoiceRepository) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []entity.InvoiceItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&entity.InvoiceItem{}, "invoice_id = ?", invoiceID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].InvoiceID = invoiceID
	}
	return db.Create(&items).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&entity.InvoiceItem{}, "invoice_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&entity.Invoice{}, "id = ?", id).Error
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.DocumentFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).Scopes(DocumentFilter(params))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, params).
		Preload("Items").
		Order("created_at DESC").
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, params *domainRepo.DocumentFilterParams) ([]entity.Invoice, int64, error) {
	return r.List(ctx, withOwner(params, ownerID))
}
