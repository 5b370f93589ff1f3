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
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *receiptRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	return r.first(r.db.WithContext(ctx).Scopes(ForUpdate), "id = ?", id)
}

func (r *receiptRepository) GetByNumber(ctx context.Context, number string) (*entity.Receipt, error) {
	return r.first(r.db.WithContext(ctx), "receipt_number = ?", number)
}

func (r *receiptRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*entity.Receipt, error) {
	return r.first(r.db.WithContext(ctx), "invoice_id = ?", invoiceID)
}

func (r *receiptRepository) first(query *gorm.DB, cond string, arg interface{}) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := query.
		Preload("Owner").
		Preload("Invoice").
		First(&receipt, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) UpdateStatus(ctx context.Context, receipt *entity.Receipt, status enum.ReceiptStatus) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Model(&entity.Receipt{}).
		Where("id = ?", receipt.ID).
		Updates(map[string]interface{}{"status": status, "updated_at": now}).Error
	if err != nil {
		return err
	}
	receipt.Status = status
	receipt.UpdatedAt = now
	return nil
}

func (r *receiptRepository) List(ctx context.Context, params *domainRepo.DocumentFilterParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Receipt{}).Scopes(DocumentFilter(params))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, params).
		Order("created_at DESC").
		Find(&receipts).Error

	return receipts, total, err
}

func (r *receiptRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, params *domainRepo.DocumentFilterParams) ([]entity.Receipt, int64, error) {
	return r.List(ctx, withOwner(params, ownerID))
}
