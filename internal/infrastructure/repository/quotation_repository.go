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

type quotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository creates a new quotation repository
func NewQuotationRepository(db *gorm.DB) domainRepo.QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, quotation *entity.Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

func (r *quotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *quotationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	return r.first(r.db.WithContext(ctx).Scopes(ForUpdate), "id = ?", id)
}

func (r *quotationRepository) GetByNumber(ctx context.Context, number string) (*entity.Quotation, error) {
	return r.first(r.db.WithContext(ctx), "quotation_number = ?", number)
}

func (r *quotationRepository) first(query *gorm.DB, cond string, arg interface{}) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := query.
		Preload("Items").
		Preload("Owner").
		First(&quotation, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quotation, err
}

func (r *quotationRepository) Update(ctx context.Context, quotation *entity.Quotation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(quotation).Error
}

func (r *quotationRepository) UpdateStatus(ctx context.Context, quotation *entity.Quotation, status enum.QuotationStatus) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Model(&entity.Quotation{}).
		Where("id = ?", quotation.ID).
		Updates(map[string]interface{}{"status": status, "updated_at": now}).Error
	if err != nil {
		return err
	}
	quotation.Status = status
	quotation.UpdatedAt = now
	return nil
}

func (r *quotationRepository) ReplaceItems(ctx context.Context, quotationID uuid.UUID, items []entity.QuotationItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&entity.QuotationItem{}, "quotation_id = ?", quotationID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].QuotationID = quotationID
	}
	return db.Create(&items).Error
}

func (r *quotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&entity.QuotationItem{}, "quotation_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&entity.Quotation{}, "id = ?", id).Error
}

func (r *quotationRepository) List(ctx context.Context, params *domainRepo.DocumentFilterParams) ([]entity.Quotation, int64, error) {
	var quotations []entity.Quotation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Quotation{}).Scopes(DocumentFilter(params))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, params).
		Preload("Items").
		Order("created_at DESC").
		Find(&quotations).Error

	return quotations, total, err
}

func (r *quotationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, params *domainRepo.DocumentFilterParams) ([]entity.Quotation, int64, error) {
	return r.List(ctx, withOwner(params, ownerID))
}
