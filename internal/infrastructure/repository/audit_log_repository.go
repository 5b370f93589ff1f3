package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	domainRepo "github.com/sangkips/fms-api/internal/domain/repository"
	"github.com/sangkips/fms-api/pkg/pagination"
	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) domainRepo.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditLogRepository) List(ctx context.Context, documentID *uuid.UUID, params *pagination.PaginationParams) ([]entity.AuditLog, int64, error) {
	var logs []entity.AuditLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.AuditLog{})
	if documentID != nil {
		query = query.Where("document_id = ?", *documentID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Actor").
		Order("timestamp DESC").
		Find(&logs).Error

	return logs, total, err
}

func (r *auditLogRepository) LatestByAction(ctx context.Context, documentID uuid.UUID, action enum.AuditAction) (*entity.AuditLog, error) {
	var log entity.AuditLog
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("document_id = ? AND action = ?", documentID, action).
		Order("timestamp DESC").
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &log, err
}
