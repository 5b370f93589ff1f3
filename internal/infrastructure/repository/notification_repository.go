package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	domainRepo "github.com/sangkips/fms-api/internal/domain/repository"
	"github.com/sangkips/fms-api/pkg/pagination"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) domainRepo.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Notification, int64, error) {
	var notifications []entity.Notification
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Notification{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&notifications).Error

	return notifications, total, err
}
