package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	domainRepo "github.com/sangkips/fms-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type idempotencyRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db, now: time.Now}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("key = ? AND user_id = ? AND expires_at > ?", key, userID, r.now()).
		First(&ikey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ikey, nil
}

// Create upserts on (key, user_id): a key whose entry expired but was not yet
// purged gets the new response.
func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"endpoint", "response_code", "response_body", "created_at", "expires_at"}),
		}).
		Create(ikey).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", r.now()).
		Delete(&entity.IdempotencyKey{})
	return result.RowsAffected, result.Error
}
