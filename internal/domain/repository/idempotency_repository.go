package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
)

// IdempotencyRepository stores replayable create responses per caller
type IdempotencyRepository interface {
	// GetByKey returns the live entry for key and userID, or nil. Expired
	// entries are never returned.
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Create stores ikey, replacing an expired entry with the same key
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired purges expired entries and reports how many were removed
	DeleteExpired(ctx context.Context) (int64, error)
}
