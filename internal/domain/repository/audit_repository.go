package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/pkg/pagination"
)

// AuditLogRepository defines the interface for the append-only audit log
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	// List returns entries newest first, optionally restricted to one document
	List(ctx context.Context, documentID *uuid.UUID, params *pagination.PaginationParams) ([]entity.AuditLog, int64, error)
	// LatestByAction returns the newest entry for documentID with action, actor preloaded
	LatestByAction(ctx context.Context, documentID uuid.UUID, action enum.AuditAction) (*entity.AuditLog, error)
}

// NotificationRepository defines the interface for delivered notification records
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Notification, int64, error)
}
