package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/internal/domain/repository"
	"github.com/sangkips/fms-api/pkg/apperror"
	"github.com/sangkips/fms-api/pkg/pagination"
	"go.uber.org/zap"
)

// AuditLogService exposes the audit trail
type AuditLogService struct {
	logs repository.AuditLogRepository
	log  *zap.Logger
}

// NewAuditLogService creates a new audit log service
func NewAuditLogService(logs repository.AuditLogRepository, log *zap.Logger) *AuditLogService {
	return &AuditLogService{logs: logs, log: log}
}

// List returns audit entries newest first. Admin only.
func (s *AuditLogService) List(ctx context.Context, actor *Actor, documentID *uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.AuditLog], error) {
	if err := RequireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}
	params = pagination.Ensure(params)
	logs, total, err := s.logs.List(ctx, documentID, params)
	if err != nil {
		return nil, persistenceError(s.log, "list logs", err)
	}
	return pagination.NewPaginatedResult(logs, params, total), nil
}

// ApproverName returns the name of whoever most recently approved documentID.
// It returns "" when the document was never approved or the approver account
// no longer exists.
func (s *AuditLogService) ApproverName(ctx context.Context, documentID uuid.UUID) (string, error) {
	entry, err := s.logs.LatestByAction(ctx, documentID, enum.AuditActionApproved)
	if err != nil {
		return "", persistenceError(s.log, "load approver", err)
	}
	if entry == nil || entry.Actor == nil {
		return "", nil
	}
	return entry.Actor.Name, nil
}

// Approver is ApproverName for the HTTP lookup, which reports a missing approver as 404
func (s *AuditLogService) Approver(ctx context.Context, documentID uuid.UUID) (string, error) {
	name, err := s.ApproverName(ctx, documentID)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", apperror.NewNotFoundError("Approver")
	}
	return name, nil
}
