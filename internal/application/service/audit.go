package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/internal/domain/repository"
)

// recordAudit appends an audit entry using the repositories of the running transaction
func recordAudit(ctx context.Context, repos *repository.Repositories, actor *Actor, action enum.AuditAction, doc enum.DocumentType, docID uuid.UUID, detail string) error {
	entry := &entity.AuditLog{
		Action:       action,
		DocumentType: doc,
		DocumentID:   docID,
		Detail:       detail,
	}
	if actor != nil {
		id := actor.ID
		entry.ActorID = &id
	}
	return repos.AuditLogs.Create(ctx, entry)
}

func decisionAudit(approved bool) enum.AuditAction {
	if approved {
		return enum.AuditActionApproved
	}
	return enum.AuditActionRejected
}
