package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"gorm.io/gorm"
)

// AuditLog is an append-only entry describing who did what to a document.
// Approver lookups read the newest Approved entry for a document.
type AuditLog struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Action       enum.AuditAction  `gorm:"size:30;not null;index:idx_audit_document_action,priority:2" json:"action"`
	ActorID      *uuid.UUID        `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	DocumentType enum.DocumentType `gorm:"size:20;not null" json:"document_type"`
	DocumentID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_audit_document_action,priority:1" json:"document_id"`
	Detail       string            `gorm:"type:text" json:"detail,omitempty"`
	Timestamp    time.Time         `gorm:"not null;index" json:"timestamp"`

	Actor *User `gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL" json:"-"`
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	return nil
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
