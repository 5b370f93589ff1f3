package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Notification is an append-only record of a delivered message
type Notification struct {
	ID        uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID             `gorm:"type:uuid;not null;index" json:"user_id"`
	Message   string                `gorm:"type:text;not null" json:"message"`
	Type      enum.NotificationType `gorm:"size:20;not null" json:"type"`
	CreatedAt time.Time             `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}
