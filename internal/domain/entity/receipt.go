package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt records payment of an invoice
type Receipt struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID     *uuid.UUID         `gorm:"type:uuid;uniqueIndex" json:"invoice_id,omitempty"`
	ReceiptNumber string             `gorm:"size:100;uniqueIndex;not null" json:"receipt_number"`
	PaymentDate   time.Time          `gorm:"not null" json:"payment_date"`
	Amount        decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod enum.PaymentMethod `gorm:"size:30;not null" json:"payment_method"`
	UserID        *uuid.UUID         `gorm:"type:uuid;index" json:"user_id"`
	Status        enum.ReceiptStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Owner   *User    `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Invoice *Invoice `gorm:"foreignKey:InvoiceID;constraint:OnDelete:SET NULL" json:"-"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// IsOwnedBy reports whether userID owns the receipt
func (r *Receipt) IsOwnedBy(userID uuid.UUID) bool {
	return r.UserID != nil && *r.UserID == userID
}
