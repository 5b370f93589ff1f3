package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quotation represents a price quotation issued to a customer
type Quotation struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	QuotationNumber string               `gorm:"size:100;uniqueIndex;not null" json:"quotation_number"`
	CustomerName    string               `gorm:"size:255;not null" json:"customer_name"`
	CustomerAddress string               `gorm:"type:text" json:"customer_address"`
	CustomerEmail   string               `gorm:"size:255" json:"customer_email"`
	UserID          *uuid.UUID           `gorm:"type:uuid;index" json:"user_id"`
	Status          enum.QuotationStatus `gorm:"size:20;not null;index" json:"status"`
	Subtotal        decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax             decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total           decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"total"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`

	// Relationships
	Owner *User           `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Items []QuotationItem `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"items"`
}

// BeforeCreate generates a UUID before creating a new quotation
func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quotation model
func (Quotation) TableName() string {
	return "quotations"
}

// IsOwnedBy reports whether userID created the quotation
func (q *Quotation) IsOwnedBy(userID uuid.UUID) bool {
	return q.UserID != nil && *q.UserID == userID
}

// QuotationItem represents a line item in a quotation
type QuotationItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	QuotationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"quotation_id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
}

// BeforeCreate generates a UUID before creating a new quotation item
func (qi *QuotationItem) BeforeCreate(tx *gorm.DB) error {
	if qi.ID == uuid.Nil {
		qi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuotationItem model
func (QuotationItem) TableName() string {
	return "quotation_items"
}
