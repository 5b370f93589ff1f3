package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultPaymentTerm is used for invoices derived from a quotation
const DefaultPaymentTerm = "Net 30 Days"

// Invoice represents a bill issued manually or derived from an approved quotation
type Invoice struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	QuotationID     *uuid.UUID         `gorm:"type:uuid;uniqueIndex" json:"quotation_id,omitempty"`
	InvoiceNumber   string             `gorm:"size:100;uniqueIndex;not null" json:"invoice_number"`
	CustomerName    string             `gorm:"size:255;not null" json:"customer_name"`
	CustomerAddress string             `gorm:"type:text" json:"customer_address"`
	PaymentTerm     string             `gorm:"size:100" json:"payment_term"`
	UserID          *uuid.UUID         `gorm:"type:uuid;index" json:"user_id"`
	Status          enum.InvoiceStatus `gorm:"size:20;not null;index" json:"status"`
	Subtotal        decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax             decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total           decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"total"`
	DueDate         *time.Time         `json:"due_date,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`

	// Relationships
	Owner     *User         `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Quotation *Quotation    `gorm:"foreignKey:QuotationID;constraint:OnDelete:SET NULL" json:"-"`
	Items     []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// IsOwnedBy reports whether userID owns the invoice
func (i *Invoice) IsOwnedBy(userID uuid.UUID) bool {
	return i.UserID != nil && *i.UserID == userID
}

// InvoiceItem represents a line item in an invoice
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (ii *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if ii.ID == uuid.Nil {
		ii.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
