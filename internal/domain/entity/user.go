package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"gorm.io/gorm"
)

// User represents an account that owns documents or approves them
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role         enum.Role `gorm:"size:20;not null" json:"role"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Address      *string   `gorm:"type:text" json:"address,omitempty"`
	LineUserID   *string   `gorm:"size:64;uniqueIndex" json:"line_user_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the Admin role
func (u *User) IsAdmin() bool {
	return u.Role == enum.RoleAdmin
}

// HasLineAccount reports whether a LINE account is linked
func (u *User) HasLineAccount() bool {
	return u.LineUserID != nil && *u.LineUserID != ""
}
