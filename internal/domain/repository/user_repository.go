package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByLineUserID(ctx context.Context, lineUserID string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// ListByRole returns every user holding role, used to fan out approval requests
	ListByRole(ctx context.Context, role enum.Role) ([]entity.User, error)
}
