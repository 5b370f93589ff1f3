package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/pkg/apperror"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	ID   uuid.UUID
	Name string
	Role enum.Role
}

// ActorFromUser builds an Actor from a loaded user
func ActorFromUser(user *entity.User) *Actor {
	return &Actor{ID: user.ID, Name: user.Name, Role: user.Role}
}

// IsAdmin reports whether the actor holds the Admin role
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == enum.RoleAdmin
}

// RequireRole fails with a ForbiddenError unless actor holds role. It runs
// before any read or write of the operation it guards.
func RequireRole(actor *Actor, role enum.Role) error {
	if actor == nil {
		return apperror.ErrUnauthorized
	}
	if actor.Role != role {
		return roleForbidden(role.String())
	}
	return nil
}

func roleForbidden(role string) error {
	return apperror.NewForbiddenError(fmt.Sprintf("Not authorized. User must have the role '%s'.", role))
}

// requireOwner fails with a ForbiddenError when actor does not own the document
func requireOwner(actor *Actor, owner *uuid.UUID, action, document string) error {
	if owner != nil && *owner == actor.ID {
		return nil
	}
	return apperror.NewForbiddenError(fmt.Sprintf("You do not have permission to %s this %s.", action, document))
}

// requireOwnerOrAdmin guards reads: Admins see everything, Users only their own documents
func requireOwnerOrAdmin(actor *Actor, owner *uuid.UUID, document string) error {
	if actor == nil {
		return apperror.ErrUnauthorized
	}
	if actor.IsAdmin() {
		return nil
	}
	return requireOwner(actor, owner, "view", document)
}
