package service

import (
	"errors"

	"github.com/sangkips/fms-api/internal/domain/workflow"
	"github.com/sangkips/fms-api/pkg/apperror"
	"github.com/sangkips/fms-api/pkg/money"
	"go.uber.org/zap"
)

// workflowError translates machine errors into client-facing errors
func workflowError(err error) error {
	var te *workflow.TransitionError
	if errors.As(err, &te) {
		return apperror.NewInvalidTransitionError(te.Document, te.Action.Verb(), te.Current)
	}
	var re *workflow.RoleError
	if errors.As(err, &re) {
		return roleForbidden(re.Required)
	}
	if errors.Is(err, workflow.ErrInvalidDecision) {
		return apperror.ErrInvalidTarget
	}
	if errors.Is(err, workflow.ErrInvalidCreateStatus) {
		return apperror.ErrInvalidCreate
	}
	return err
}

// itemsError translates calculator validation failures
func itemsError(document string, err error) error {
	switch {
	case errors.Is(err, money.ErrEmptyItems):
		return apperror.NewValidationError(document + " must contain at least one item.")
	case errors.Is(err, money.ErrNonPositiveQuantity):
		return apperror.NewValidationError("Item quantity must be greater than zero.")
	case errors.Is(err, money.ErrNegativeUnitPrice):
		return apperror.NewValidationError("Item unit price must not be negative.")
	}
	return err
}

// persistenceError logs a store failure and hides it behind a generic message
func persistenceError(log *zap.Logger, operation string, err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	log.Error("database operation failed", zap.String("operation", operation), zap.Error(err))
	return apperror.NewPersistenceError(operation, err)
}
