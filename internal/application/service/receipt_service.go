package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/internal/domain/event"
	"github.com/sangkips/fms-api/internal/domain/repository"
	"github.com/sangkips/fms-api/internal/domain/workflow"
	"github.com/sangkips/fms-api/pkg/apperror"
	"github.com/sangkips/fms-api/pkg/money"
	"github.com/sangkips/fms-api/pkg/pagination"
	"github.com/sangkips/fms-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptService handles receipt-related operations
type ReceiptService struct {
	repos         *repository.Repositories
	uow           repository.UnitOfWork
	notifications *NotificationService
	metrics       Metrics
	log           *zap.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	repos *repository.Repositories,
	uow repository.UnitOfWork,
	notifications *NotificationService,
	metrics Metrics,
	log *zap.Logger,
) *ReceiptService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &ReceiptService{
		repos:         repos,
		uow:           uow,
		notifications: notifications,
		metrics:       metrics,
		log:           log,
	}
}

// CreateReceiptInput represents the input for recording a receipt by hand.
// InvoiceID is optional.
type CreateReceiptInput struct {
	InvoiceID     *uuid.UUID
	Amount        decimal.Decimal
	PaymentDate   time.Time
	PaymentMethod enum.PaymentMethod
}

// Create records a Pending receipt owned by actor. A receipt tied to an
// invoice needs that invoice Approved and without a receipt of its own; a
// standalone receipt gets a generated number.
func (s *ReceiptService) Create(ctx context.Context, actor *Actor, input *CreateReceiptInput) (*entity.Receipt, error) {
	if err := RequireRole(actor, enum.RoleUser); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidationError("Receipt amount must be greater than zero.",
			apperror.FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	method := input.PaymentMethod
	if method == "" {
		method = enum.PaymentMethodBankTransfer
	}
	if !method.IsValid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("Invalid payment method '%s'.", method))
	}
	paidAt := input.PaymentDate
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	var receipt *entity.Receipt
	err := s.uow.WithTransaction(ctx, func(repos *repository.Repositories) error {
		var (
			invoiceID *uuid.UUID
			number    = utils.GenerateDocumentNumber("RC")
		)
		if input.InvoiceID != nil {
			inv, err := repos.Invoices.GetByIDForUpdate(ctx, *input.InvoiceID)
			if err != nil {
				return err
			}
			if inv == nil {
				return apperror.NewNotFoundError("Invoice")
			}
			if inv.Status != enum.InvoiceStatusApproved {
				return apperror.NewBadRequestError(fmt.Sprintf("Invoice %s has not been Approved.", inv.InvoiceNumber))
			}
			existing, err := repos.Receipts.GetByInvoiceID(ctx, inv.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				return apperror.NewConflictError(fmt.Sprintf("Invoice %s already has receipt %s.", inv.InvoiceNumber, existing.ReceiptNumber))
			}
			id := inv.ID
			invoiceID = &id
			number = receiptPrefix + inv.InvoiceNumber
		}

		ownerID := actor.ID
		rc := &entity.Receipt{
			InvoiceID:     invoiceID,
			ReceiptNumber: number,
			PaymentDate:   paidAt,
			Amount:        money.Round(input.Amount),
			PaymentMethod: method,
			UserID:        &ownerID,
			Status:        workflow.Receipts.Initial(),
		}
		if err := repos.Receipts.Create(ctx, rc); err != nil {
			return err
		}
		receipt = rc
		return recordAudit(ctx, repos, actor, enum.AuditActionCreated, enum.DocumentReceipt, rc.ID, "")
	})
	if err != nil {
		return nil, persistenceError(s.log, "create receipt", err)
	}
	return receipt, nil
}

// Get returns a receipt visible to actor
func (s *ReceiptService) Get(ctx context.Context, actor *Actor, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.repos.Receipts.GetByID(ctx, id)
	return s.visible(actor, receipt, err)
}

// GetByNumber returns a receipt visible to actor by its number
func (s *ReceiptService) GetByNumber(ctx context.Context, actor *Actor, number string) (*entity.Receipt, error) {
	receipt, err := s.repos.Receipts.GetByNumber(ctx, number)
	return s.visible(actor, receipt, err)
}

func (s *ReceiptService) visible(actor *Actor, receipt *entity.Receipt, err error) (*entity.Receipt, error) {
	if err != nil {
		return nil, persistenceError(s.log, "load receipt", err)
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	if err := requireOwnerOrAdmin(actor, receipt.UserID, "receipt"); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListAll lists every receipt. Admin only.
func (s *ReceiptService) ListAll(ctx context.Context, actor *Actor, params *pagination.PaginationParams, status string) (*pagination.PaginatedResult[entity.Receipt], error) {
	if err := RequireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}
	params = pagination.Ensure(params)
	if status != "" && !enum.ReceiptStatus(status).IsValid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("Invalid receipt status '%s'.", status))
	}
	receipts, total, err := s.repos.Receipts.List(ctx, &repository.DocumentFilterParams{Pagination: params, Status: status})
	if err != nil {
		return nil, persistenceError(s.log, "list receipts", err)
	}
	return pagination.NewPaginatedResult(receipts, params, total), nil
}

// ListMine lists the receipts owned by actor
func (s *ReceiptService) ListMine(ctx context.Context, actor *Actor, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Receipt], error) {
	if actor == nil {
		return nil, apperror.ErrUnauthorized
	}
	params = pagination.Ensure(params)
	receipts, total, err := s.repos.Receipts.ListByOwner(ctx, actor.ID, &repository.DocumentFilterParams{Pagination: params})
	if err != nil {
		return nil, persistenceError(s.log, "list receipts", err)
	}
	return pagination.NewPaginatedResult(receipts, params, total), nil
}

// Submit moves an owned Pending receipt to Submitted and asks every Admin for approval
func (s *ReceiptService) Submit(ctx context.Context, actor *Actor, id uuid.UUID) (*entity.Receipt, error) {
	if err := RequireRole(actor, enum.RoleUser); err != nil {
		return nil, err
	}

	var receipt *entity.Receipt
	err := s.uow.WithTransaction(ctx, func(repos *repository.Repositories) error {
		rc, err := repos.Receipts.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rc == nil {
			return apperror.NewNotFoundError("Receipt")
		}
		if err := requireOwner(actor, rc.UserID, "submit", "receipt"); err != nil {
			return err
		}
		next, err := workflow.Receipts.Fire(rc.Status, workflow.ActionSubmit, actor.Role)
		if err != nil {
			return workflowError(err)
		}
		if err := repos.Receipts.UpdateStatus(ctx, rc, next); err != nil {
			return err
		}
		receipt = rc
		return recordAudit(ctx, repos, actor, enum.AuditActionSubmitted, enum.DocumentReceipt, rc.ID, "")
	})
	s.metrics.ObserveTransition(enum.DocumentReceipt.String(), string(workflow.ActionSubmit), transitionResult(err))
	if err != nil {
		return nil, persistenceError(s.log, "submit receipt", err)
	}

	message, subject := submittedNotice("Receipt", receipt.ReceiptNumber, receipt.Amount, actor.Name)
	s.notifications.NotifyAdmins(ctx, message, subject)
	s.notifications.Publish(ctx, event.NewDocumentEvent(
		enum.DocumentReceipt.String(), string(workflow.ActionSubmit),
		receipt.ID, receipt.ReceiptNumber, receipt.Status.String(), actor.ID,
	))
	return receipt, nil
}

// Approve applies an Admin decision to a Submitted receipt
func (s *ReceiptService) Approve(ctx context.Context, actor *Actor, id uuid.UUID, target string) (*entity.Receipt, error) {
	if err := RequireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}
	action, err := workflow.DecisionAction(target)
	if err != nil {
		return nil, workflowError(err)
	}
	approved := action == workflow.ActionApprove

	var receipt *entity.Receipt
	err = s.uow.WithTransaction(ctx, func(repos *repository.Repositories) error {
		rc, err := repos.Receipts.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rc == nil {
			return apperror.NewNotFoundError("Receipt")
		}
		next, err := workflow.Receipts.Fire(rc.Status, action, actor.Role)
		if err != nil {
			return workflowError(err)
		}
		if err := repos.Receipts.UpdateStatus(ctx, rc, next); err != nil {
			return err
		}
		receipt = rc
		return recordAudit(ctx, repos, actor, decisionAudit(approved), enum.DocumentReceipt, rc.ID, "")
	})
	s.metrics.ObserveTransition(enum.DocumentReceipt.String(), string(action), transitionResult(err))
	if err != nil {
		return nil, persistenceError(s.log, "approve receipt", err)
	}

	message, subject := decisionNotice("Receipt", receipt.ReceiptNumber, receipt.Amount, approved)
	s.notifications.NotifyOwner(ctx, receipt.UserID, message, subject)
	s.notifications.Publish(ctx, event.NewDocumentEvent(
		enum.DocumentReceipt.String(), string(action),
		receipt.ID, receipt.ReceiptNumber, receipt.Status.String(), actor.ID,
	))
	return receipt, nil
}
