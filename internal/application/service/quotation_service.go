package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/internal/domain/event"
	"github.com/sangkips/fms-api/internal/domain/repository"
	"github.com/sangkips/fms-api/internal/domain/workflow"
	"github.com/sangkips/fms-api/pkg/apperror"
	"github.com/sangkips/fms-api/pkg/pagination"
	"github.com/sangkips/fms-api/pkg/utils"
	"go.uber.org/zap"
)

// QuotationService handles quotation-related operations
type QuotationService struct {
	repos         *repository.Repositories
	uow           repository.UnitOfWork
	chainer       *DocumentChainer
	notifications *NotificationService
	metrics       Metrics
	log           *zap.Logger
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	repos *repository.Repositories,
	uow repository.UnitOfWork,
	chainer *DocumentChainer,
	notifications *NotificationService,
	metrics Metrics,
	log *zap.Logger,
) *QuotationService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &QuotationService{
		repos:         repos,
		uow:           uow,
		chainer:       chainer,
		notifications: notifications,
		metrics:       metrics,
		log:           log,
	}
}

// CreateQuotationInput represents the input for creating a quotation
type CreateQuotationInput struct {
	QuotationNumber string
	CustomerName    string
	CustomerAddress string
	CustomerEmail   string
	Status          string
	Items           []ItemInput
}

// UpdateQuotationInput represents the input for editing a quotation. Items
// replace the existing ones.
type UpdateQuotationInput struct {
	CustomerName    string
	CustomerAddress string
	CustomerEmail   string
	Items           []ItemInput
}

// Create creates a quotation owned by actor. It starts Draft, or Submitted
// when input.Status asks for immediate submission.
func (s *QuotationService) Create(ctx context.Context, actor *Actor, input *CreateQuotationInput) (*entity.Quotation, error) {
	if err := RequireRole(actor, enum.RoleUser); err != nil {
		return nil, err
	}
	submit, err := workflow.SubmitOnCreate(input.Status)
	if err != nil {
		return nil, workflowError(err)
	}
	if err := requireCustomer(input.CustomerName); err != nil {
		return nil, err
	}
	priced, totals, err := priceItems("Quotation", input.Items)
	if err != nil {
		return nil, err
	}

	number := strings.TrimSpace(input.QuotationNumber)
	if number == "" {
		number = utils.GenerateDocumentNumber("QT")
	}

	ownerID := actor.ID
	quotation := &entity.Quotation{
		QuotationNumber: number,
		CustomerName:    input.CustomerName,
		CustomerAddress: input.CustomerAddress,
		CustomerEmail:   input.CustomerEmail,
		UserID:          &ownerID,
		Status:          workflow.Quotations.Initial(),
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.GrandTotal,
		Items:           quotationItems(priced),
	}

	err = s.uow.WithTransaction(ctx, func(repos *repository.Repositories) error {
		existing, err := repos.Quotations.GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflictError(fmt.Sprintf("A quotation with number '%s' already exists.", number))
		}
		if submit {
			next, err := workflow.Quotations.Fire(quotation.Status, workflow.ActionSubmit, actor.Role)
			if err != nil {
				return workflowError(err)
			}
			quotation.Status = next
		}
		if err := repos.Quotations.Create(ctx, quotation); err != nil {
			return err
		}
		if err := recordAudit(ctx, repos, actor, enum.AuditActionCreated, enum.DocumentQuotation, quotation.ID, ""); err != nil {
			return err
		}
		if submit {
			return recordAudit(ctx, repos, actor, enum.AuditActionSubmitted, enum.DocumentQuotation, quotation.ID, "")
		}
		return nil
	})
	if submit {
		s.metrics.ObserveTransition(enum.DocumentQuotation.String(), string(workflow.ActionSubmit), transitionResult(err))
	}
	if err != nil {
		return nil, persistenceError(s.log, "create quotation", err)
	}

	if submit {
		s.announceSubmitted(ctx, actor, quotation)
	}
	return quotation, nil
}

// Get returns a quotation visible to actor
func (s *QuotationService) Get(ctx context.Context, actor *Actor, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := s.repos.Quotations.GetByID(ctx, id)
	return s.visible(actor, quotation, err)
}

// GetByNumber returns a quotation visible to actor by its number
func (s *QuotationService) GetByNumber(ctx context.Context, actor *Actor, number string) (*entity.Quotation, error) {
	quotation, err := s.repos.Quotations.GetByNumber(ctx, number)
	return s.visible(actor, quotation, err)
}

func (s *QuotationService) visible(actor *Actor, quotation *entity.Quotation, err error) (*entity.Quotation, error) {
	if err != nil {
		return nil, persistenceError(s.log, "load quotation", err)
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	if err := requireOwnerOrAdmin(actor, quotation.UserID, "quotation"); err != nil {
		return nil, err
	}
	return quotation, nil
}

// ListAll lists every quotation. Admin only.
func (s *QuotationService) ListAll(ctx context.Context, actor *Actor, params *pagination.PaginationParams, status string) (*pagination.PaginatedResult[entity.Quotation], error) {
	if err := RequireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}
	params = pagination.Ensure(params)
	if status != "" && !enum.QuotationStatus(status).IsValid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("Invalid quotation status '%s'.", status))
	}
	quotations, total, err := s.repos.Quotations.List(ctx, &repository.DocumentFilterParams{Pagination: params, Status: status})
	if err != nil {
		return nil, persistenceError(s.log, "list quotations", err)
	}
	return pagination.NewPaginatedResult(quotations, params, total), nil
}

// ListMine lists the quotations owned by actor
func (s *QuotationService) ListMine(ctx context.Context, actor *Actor, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Quotation], error) {
	if actor == nil {
		return nil, apperror.ErrUnauthorized
	}
	params = pagination.Ensure(params)
	quotations, total, err := s.repos.Quotations.ListByOwner(ctx, actor.ID, &repository.DocumentFilterParams{Pagination: params})
	if err != nil {
		return nil, persistenceError(s.log, "list quotations", err)
	}
	return pagination.NewPaginatedResult(quotations, params, total), nil
}

// Update edits customer fields and replaces the items of an owned quotation
func (s *QuotationService) Update(ctx context.Context, actor *Actor, id uuid.UUID, input *UpdateQuotationInput) (*entity.Quotation, error) {
	if err := RequireRole(actor, enum.RoleUser); err != nil {
		return nil, err
	}
	if err := requireCustomer(input.CustomerName); err != nil {
		return nil, err
	}
	priced, totals, err := priceItems("Quotation", input.Items)
	if err != nil {
		return nil, err
	}

	var quotation *entity.Quotation
	err = s.uow.WithTransaction(ctx, func(repos *repository.Repositories) error {
		q, err := repos.Quotations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return apperror.NewNotFoundError("Quotation")
		}
		if err := requireOwner(actor, q.UserID, "edit", "quotation"); err != nil {
			return err
		}
		if err := workflow.Quotations.CheckEdit(q.Status); err != nil {
			return workflowError(err)
		}

		q.CustomerName = input.CustomerName
		q.CustomerAddress = input.CustomerAddress
		q.CustomerEmail = input.CustomerEmail
		q.Subtotal = totals.Subtotal
		q.Tax = totals.Tax
		q.Total = totals.GrandTotal
		if err := repos.Quotations.Update(ctx, q); err != nil {
			return err
		}

		items := quotationItems(priced)
		if err := repos.Quotations.ReplaceItems(ctx, q.ID, items); err != nil {
			return err
		}
		q.Items = items

		quotation = q
		return recordAudit(ctx, repos, actor, enum.AuditActionUpdated, enum.DocumentQuotation, q.ID, "")
	})
	if err != nil {
		return nil, persistenceError(s.log, "update quotation", err)
	}
	return quotation, nil
}

// Delete removes an owned quotation in a deletable status
func (s *QuotationService) Delete(ctx context.Context, actor *Actor, id uuid.UUID) error {
	if err := RequireRole(actor, enum.RoleUser); err != nil {
		return err
	}

	err := s.uow.WithTransaction(ctx, func(repos *repository.Repositories) error {
		q, err := repos.Quotations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return apperror.NewNotFoundError("Quotation")
		}
		if err := requireOwner(actor, q.UserID, "delete", "quotation"); err != nil {
			return err
		}
		if err := workflow.Quotations.CheckDelete(q.Status); err != nil {
			return workflowError(err)
		}
		if err := repos.Quotations.Delete(ctx, q.ID); err != nil {
			return err
		}
		return recordAudit(ctx, repos, actor, enum.AuditActionDeleted, enum.DocumentQuotation, q.ID, q.QuotationNumber)
	})
	if err != nil {
		return persistenceError(s.log, "delete quotation", err)
	}
	return nil
}

// Submit moves an owned Draft quotation to Submitted and asks every Admin for approval
func (s *QuotationService) Submit(ctx context.Context, actor *Actor, id uuid.UUID) (*entity.Quotation, error) {
	if err := RequireRole(actor, enum.RoleUser); err != nil {
		return nil, err
	}

	var quotation *entity.Quotation
	err := s.uow.WithTransaction(ctx, func(repos *repository.Repositories) error {
		q, err := repos.Quotations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return apperror.NewNotFoundError("Quotation")
		}
		if err := requireOwner(actor, q.UserID, "submit", "quotation"); err != nil {
			return err
		}
		next, err := workflow.Quotations.Fire(q.Status, workflow.ActionSubmit, actor.Role)
		if err != nil {
			return workflowError(err)
		}
		if err := repos.Quotations.UpdateStatus(ctx, q, next); err != nil {
			return err
		}
		quotation = q
		return recordAudit(ctx, repos, actor, enum.AuditActionSubmitted, enum.DocumentQuotation, q.ID, "")
	})
	s.metrics.ObserveTransition(enum.DocumentQuotation.String(), string(workflow.ActionSubmit), transitionResult(err))
	if err != nil {
		return nil, persistenceError(s.log, "submit quotation", err)
	}

	s.announceSubmitted(ctx, actor, quotation)
	return quotation, nil
}

// announceSubmitted asks every Admin to review a committed submission
func (s *QuotationService) announceSubmitted(ctx context.Context, actor *Actor, quotation *entity.Quotation) {
	message, subject := submittedNotice("Quotation", quotation.QuotationNumber, quotation.Total, actor.Name)
	s.notifications.NotifyAdmins(ctx, message, subject)
	s.notifications.Publish(ctx, event.NewDocumentEvent(
		enum.DocumentQuotation.String(), string(workflow.ActionSubmit),
		quotation.ID, quotation.QuotationNumber, quotation.Status.String(), actor.ID,
	))
}

// Approve applies an Admin decision to a Submitted quotation. Approval derives
// the invoice in the same transaction as the status change.
func (s *QuotationService) Approve(ctx context.Context, actor *Actor, id uuid.UUID, target string) (*entity.Quotation, error) {
	if err := RequireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}
	action, err := workflow.DecisionAction(target)
	if err != nil {
		return nil, workflowError(err)
	}
	approved := action == workflow.ActionApprove

	var (
		quotation *entity.Quotation
		invoice   *entity.Invoice
	)
	err = s.uow.WithTransaction(ctx, func(repos *repository.Repositories) error {
		q, err := repos.Quotations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return apperror.NewNotFoundError("Quotation")
		}
		next, err := workflow.Quotations.Fire(q.Status, action, actor.Role)
		if err != nil {
			return workflowError(err)
		}

		if approved {
			inv, created, err := s.chainer.InvoiceFromQuotation(ctx, repos, q)
			if err != nil {
				return err
			}
			if created {
				detail := "from quotation " + q.QuotationNumber
				if err := recordAudit(ctx, repos, actor, enum.AuditActionChained, enum.DocumentInvoice, inv.ID, detail); err != nil {
					return err
				}
			}
			invoice = inv
		}

		if err := repos.Quotations.UpdateStatus(ctx, q, next); err != nil {
			return err
		}
		quotation = q
		return recordAudit(ctx, repos, actor, decisionAudit(approved), enum.DocumentQuotation, q.ID, "")
	})
	s.metrics.ObserveTransition(enum.DocumentQuotation.String(), string(action), transitionResult(err))
	if err != nil {
		return nil, persistenceError(s.log, "approve quotation", err)
	}

	message, subject := decisionNotice("Quotation", quotation.QuotationNumber, quotation.Total, approved)
	s.notifications.NotifyOwner(ctx, quotation.UserID, message, subject)

	evt := event.NewDocumentEvent(
		enum.DocumentQuotation.String(), string(action),
		quotation.ID, quotation.QuotationNumber, quotation.Status.String(), actor.ID,
	)
	if invoice != nil {
		evt.DerivedID = &invoice.ID
	}
	s.notifications.Publish(ctx, evt)
	return quotation, nil
}

func quotationItems(priced []pricedItem) []entity.QuotationItem {
	items := make([]entity.QuotationItem, len(priced))
	for i, p := range priced {
		items[i] = entity.QuotationItem{
			Description: p.Description,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			Total:       p.Total,
		}
	}
	return items
}
