package service

import (
	"context"
	"fmt"
	"strings"
	"time"

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

// InvoiceService handles invoice-related operations
type InvoiceService struct {
	repos         *repository.Repositories
	uow           repository.UnitOfWork
	chainer       *DocumentChainer
	notifications *NotificationService
	metrics       Metrics
	log           *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	repos *repository.Repositories,
	uow repository.UnitOfWork,
	chainer *DocumentChainer,
	notifications *NotificationService,
	metrics Metrics,
	log *zap.Logger,
) *InvoiceService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &InvoiceService{
		repos:         repos,
		uow:           uow,
		chainer:       chainer,
		notifications: notifications,
		metrics:       metrics,
		log:           log,
	}
}

// CreateInvoiceInput represents the input for creating a manual invoice
type CreateInvoiceInput struct {
	InvoiceNumber   string
	CustomerName    string
	CustomerAddress string
	PaymentTerm     string
	DueDate         *time.Time
	Status          string
	Items           []ItemInput
}

// UpdateInvoiceInput represents the input for editing a Draft invoice
type UpdateInvoiceInput struct {
	CustomerName    string
	CustomerAddress string
	PaymentTerm     string
	DueDate         *time.Time
	Items           []ItemInput
}

// Create creates an invoice that is not derived from a quotation. It starts
// Draft, or Submitted when input.Status asks for immediate submission.
func (s *InvoiceService) Create(ctx context.Context, actor *Actor, input *CreateInvoiceInput) (*entity.Invoice, error) {
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
	priced, totals, err := priceItems("Invoice", input.Items)
	if err != nil {
		return nil, err
	}

	number := strings.TrimSpace(input.InvoiceNumber)
	if strings.HasPrefix(number, invoicePrefix) {
		return nil, apperror.NewValidationError(
			fmt.Sprintf("Invoice numbers starting with '%s' are reserved for invoices derived from quotations.", invoicePrefix),
			apperror.FieldError{Field: "invoice_number", Message: "uses a reserved prefix"})
	}
	if number == "" {
		number = utils.GenerateDocumentNumber("INV")
	}
	term := input.PaymentTerm
	if term == "" {
		term = entity.DefaultPaymentTerm
	}

	ownerID := actor.ID
	invoice := &entity.Invoice{
		InvoiceNumber:   number,
		CustomerName:    input.CustomerName,
		CustomerAddress: input.CustomerAddress,
		PaymentTerm:     term,
		UserID:          &ownerID,
		Status:          workflow.Invoices.Initial(),
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.GrandTotal,
		DueDate:         input.DueDate,
		Items:           invoiceItems(priced),
	}

	err = s.uow.WithTransaction(ctx, func(repos *repository.Repositories) error {
		existing, err := repos.Invoices.GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflictError(fmt.Sprintf("An invoice with number '%s' already exists.", number))
		}
		if submit {
			next, err := workflow.Invoices.Fire(invoice.Status, workflow.ActionSubmit, actor.Role)
			if err != nil {
				return workflowError(err)
			}
			invoice.Status = next
		}
		if err := repos.Invoices.Create(ctx, invoice); err != nil {
			return err
		}
		if err := recordAudit(ctx, repos, actor, enum.AuditActionCreated, enum.DocumentInvoice, invoice.ID, ""); err != nil {
			return err
		}
		if submit {
			return recordAudit(ctx, repos, actor, enum.AuditActionSubmitted, enum.DocumentInvoice, invoice.ID, "")
		}
		return nil
	})
	if submit {
		s.metrics.ObserveTransition(enum.DocumentInvoice.String(), string(workflow.ActionSubmit), transitionResult(err))
	}
	if err != nil {
		return nil, persistenceError(s.log, "create invoice", err)
	}

	if submit {
		s.announceSubmitted(ctx, actor, invoice)
	}
	return invoice, nil
}

// Get returns an invoice visible to actor
func (s *InvoiceService) Get(ctx context.Context, actor *Actor, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.repos.Invoices.GetByID(ctx, id)
	return s.visible(actor, invoice, err)
}

// GetByNumber returns an invoice visible to actor by its number
func (s *InvoiceService) GetByNumber(ctx context.Context, actor *Actor, number string) (*entity.Invoice, error) {
	invoice, err := s.repos.Invoices.GetByNumber(ctx, number)
	return s.visible(actor, invoice, err)
}

func (s *InvoiceService) visible(actor *Actor, invoice *entity.Invoice, err error) (*entity.Invoice, error) {
	if err != nil {
		return nil, persistenceError(s.log, "load invoice", err)
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if err := requireOwnerOrAdmin(actor, invoice.UserID, "invoice"); err != nil {
		return nil, err
	}
	return invoice, nil
}

// ListAll lists every invoice. Admin only.
func (s *InvoiceService) ListAll(ctx context.Context, actor *Actor, params *pagination.PaginationParams, status string) (*pagination.PaginatedResult[entity.Invoice], error) {
	if err := RequireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}
	params = pagination.Ensure(params)
	if status != "" && !enum.InvoiceStatus(status).IsValid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("Invalid invoice status '%s'.", status))
	}
	invoices, total, err := s.repos.Invoices.List(ctx, &repository.DocumentFilterParams{Pagination: params, Status: status})
	if err != nil {
		return nil, persistenceError(s.log, "list invoices", err)
	}
	return pagination.NewPaginatedResult(invoices, params, total), nil
}

// ListMine lists the invoices owned by actor
func (s *InvoiceService) ListMine(ctx context.Context, actor *Actor, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if actor == nil {
		return nil, apperror.ErrUnauthorized
	}
	params = pagination.Ensure(params)
	invoices, total, err := s.repos.Invoices.ListByOwner(ctx, actor.ID, &repository.DocumentFilterParams{Pagination: params})
	if err != nil {
		return nil, persistenceError(s.log, "list invoices", err)
	}
	return pagination.NewPaginatedResult(invoices, params, total), nil
}

// Update edits an owned Draft invoice
func (s *InvoiceService) Update(ctx context.Context, actor *Actor, id uuid.UUID, input *UpdateInvoiceInput) (*entity.Invoice, error) {
	return s.update(ctx, actor, input, func(repos *repository.Repositories) (*entity.Invoice, error) {
		return repos.Invoices.GetByIDForUpdate(ctx, id)
	})
}

// UpdateByNumber edits an owned Draft invoice addressed by its number
func (s *InvoiceService) UpdateByNumber(ctx context.Context, actor *Actor, number string, input *UpdateInvoiceInput) (*entity.Invoice, error) {
	return s.update(ctx, actor, input, func(repos *repository.Repositories) (*entity.Invoice, error) {
		inv, err := repos.Invoices.GetByNumber(ctx, number)
		if err != nil || inv == nil {
			return inv, err
		}
		return repos.Invoices.GetByIDForUpdate(ctx, inv.ID)
	})
}

func (s *InvoiceService) update(ctx context.Context, actor *Actor, input *UpdateInvoiceInput, load func(*repository.Repositories) (*entity.Invoice, error)) (*entity.Invoice, error) {
	if err := RequireRole(actor, enum.RoleUser); err != nil {
		return nil, err
	}
	if err := requireCustomer(input.CustomerName); err != nil {
		return nil, err
	}
	priced, totals, err := priceItems("Invoice", input.Items)
	if err != nil {
		return nil, err
	}

	var invoice *entity.Invoice
	err = s.uow.WithTransaction(ctx, func(repos *repository.Repositories) error {
		inv, err := load(repos)
		if err != nil {
			return err
		}
		if inv == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if err := requireOwner(actor, inv.UserID, "edit", "invoice"); err != nil {
			return err
		}
		if err := workflow.Invoices.CheckEdit(inv.Status); err != nil {
			return workflowError(err)
		}

		inv.CustomerName = input.CustomerName
		inv.CustomerAddress = input.CustomerAddress
		if input.PaymentTerm != "" {
			inv.PaymentTerm = input.PaymentTerm
		}
		if input.DueDate != nil {
			inv.DueDate = input.DueDate
		}
		inv.Subtotal = totals.Subtotal
		inv.Tax = totals.Tax
		inv.Total = totals.GrandTotal
		if err := repos.Invoices.Update(ctx, inv); err != nil {
			return err
		}

		items := invoiceItems(priced)
		if err := repos.Invoices.ReplaceItems(ctx, inv.ID, items); err != nil {
			return err
		}
		inv.Items = items

		invoice = inv
		return recordAudit(ctx, repos, actor, enum.AuditActionUpdated, enum.DocumentInvoice, inv.ID, "")
	})
	if err != nil {
		return nil, persistenceError(s.log, "update invoice", err)
	}
	return invoice, nil
}

// Delete removes an owned invoice in a deletable status
func (s *InvoiceService) Delete(ctx context.Context, actor *Actor, id uuid.UUID) error {
	if err := RequireRole(actor, enum.RoleUser); err != nil {
		return err
	}

	err := s.uow.WithTransaction(ctx, func(repos *repository.Repositories) error {
		inv, err := repos.Invoices.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if err := requireOwner(actor, inv.UserID, "delete", "invoice"); err != nil {
			return err
		}
		if err := workflow.Invoices.CheckDelete(inv.Status); err != nil {
			return workflowError(err)
		}
		if err := repos.Invoices.Delete(ctx, inv.ID); err != nil {
			return err
		}
		return recordAudit(ctx, repos, actor, enum.AuditActionDeleted, enum.DocumentInvoice, inv.ID, inv.InvoiceNumber)
	})
	if err != nil {
		return persistenceError(s.log, "delete invoice", err)
	}
	return nil
}

// Submit moves an owned Draft invoice to Submitted and asks every Admin for approval
func (s *InvoiceService) Submit(ctx context.Context, actor *Actor, id uuid.UUID) (*entity.Invoice, error) {
	if err := RequireRole(actor, enum.RoleUser); err != nil {
		return nil, err
	}

	var invoice *entity.Invoice
	err := s.uow.WithTransaction(ctx, func(repos *repository.Repositories) error {
		inv, err := repos.Invoices.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if err := requireOwner(actor, inv.UserID, "submit", "invoice"); err != nil {
			return err
		}
		next, err := workflow.Invoices.Fire(inv.Status, workflow.ActionSubmit, actor.Role)
		if err != nil {
			return workflowError(err)
		}
		if err := repos.Invoices.UpdateStatus(ctx, inv, next); err != nil {
			return err
		}
		invoice = inv
		return recordAudit(ctx, repos, actor, enum.AuditActionSubmitted, enum.DocumentInvoice, inv.ID, "")
	})
	s.metrics.ObserveTransition(enum.DocumentInvoice.String(), string(workflow.ActionSubmit), transitionResult(err))
	if err != nil {
		return nil, persistenceError(s.log, "submit invoice", err)
	}

	s.announceSubmitted(ctx, actor, invoice)
	return invoice, nil
}

// announceSubmitted asks every Admin to review a committed submission
func (s *InvoiceService) announceSubmitted(ctx context.Context, actor *Actor, invoice *entity.Invoice) {
	message, subject := submittedNotice("Invoice", invoice.InvoiceNumber, invoice.Total, actor.Name)
	s.notifications.NotifyAdmins(ctx, message, subject)
	s.notifications.Publish(ctx, event.NewDocumentEvent(
		enum.DocumentInvoice.String(), string(workflow.ActionSubmit),
		invoice.ID, invoice.InvoiceNumber, invoice.Status.String(), actor.ID,
	))
}

// Approve applies an Admin decision to a Submitted invoice. Approval derives
// the receipt in the same transaction as the status change.
func (s *InvoiceService) Approve(ctx context.Context, actor *Actor, id uuid.UUID, target string) (*entity.Invoice, error) {
	if err := RequireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}
	action, err := workflow.DecisionAction(target)
	if err != nil {
		return nil, workflowError(err)
	}
	approved := action == workflow.ActionApprove

	var (
		invoice *entity.Invoice
		receipt *entity.Receipt
	)
	err = s.uow.WithTransaction(ctx, func(repos *repository.Repositories) error {
		inv, err := repos.Invoices.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		next, err := workflow.Invoices.Fire(inv.Status, action, actor.Role)
		if err != nil {
			return workflowError(err)
		}

		if approved {
			rc, created, err := s.chainer.ReceiptFromInvoice(ctx, repos, inv)
			if err != nil {
				return err
			}
			if created {
				detail := "from invoice " + inv.InvoiceNumber
				if err := recordAudit(ctx, repos, actor, enum.AuditActionChained, enum.DocumentReceipt, rc.ID, detail); err != nil {
					return err
				}
			}
			receipt = rc
		}

		if err := repos.Invoices.UpdateStatus(ctx, inv, next); err != nil {
			return err
		}
		invoice = inv
		return recordAudit(ctx, repos, actor, decisionAudit(approved), enum.DocumentInvoice, inv.ID, "")
	})
	s.metrics.ObserveTransition(enum.DocumentInvoice.String(), string(action), transitionResult(err))
	if err != nil {
		return nil, persistenceError(s.log, "approve invoice", err)
	}

	message, subject := decisionNotice("Invoice", invoice.InvoiceNumber, invoice.Total, approved)
	s.notifications.NotifyOwner(ctx, invoice.UserID, message, subject)

	evt := event.NewDocumentEvent(
		enum.DocumentInvoice.String(), string(action),
		invoice.ID, invoice.InvoiceNumber, invoice.Status.String(), actor.ID,
	)
	if receipt != nil {
		evt.DerivedID = &receipt.ID
	}
	s.notifications.Publish(ctx, evt)
	return invoice, nil
}

func invoiceItems(priced []pricedItem) []entity.InvoiceItem {
	items := make([]entity.InvoiceItem, len(priced))
	for i, p := range priced {
		items[i] = entity.InvoiceItem{
			Description: p.Description,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			Total:       p.Total,
		}
	}
	return items
}
