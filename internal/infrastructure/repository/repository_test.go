package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	domainRepo "github.com/sangkips/fms-api/internal/domain/repository"
	"github.com/sangkips/fms-api/internal/infrastructure/repository"
	"github.com/sangkips/fms-api/internal/testutil"
	"github.com/sangkips/fms-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuotation(owner *entity.User, number string) *entity.Quotation {
	return &entity.Quotation{
		QuotationNumber: number,
		CustomerName:    "ACME",
		UserID:          &owner.ID,
		Status:          enum.QuotationStatusDraft,
		Subtotal:        decimal.RequireFromString("250.00"),
		Tax:             decimal.RequireFromString("17.50"),
		Total:           decimal.RequireFromString("267.50"),
		Items: []entity.QuotationItem{
			{Description: "Widget", Quantity: 2, UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(200)},
			{Description: "Gadget", Quantity: 1, UnitPrice: decimal.NewFromInt(50), Total: decimal.NewFromInt(50)},
		},
	}
}

func TestQuotationRepository_CRUD(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "alice", enum.RoleUser)

	q := newQuotation(owner, "QT-001")
	require.NoError(t, repos.Quotations.Create(ctx, q))
	assert.NotEqual(t, uuid.Nil, q.ID)

	got, err := repos.Quotations.GetByNumber(ctx, "QT-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Items, 2)
	require.NotNil(t, got.Owner)
	assert.Equal(t, owner.ID, got.Owner.ID)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("267.50")))

	err = repos.Quotations.ReplaceItems(ctx, q.ID, []entity.QuotationItem{
		{Description: "Only", Quantity: 3, UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(30)},
	})
	require.NoError(t, err)

	got, err = repos.Quotations.GetByID(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Only", got.Items[0].Description)

	require.NoError(t, repos.Quotations.UpdateStatus(ctx, got, enum.QuotationStatusSubmitted))
	assert.Equal(t, enum.QuotationStatusSubmitted, got.Status)

	reloaded, err := repos.Quotations.GetByIDForUpdate(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.QuotationStatusSubmitted, reloaded.Status)

	require.NoError(t, repos.Quotations.Delete(ctx, q.ID))
	missing, err := repos.Quotations.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	var orphanItems int64
	require.NoError(t, db.Model(&entity.QuotationItem{}).Where("quotation_id = ?", q.ID).Count(&orphanItems).Error)
	assert.Zero(t, orphanItems)
}

func TestQuotationRepository_ListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice", enum.RoleUser)
	bob := testutil.CreateUser(t, db, "bob", enum.RoleUser)

	require.NoError(t, repos.Quotations.Create(ctx, newQuotation(alice, "QT-A1")))
	require.NoError(t, repos.Quotations.Create(ctx, newQuotation(alice, "QT-A2")))
	submitted := newQuotation(bob, "QT-B1")
	submitted.Status = enum.QuotationStatusSubmitted
	require.NoError(t, repos.Quotations.Create(ctx, submitted))

	all, total, err := repos.Quotations.List(ctx, &domainRepo.DocumentFilterParams{Pagination: pagination.DefaultPagination()})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	mine, total, err := repos.Quotations.ListByOwner(ctx, alice.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, mine, 2)

	_, total, err = repos.Quotations.List(ctx, &domainRepo.DocumentFilterParams{Status: "Submitted"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	page, total, err := repos.Quotations.List(ctx, &domainRepo.DocumentFilterParams{
		Pagination: &pagination.PaginationParams{Page: 2, PerPage: 2},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 1)
}

func TestInvoiceRepository_UniqueQuotation(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "alice", enum.RoleUser)
	q := newQuotation(owner, "QT-100")
	require.NoError(t, repos.Quotations.Create(ctx, q))

	inv := &entity.Invoice{
		QuotationID:   &q.ID,
		InvoiceNumber: "INV-QT-100",
		CustomerName:  "ACME",
		Status:        enum.InvoiceStatusDraft,
		Subtotal:      q.Subtotal,
		Tax:           q.Tax,
		Total:         q.Total,
		UserID:        &owner.ID,
	}
	require.NoError(t, repos.Invoices.Create(ctx, inv))

	found, err := repos.Invoices.GetByQuotationID(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, inv.ID, found.ID)

	dup := &entity.Invoice{
		QuotationID:   &q.ID,
		InvoiceNumber: "INV-QT-100-B",
		CustomerName:  "ACME",
		Status:        enum.InvoiceStatusDraft,
	}
	assert.Error(t, repos.Invoices.Create(ctx, dup))
}

func TestReceiptRepository_GetByInvoiceID(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db)
	ctx := context.Background()

	invoiceID := uuid.New()
	missing, err := repos.Receipts.GetByInvoiceID(ctx, invoiceID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAuditLogRepository_LatestByAction(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "root", enum.RoleAdmin)
	docID := uuid.New()

	require.NoError(t, repos.AuditLogs.Create(ctx, &entity.AuditLog{
		Action: enum.AuditActionSubmitted, DocumentType: enum.DocumentQuotation, DocumentID: docID,
	}))
	require.NoError(t, repos.AuditLogs.Create(ctx, &entity.AuditLog{
		Action: enum.AuditActionApproved, ActorID: &admin.ID, DocumentType: enum.DocumentQuotation, DocumentID: docID,
	}))

	latest, err := repos.AuditLogs.LatestByAction(ctx, docID, enum.AuditActionApproved)
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.NotNil(t, latest.Actor)
	assert.Equal(t, "root", latest.Actor.Name)

	none, err := repos.AuditLogs.LatestByAction(ctx, uuid.New(), enum.AuditActionApproved)
	require.NoError(t, err)
	assert.Nil(t, none)

	logs, total, err := repos.AuditLogs.List(ctx, &docID, pagination.DefaultPagination())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, logs, 2)
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db := testutil.NewDB(t)
	uow := repository.NewUnitOfWork(db)
	repos := repository.NewRepositories(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "alice", enum.RoleUser)
	boom := errors.New("boom")

	err := uow.WithTransaction(ctx, func(tx *domainRepo.Repositories) error {
		if err := tx.Quotations.Create(ctx, newQuotation(owner, "QT-RB")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repos.Quotations.GetByNumber(ctx, "QT-RB")
	require.NoError(t, err)
	assert.Nil(t, got)

	err = uow.WithTransaction(ctx, func(tx *domainRepo.Repositories) error {
		return tx.Quotations.Create(ctx, newQuotation(owner, "QT-OK"))
	})
	require.NoError(t, err)

	got, err = repos.Quotations.GetByNumber(ctx, "QT-OK")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestUserRepository_ListByRoleAndLine(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db)
	ctx := context.Background()
	testutil.CreateUser(t, db, "root", enum.RoleAdmin)
	alice := testutil.CreateUser(t, db, "alice", enum.RoleUser)

	admins, err := repos.Users.ListByRole(ctx, enum.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "root", admins[0].Name)

	lineID := "U1234"
	alice.LineUserID = &lineID
	require.NoError(t, repos.Users.Update(ctx, alice))

	linked, err := repos.Users.GetByLineUserID(ctx, lineID)
	require.NoError(t, err)
	require.NotNil(t, linked)
	assert.Equal(t, alice.ID, linked.ID)
}

func TestIdempotencyRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewIdempotencyRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	expired := &entity.IdempotencyKey{
		Key:          "k1",
		UserID:       userID,
		Endpoint:     "POST /api/v1/quotations",
		ResponseCode: 201,
		ResponseBody: `{"old":true}`,
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.Create(ctx, expired))

	got, err := repo.GetByKey(ctx, "k1", userID)
	require.NoError(t, err)
	assert.Nil(t, got, "expired entries are hidden")

	// the same key is reusable once expired
	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key:          "k1",
		UserID:       userID,
		Endpoint:     "POST /api/v1/quotations",
		ResponseCode: 201,
		ResponseBody: `{"new":true}`,
		ExpiresAt:    time.Now().Add(time.Hour),
	}))
	got, err = repo.GetByKey(ctx, "k1", userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `{"new":true}`, got.ResponseBody)

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key:          "k2",
		UserID:       userID,
		Endpoint:     "POST /api/v1/invoices",
		ResponseCode: 201,
		ExpiresAt:    time.Now().Add(-time.Second),
	}))
	n, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
