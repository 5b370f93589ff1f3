package handler

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/internal/infrastructure/pdf"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/request"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/response"
)

// ReceiptHandler handles receipt-related HTTP requests
type ReceiptHandler struct {
	receiptService  *service.ReceiptService
	auditLogService *service.AuditLogService
	renderer        *pdf.Renderer
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, auditLogService *service.AuditLogService, renderer *pdf.Renderer) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService:  receiptService,
		auditLogService: auditLogService,
		renderer:        renderer,
	}
}

// Create handles recording a receipt against an Approved invoice
// @Summary Create Receipt
// @Tags receipts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateReceiptRequest true "Receipt data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /receipts [post]
func (h *ReceiptHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req request.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	var invoiceID *uuid.UUID
	if req.InvoiceID != "" {
		id, err := uuid.Parse(req.InvoiceID)
		if err != nil {
			response.BadRequest(c, "Invalid invoice ID")
			return
		}
		invoiceID = &id
	}
	paidAt, ok := optionalDate(c, req.PaymentDate, "payment date")
	if !ok {
		return
	}

	input := &service.CreateReceiptInput{
		InvoiceID:     invoiceID,
		Amount:        req.Amount,
		PaymentMethod: enum.PaymentMethod(req.PaymentMethod),
	}
	if paidAt != nil {
		input.PaymentDate = *paidAt
	}

	receipt, err := h.receiptService.Create(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt created successfully", receipt)
}

// List handles listing every receipt (Admin)
func (h *ReceiptHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.receiptService.ListAll(c.Request.Context(), actor, pageParams(c), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receipts retrieved successfully", result)
}

// ListMine handles listing the caller's receipts
func (h *ReceiptHandler) ListMine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.receiptService.ListMine(c.Request.Context(), actor, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receipts retrieved successfully", result)
}

// Get handles getting a single receipt
func (h *ReceiptHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "receipt")
	if !ok {
		return
	}

	receipt, err := h.receiptService.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// GetByNumber handles looking a receipt up by its number
func (h *ReceiptHandler) GetByNumber(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	receipt, err := h.receiptService.GetByNumber(c.Request.Context(), actor, c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Submit handles sending a receipt for approval
func (h *ReceiptHandler) Submit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "receipt")
	if !ok {
		return
	}

	receipt, err := h.receiptService.Submit(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt submitted successfully", receipt)
}

// Approve handles an Admin decision; ?status=Approved|Rejected
func (h *ReceiptHandler) Approve(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "receipt")
	if !ok {
		return
	}

	receipt, err := h.receiptService.Approve(c.Request.Context(), actor, id, c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt "+receipt.Status.String()+" successfully", receipt)
}

// PDF renders a receipt
func (h *ReceiptHandler) PDF(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "receipt")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	receipt, err := h.receiptService.Get(ctx, actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	approver, err := h.auditLogService.ApproverName(ctx, receipt.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	doc := pdf.FromReceipt(receipt, receipt.Invoice, approver)
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, doc); err != nil {
		response.Error(c, err)
		return
	}
	response.PDF(c, doc.Filename(), buf.Bytes())
}
