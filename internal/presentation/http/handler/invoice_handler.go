package handler

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/infrastructure/pdf"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/request"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/response"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService  *service.InvoiceService
	auditLogService *service.AuditLogService
	renderer        *pdf.Renderer
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, auditLogService *service.AuditLogService, renderer *pdf.Renderer) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:  invoiceService,
		auditLogService: auditLogService,
		renderer:        renderer,
	}
}

// Create handles creating a manual invoice
// @Summary Create Invoice
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} response.APIResponse
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	dueDate, ok := optionalDate(c, req.DueDate, "due date")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), actor, &service.CreateInvoiceInput{
		InvoiceNumber:   req.InvoiceNumber,
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
		PaymentTerm:     req.PaymentTerm,
		DueDate:         dueDate,
		Status:          req.Status,
		Items:           request.Items(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// List handles listing every invoice (Admin)
func (h *InvoiceHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.ListAll(c.Request.Context(), actor, pageParams(c), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// ListMine handles listing the caller's invoices
func (h *InvoiceHandler) ListMine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.ListMine(c.Request.Context(), actor, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles getting a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// GetByNumber handles looking an invoice up by its number
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByNumber(c.Request.Context(), actor, c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

func (h *InvoiceHandler) bindUpdate(c *gin.Context) (*service.UpdateInvoiceInput, bool) {
	var req request.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return nil, false
	}
	dueDate, ok := optionalDate(c, req.DueDate, "due date")
	if !ok {
		return nil, false
	}
	return &service.UpdateInvoiceInput{
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
		PaymentTerm:     req.PaymentTerm,
		DueDate:         dueDate,
		Items:           request.Items(req.Items),
	}, true
}

// Update handles editing a Draft invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invoice")
	if !ok {
		return
	}
	input, ok := h.bindUpdate(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// UpdateByNumber handles editing a Draft invoice addressed by its number
func (h *InvoiceHandler) UpdateByNumber(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	input, ok := h.bindUpdate(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.UpdateByNumber(c.Request.Context(), actor, c.Param("number"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// Delete handles deleting an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Submit handles sending an invoice for approval
func (h *InvoiceHandler) Submit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Submit(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice submitted successfully", invoice)
}

// Approve handles an Admin decision; ?status=Approved|Rejected
func (h *InvoiceHandler) Approve(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Approve(c.Request.Context(), actor, id, c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice "+invoice.Status.String()+" successfully", invoice)
}

// PDF renders an invoice
func (h *InvoiceHandler) PDF(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "invoice")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	invoice, err := h.invoiceService.Get(ctx, actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	approver, err := h.auditLogService.ApproverName(ctx, invoice.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	doc := pdf.FromInvoice(invoice, approver)
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, doc); err != nil {
		response.Error(c, err)
		return
	}
	response.PDF(c, doc.Filename(), buf.Bytes())
}
