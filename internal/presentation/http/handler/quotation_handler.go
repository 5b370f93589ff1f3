package handler

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/infrastructure/pdf"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/request"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/response"
)

// QuotationHandler handles quotation-related HTTP requests
type QuotationHandler struct {
	quotationService *service.QuotationService
	auditLogService  *service.AuditLogService
	renderer         *pdf.Renderer
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *service.QuotationService, auditLogService *service.AuditLogService, renderer *pdf.Renderer) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		auditLogService:  auditLogService,
		renderer:         renderer,
	}
}

// Create handles creating a quotation
// @Summary Create Quotation
// @Description Create a Draft quotation owned by the caller
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateQuotationRequest true "Quotation data"
// @Success 201 {object} response.APIResponse
// @Router /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req request.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), actor, &service.CreateQuotationInput{
		QuotationNumber: req.QuotationNumber,
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
		CustomerEmail:   req.CustomerEmail,
		Status:          req.Status,
		Items:           request.Items(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation created successfully", quotation)
}

// List handles listing every quotation (Admin)
// @Summary List Quotations
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param status query string false "Status filter"
// @Success 200 {object} response.APIResponse
// @Router /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.quotationService.ListAll(c.Request.Context(), actor, pageParams(c), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Quotations retrieved successfully", result)
}

// ListMine handles listing the caller's quotations
func (h *QuotationHandler) ListMine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.quotationService.ListMine(c.Request.Context(), actor, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Quotations retrieved successfully", result)
}

// Get handles getting a single quotation
// @Summary Get Quotation
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "quotation")
	if !ok {
		return
	}

	quotation, err := h.quotationService.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation retrieved successfully", quotation)
}

// GetByNumber handles looking a quotation up by its number
func (h *QuotationHandler) GetByNumber(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetByNumber(c.Request.Context(), actor, c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation retrieved successfully", quotation)
}

// Update handles editing a quotation
// @Summary Update Quotation
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body request.UpdateQuotationRequest true "Quotation data"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "quotation")
	if !ok {
		return
	}

	var req request.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	quotation, err := h.quotationService.Update(c.Request.Context(), actor, id, &service.UpdateQuotationInput{
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
		CustomerEmail:   req.CustomerEmail,
		Items:           request.Items(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation updated successfully", quotation)
}

// Delete handles deleting a quotation
// @Summary Delete Quotation
// @Tags quotations
// @Security BearerAuth
// @Param id path string true "Quotation ID"
// @Success 204
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "quotation")
	if !ok {
		return
	}

	if err := h.quotationService.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Submit handles sending a quotation for approval
func (h *QuotationHandler) Submit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "quotation")
	if !ok {
		return
	}

	quotation, err := h.quotationService.Submit(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation submitted successfully", quotation)
}

// Approve handles an Admin decision; ?status=Approved|Rejected
// @Summary Approve or reject Quotation
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quotation ID"
// @Param status query string true "Approved or Rejected"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id}/approve [put]
func (h *QuotationHandler) Approve(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "quotation")
	if !ok {
		return
	}

	quotation, err := h.quotationService.Approve(c.Request.Context(), actor, id, c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation "+quotation.Status.String()+" successfully", quotation)
}

// PDF renders a quotation
func (h *QuotationHandler) PDF(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "quotation")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	quotation, err := h.quotationService.Get(ctx, actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	approver, err := h.auditLogService.ApproverName(ctx, quotation.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	doc := pdf.FromQuotation(quotation, approver)
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, doc); err != nil {
		response.Error(c, err)
		return
	}
	response.PDF(c, doc.Filename(), buf.Bytes())
}
