package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/response"
)

// LogHandler serves the audit trail
type LogHandler struct {
	auditLogService *service.AuditLogService
}

// NewLogHandler creates a new log handler
func NewLogHandler(auditLogService *service.AuditLogService) *LogHandler {
	return &LogHandler{auditLogService: auditLogService}
}

// List returns audit entries newest first, optionally for one document
// @Summary List audit logs
// @Tags logs
// @Security BearerAuth
// @Produce json
// @Param document_id query string false "Document ID"
// @Success 200 {object} response.APIResponse
// @Router /logs [get]
func (h *LogHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var documentID *uuid.UUID
	if raw := c.Query("document_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid document ID")
			return
		}
		documentID = &id
	}

	result, err := h.auditLogService.List(c.Request.Context(), actor, documentID, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Logs retrieved successfully", result)
}

// Approver returns who approved a document
func (h *LogHandler) Approver(c *gin.Context) {
	id, ok := pathID(c, "document_id", "document")
	if !ok {
		return
	}

	name, err := h.auditLogService.Approver(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Approver retrieved successfully", gin.H{"approver_name": name})
}
