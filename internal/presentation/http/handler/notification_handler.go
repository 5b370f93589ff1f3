package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/response"
)

// NotificationHandler serves the caller's delivered notifications
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListMine handles GET /notifications/me
func (h *NotificationHandler) ListMine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.notificationService.ListMine(c.Request.Context(), actor, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Notifications retrieved successfully", result)
}
