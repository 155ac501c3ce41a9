// internal/handlers/notification.go
package handlers

import (
	"github.com/farmlink/market-backend/internal/i18n"
	"github.com/farmlink/market-backend/internal/services"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles GET /v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.notificationService.List(userID, utils.GetPaginationParams(c))
	if err != nil {
		handleServiceError(c, err, i18n.KeyNotificationNotFound)
		return
	}
	utils.PaginatedResponse(c, result)
}

// UnreadCount handles GET /v1/notifications/unread
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyNotificationNotFound)
		return
	}
	utils.SuccessResponse(c, gin.H{"unread": count})
}

// MarkRead handles POST /v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	notificationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(userID, notificationID); err != nil {
		handleServiceError(c, err, i18n.KeyNotificationNotFound)
		return
	}
	utils.SuccessResponse(c, gin.H{"read": true})
}

// MarkAllRead handles POST /v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		handleServiceError(c, err, i18n.KeyNotificationNotFound)
		return
	}
	utils.SuccessResponse(c, gin.H{"read": true})
}
