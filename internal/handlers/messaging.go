// internal/handlers/messaging.go
package handlers

import (
	"github.com/farmlink/market-backend/internal/i18n"
	"github.com/farmlink/market-backend/internal/models"
	"github.com/farmlink/market-backend/internal/services"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessagingHandler struct {
	messagingService *services.MessagingService
}

func NewMessagingHandler(messagingService *services.MessagingService) *MessagingHandler {
	return &MessagingHandler{messagingService: messagingService}
}

// StartConversation handles POST /v1/conversations
func (h *MessagingHandler) StartConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		FarmerID string `json:"farmer_id" binding:"required,uuid"`
	}
	if !bindJSON(c, &req) {
		return
	}

	farmerID, err := uuid.Parse(req.FarmerID)
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "farmer_id"), nil)
		return
	}

	conversation, svcErr := h.messagingService.StartConversation(userID, farmerID)
	if svcErr != nil {
		handleServiceError(c, svcErr, i18n.KeyFarmerNotFound)
		return
	}
	utils.SuccessResponse(c, conversation)
}

// ListConversations handles GET /v1/conversations
func (h *MessagingHandler) ListConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	userType, _ := utils.GetUserTypeFromContext(c)
	summaries, err := h.messagingService.ListConversations(userID, models.UserType(userType))
	if err != nil {
		handleServiceError(c, err, i18n.KeyConversationNotFound)
		return
	}
	utils.SuccessResponse(c, summaries)
}

// GetConversation handles GET /v1/conversations/:id
func (h *MessagingHandler) GetConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	conversationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	conversation, err := h.messagingService.GetConversation(userID, conversationID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyConversationNotFound)
		return
	}
	utils.SuccessResponse(c, conversation)
}

// SendMessage handles POST /v1/conversations/:id/messages
func (h *MessagingHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	conversationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.messagingService.SendMessage(userID, conversationID, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyConversationNotFound)
		return
	}
	utils.CreatedResponse(c, message)
}
