// internal/handlers/order.go
package handlers

import (
	"github.com/farmlink/market-backend/internal/i18n"
	"github.com/farmlink/market-backend/internal/services"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Checkout handles POST /v1/orders/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Checkout(userID, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyOrderNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	c.Header("Location", "/v1/orders/"+order.OrderNumber)
	utils.CreatedResponse(c, gin.H{
		"order":   order,
		"message": i18n.T(lang, i18n.KeyOrderCreated),
	})
}

// ListOrders handles GET /v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.orderService.ListOrders(userID, utils.GetPaginationParams(c))
	if err != nil {
		handleServiceError(c, err, i18n.KeyOrderNotFound)
		return
	}
	utils.PaginatedResponse(c, result)
}

// GetOrder handles GET /v1/orders/:number
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(userID, c.Param("number"))
	if err != nil {
		handleServiceError(c, err, i18n.KeyOrderNotFound)
		return
	}
	utils.SuccessResponse(c, order)
}
