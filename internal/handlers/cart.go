// internal/handlers/cart.go
package handlers

import (
	"github.com/farmlink/market-backend/internal/i18n"
	"github.com/farmlink/market-backend/internal/services"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart handles GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	view, err := h.cartService.GetCart(userID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyCartItemNotFound)
		return
	}
	utils.SuccessResponse(c, view)
}

// AddItem handles POST /v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.AddCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cartService.AddItem(userID, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.SuccessResponse(c, view)
}

// UpdateItem handles PUT /v1/cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cartService.UpdateItem(userID, itemID, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyCartItemNotFound)
		return
	}
	utils.SuccessResponse(c, view)
}

// RemoveItem handles DELETE /v1/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.cartService.RemoveItem(userID, itemID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyCartItemNotFound)
		return
	}
	utils.SuccessResponse(c, view)
}

// ClearCart handles DELETE /v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(userID); err != nil {
		handleServiceError(c, err, i18n.KeyCartItemNotFound)
		return
	}

	view, err := h.cartService.GetCart(userID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyCartItemNotFound)
		return
	}
	utils.SuccessResponse(c, view)
}
