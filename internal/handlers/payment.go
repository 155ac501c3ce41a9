// internal/handlers/payment.go
package handlers

import (
	"github.com/farmlink/market-backend/internal/i18n"
	"github.com/farmlink/market-backend/internal/services"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateCardPayment handles POST /v1/orders/:number/payments/card
func (h *PaymentHandler) CreateCardPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	resp, err := h.paymentService.CreateCardPayment(userID, c.Param("number"))
	if err != nil {
		handleServiceError(c, err, i18n.KeyOrderNotFound)
		return
	}
	utils.SuccessResponse(c, resp)
}

// ConfirmCardPayment handles POST /v1/orders/:number/payments/card/confirm
func (h *PaymentHandler) ConfirmCardPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.paymentService.ConfirmCardPayment(userID, c.Param("number"))
	if err != nil {
		handleServiceError(c, err, i18n.KeyOrderNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"order":   order,
		"message": i18n.T(lang, i18n.KeyPaymentCompleted),
	})
}

// MobileMoneyPayment handles POST /v1/orders/:number/payments/mobile
func (h *PaymentHandler) MobileMoneyPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.MobileMoneyRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.paymentService.ProcessMobileMoney(userID, c.Param("number"), &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyOrderNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"order":   order,
		"message": i18n.T(lang, i18n.KeyPaymentCompleted),
	})
}

// CashOnDelivery handles POST /v1/orders/:number/payments/cod
func (h *PaymentHandler) CashOnDelivery(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.paymentService.ProcessCashOnDelivery(userID, c.Param("number"))
	if err != nil {
		handleServiceError(c, err, i18n.KeyOrderNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"order":   order,
		"message": i18n.T(lang, i18n.KeyPaymentPending),
	})
}
