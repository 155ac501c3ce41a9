// internal/handlers/auth.go
package handlers

import (
	"github.com/farmlink/market-backend/internal/i18n"
	"github.com/farmlink/market-backend/internal/services"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterCustomer handles POST /v1/auth/register/customer
func (h *AuthHandler) RegisterCustomer(c *gin.Context) {
	var req services.RegisterCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.RegisterCustomer(&req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyUserNotFound)
		return
	}
	utils.CreatedResponse(c, resp)
}

// RegisterFarmer handles POST /v1/auth/register/farmer
func (h *AuthHandler) RegisterFarmer(c *gin.Context) {
	var req services.RegisterFarmerRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.RegisterFarmer(&req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyUserNotFound)
		return
	}
	utils.CreatedResponse(c, resp)
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidLogin))
		return
	}
	utils.SuccessResponse(c, resp)
}

// RefreshToken handles POST /v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
		return
	}
	utils.SuccessResponse(c, resp)
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyUserNotFound)
		return
	}
	utils.SuccessResponse(c, user)
}
