// internal/handlers/user.go
package handlers

import (
	"github.com/farmlink/market-backend/internal/i18n"
	"github.com/farmlink/market-backend/internal/models"
	"github.com/farmlink/market-backend/internal/services"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService    *services.UserService
	storageService *services.StorageService
}

func NewUserHandler(userService *services.UserService, storageService *services.StorageService) *UserHandler {
	return &UserHandler{userService: userService, storageService: storageService}
}

// GetProfile handles GET /v1/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyUserNotFound)
		return
	}
	utils.SuccessResponse(c, user)
}

// UpdateProfile handles PUT /v1/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyUserNotFound)
		return
	}
	utils.SuccessResponse(c, user)
}

// UploadProfilePicture handles POST /v1/users/profile/picture
func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("picture")
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "picture"), nil)
		return
	}

	url, err := h.storageService.UploadImage(file, services.FolderProfiles)
	if err != nil {
		handleServiceError(c, err, i18n.KeyUserNotFound)
		return
	}

	picture := url
	user, err := h.userService.UpdateProfilePicture(userID, picture)
	if err != nil {
		handleServiceError(c, err, i18n.KeyUserNotFound)
		return
	}
	utils.SuccessResponse(c, user)
}

// ListFarmers handles GET /v1/farmers
func (h *UserHandler) ListFarmers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	result, err := h.userService.ListFarmers(c.Query("location"), params)
	if err != nil {
		handleServiceError(c, err, i18n.KeyFarmerNotFound)
		return
	}
	utils.PaginatedResponse(c, result)
}

// GetFarmer handles GET /v1/farmers/:id
func (h *UserHandler) GetFarmer(c *gin.Context) {
	farmerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var viewerCustomerID *uuid.UUID
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if userType, _ := utils.GetUserTypeFromContext(c); userType == string(models.UserTypeCustomer) {
			if userID, err := uuid.Parse(userIDStr); err == nil {
				if profileID, err := h.userService.CustomerProfileID(userID); err == nil {
					viewerCustomerID = &profileID
				}
			}
		}
	}

	profile, err := h.userService.GetFarmerProfile(farmerID, viewerCustomerID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyFarmerNotFound)
		return
	}
	utils.SuccessResponse(c, profile)
}

// FollowFarmer handles POST /v1/farmers/:id/follow
func (h *UserHandler) FollowFarmer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	farmerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	following, err := h.userService.FollowFarmer(userID, farmerID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyFarmerNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	key := i18n.KeyFollowRemoved
	if following {
		key = i18n.KeyFollowAdded
	}
	utils.SuccessResponse(c, gin.H{
		"following": following,
		"message":   i18n.T(lang, key),
	})
}

// RateFarmer handles POST /v1/farmers/:id/rate
func (h *UserHandler) RateFarmer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	farmerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.RateFarmerRequest
	if !bindJSON(c, &req) {
		return
	}

	rating, err := h.userService.RateFarmer(userID, farmerID, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyFarmerNotFound)
		return
	}
	utils.SuccessResponse(c, rating)
}

// UploadVerificationDocument handles POST /v1/farmers/verification/document
func (h *UserHandler) UploadVerificationDocument(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("document")
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "document"), nil)
		return
	}

	key, err := h.storageService.UploadDocument(file)
	if err != nil {
		handleServiceError(c, err, i18n.KeyUserNotFound)
		return
	}

	if err := h.userService.SetVerificationDocument(userID, key); err != nil {
		handleServiceError(c, err, i18n.KeyFarmerNotFound)
		return
	}
	utils.SuccessResponse(c, gin.H{"document": key})
}

// VerifyFarmer handles POST /v1/admin/farmers/:id/verify
func (h *UserHandler) VerifyFarmer(c *gin.Context) {
	farmerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	farmer, err := h.userService.VerifyFarmer(farmerID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyFarmerNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"farmer":  farmer,
		"message": i18n.T(lang, i18n.KeyFarmerVerified),
	})
}

// ListUsers handles GET /v1/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	result, err := h.userService.ListUsers(c.Query("user_type"), params)
	if err != nil {
		handleServiceError(c, err, i18n.KeyUserNotFound)
		return
	}
	utils.PaginatedResponse(c, result)
}
