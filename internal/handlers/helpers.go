// internal/handlers/helpers.go
package handlers

import (
	"errors"

	"github.com/farmlink/market-backend/internal/i18n"
	"github.com/farmlink/market-backend/internal/services"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// currentUserID reads the authenticated caller's id. Auth middleware has
// already run on every route that calls this.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	idStr, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	return id, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, name), nil)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ValidationErrorResponse(c, utils.FormatValidationErrors(err))
		return false
	}
	return true
}

// handleServiceError maps service sentinel errors onto HTTP responses. The
// notFoundKey names the resource for the 404 message.
func handleServiceError(c *gin.Context, err error, notFoundKey string) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, notFoundKey)
	case errors.Is(err, services.ErrAccessDenied):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrInsufficientStock):
		utils.InsufficientStockResponse(c, err.Error())
	case errors.Is(err, services.ErrEmptyCart):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartEmpty), nil)
	case errors.Is(err, services.ErrEmptyMessage):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyMessageEmpty), nil)
	case errors.Is(err, services.ErrDuplicate):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrExternalService):
		utils.PaymentGatewayErrorResponse(c)
	default:
		logrus.WithError(err).Error("Unhandled service error")
		utils.InternalErrorResponse(c, "")
	}
}
