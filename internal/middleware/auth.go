// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/farmlink/market-backend/internal/config"
	"github.com/farmlink/market-backend/internal/i18n"
	"github.com/farmlink/market-backend/internal/models"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and stores the caller's identity
// on the context.
func AuthRequired(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(token, cfg.JWT.SecretKey)
		if err != nil {
			lang := utils.GetLangFromContext(c)
			key := i18n.KeyAuthInvalidToken
			if err == utils.ErrExpiredToken {
				key = i18n.KeyAuthExpiredToken
			}
			utils.UnauthorizedResponse(c, i18n.T(lang, key))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID.String())
		c.Set("username", claims.Username)
		c.Set("user_type", string(claims.UserType))
		c.Set("is_staff", claims.IsStaff)
		c.Next()
	}
}

// OptionalAuth populates the caller's identity when a valid token is present
// but never rejects the request.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" {
			if claims, err := utils.ValidateToken(token, cfg.JWT.SecretKey); err == nil {
				c.Set("user_id", claims.UserID.String())
				c.Set("username", claims.Username)
				c.Set("user_type", string(claims.UserType))
				c.Set("is_staff", claims.IsStaff)
			}
		}
		c.Next()
	}
}

// CustomerRequired allows only customer accounts past.
func CustomerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userType, ok := utils.GetUserTypeFromContext(c)
		if !ok || userType != string(models.UserTypeCustomer) {
			lang := utils.GetLangFromContext(c)
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyCustomerOnly))
			c.Abort()
			return
		}
		c.Next()
	}
}

// FarmerRequired allows only farmer accounts past.
func FarmerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userType, ok := utils.GetUserTypeFromContext(c)
		if !ok || userType != string(models.UserTypeFarmer) {
			lang := utils.GetLangFromContext(c)
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyFarmerOnly))
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffRequired allows only staff accounts past.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		isStaff, exists := c.Get("is_staff")
		if !exists || isStaff != true {
			lang := utils.GetLangFromContext(c)
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyStaffOnly))
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
