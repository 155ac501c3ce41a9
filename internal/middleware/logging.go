// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/farmlink/market-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RequestLogger logs every request with method, path, status and latency.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})

		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}

// AuditLog records successful mutating requests in the audit_logs table,
// including the JSON request payload. Reads and failed requests are not
// recorded.
func AuditLog(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		// Tee the body so the handler can still bind it.
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		log := models.AuditLog{
			Action:       c.Request.Method + " " + c.FullPath(),
			ResourceType: resourceTypeFromPath(c.FullPath()),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		}

		if userIDStr, exists := c.Get("user_id"); exists {
			if id, err := uuid.Parse(userIDStr.(string)); err == nil {
				log.UserID = &id
			}
		}

		if id, ok := resourceIDFromPath(c.Request.URL.Path); ok {
			log.ResourceID = &id
		}

		if len(requestBody) > 0 {
			var payload map[string]interface{}
			if err := json.Unmarshal(requestBody, &payload); err == nil {
				delete(payload, "password")
				log.NewValues = models.JSONB(payload)
			}
		}

		if err := db.Create(&log).Error; err != nil {
			logrus.WithError(err).Warn("Failed to write audit log")
		}
	}
}

// resourceTypeFromPath maps /v1/products/:id to "products".
func resourceTypeFromPath(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for _, part := range parts {
		if part == "" || part == "v1" {
			continue
		}
		return part
	}
	return "unknown"
}

// resourceIDFromPath returns the first UUID segment of the request path.
func resourceIDFromPath(path string) (uuid.UUID, bool) {
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if id, err := uuid.Parse(part); err == nil {
			return id, true
		}
	}
	return uuid.Nil, false
}
