// internal/services/notification_service.go
package services

import (
	"errors"
	"fmt"
	"net/smtp"

	"github.com/farmlink/market-backend/internal/config"
	"github.com/farmlink/market-backend/internal/models"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{db: db, config: config}
}

// Notify records an in-app notification for a user. Failures are logged and
// swallowed: a broken notification must never fail the operation that
// triggered it.
func (s *NotificationService) Notify(userID uuid.UUID, notifType models.NotificationType, title, message string) {
	notification := models.Notification{
		UserID:           userID,
		NotificationType: notifType,
		Title:            title,
		Message:          message,
	}

	if err := s.db.Create(&notification).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"type":    notifType,
		}).Warn("Failed to create notification")
	}
}

// NotifyMany fans one notification out to a set of users.
func (s *NotificationService) NotifyMany(userIDs []uuid.UUID, notifType models.NotificationType, title, message string) {
	for _, userID := range userIDs {
		s.Notify(userID, notifType, title, message)
	}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(userID uuid.UUID, params utils.PaginationParams) (utils.PaginationResult, error) {
	var notifications []models.Notification
	query := s.db.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	return utils.Paginate(query, params, &notifications)
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks a single notification as read. Scoped to the owner.
func (s *NotificationService) MarkRead(userID, notificationID uuid.UUID) error {
	var notification models.Notification
	err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.Model(&notification).Update("is_read", true).Error
}

// MarkAllRead marks every unread notification for the user as read.
func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// SendEmail sends a plain-text email if SMTP is configured. Like Notify it
// never surfaces failures to callers.
func (s *NotificationService) SendEmail(to, subject, body string) {
	if s.config.Email.SMTPHost == "" {
		return
	}

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	msg := []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.config.Email.FromName, s.config.Email.FromEmail, to, subject, body))

	var auth smtp.Auth
	if s.config.Email.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg); err != nil {
		logrus.WithError(err).WithField("to", to).Warn("Failed to send email")
	}
}
