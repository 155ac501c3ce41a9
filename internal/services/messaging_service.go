// internal/services/messaging_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/farmlink/market-backend/internal/config"
	"github.com/farmlink/market-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessagingService struct {
	db            *gorm.DB
	config        *config.Config
	notifications *NotificationService
}

func NewMessagingService(db *gorm.DB, config *config.Config, notifications *NotificationService) *MessagingService {
	return &MessagingService{db: db, config: config, notifications: notifications}
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type ConversationSummary struct {
	Conversation *models.Conversation `json:"conversation"`
	LastMessage  *models.Message      `json:"last_message,omitempty"`
	UnreadCount  int64                `json:"unread_count"`
}

// StartConversation returns the thread between a customer and a farmer,
// creating it if the pair has never talked. Only the customer side can open
// a thread.
func (s *MessagingService) StartConversation(customerUserID, farmerID uuid.UUID) (*models.Conversation, error) {
	var profile models.CustomerProfile
	err := s.db.Where("user_id = ?", customerUserID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}

	var farmer models.FarmerProfile
	if err := s.db.First(&farmer, "id = ?", farmerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var conversation models.Conversation
	err = s.db.Where("customer_id = ? AND farmer_id = ?", profile.ID, farmer.ID).First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conversation = models.Conversation{
			CustomerID: profile.ID,
			FarmerID:   farmer.ID,
		}
		if err := s.db.Create(&conversation).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return &conversation, nil
}

// ListConversations returns the user's threads ordered by latest activity,
// with the last message and unread count per thread.
func (s *MessagingService) ListConversations(userID uuid.UUID, userType models.UserType) ([]ConversationSummary, error) {
	var conversations []models.Conversation
	query := s.db.Preload("Customer.User").Preload("Farmer.User").Order("updated_at DESC")

	switch userType {
	case models.UserTypeCustomer:
		var profile models.CustomerProfile
		if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAccessDenied
			}
			return nil, err
		}
		query = query.Where("customer_id = ?", profile.ID)
	case models.UserTypeFarmer:
		var profile models.FarmerProfile
		if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAccessDenied
			}
			return nil, err
		}
		query = query.Where("farmer_id = ?", profile.ID)
	default:
		return nil, ErrAccessDenied
	}

	if err := query.Find(&conversations).Error; err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for i := range conversations {
		summary := ConversationSummary{Conversation: &conversations[i]}

		var last models.Message
		err := s.db.Where("conversation_id = ?", conversations[i].ID).
			Order("created_at DESC").
			First(&last).Error
		if err == nil {
			summary.LastMessage = &last
		}

		s.db.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id != ? AND is_read = ?", conversations[i].ID, userID, false).
			Count(&summary.UnreadCount)

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// GetConversation returns a thread with its messages and marks the
// counterpart's messages as read. Only the two participants may read it.
func (s *MessagingService) GetConversation(userID, conversationID uuid.UUID) (*models.Conversation, error) {
	conversation, err := s.participantConversation(userID, conversationID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("messages.created_at ASC")
	}).Preload("Messages.Sender").
		Preload("Customer.User").
		Preload("Farmer.User").
		First(conversation, "id = ?", conversation.ID).Error; err != nil {
		return nil, err
	}

	err = s.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = ?", conversation.ID, userID, false).
		Update("is_read", true).Error
	if err != nil {
		return nil, err
	}

	return conversation, nil
}

// SendMessage appends to a thread. The sender must be a participant and the
// content must be non-blank. Sending touches the conversation's updated_at
// and notifies the counterpart.
func (s *MessagingService) SendMessage(userID, conversationID uuid.UUID, req *SendMessageRequest) (*models.Message, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyMessage
	}

	conversation, err := s.participantConversation(userID, conversationID)
	if err != nil {
		return nil, err
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       userID,
		Content:        req.Content,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		// Touch the thread so conversation lists sort by latest activity.
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversation.ID).
			Update("updated_at", message.CreatedAt).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifyCounterpart(conversation, userID)

	return &message, nil
}

func (s *MessagingService) participantConversation(userID, conversationID uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.Preload("Customer").Preload("Farmer").First(&conversation, "id = ?", conversationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if conversation.Customer.UserID != userID && conversation.Farmer.UserID != userID {
		return nil, ErrAccessDenied
	}
	return &conversation, nil
}

func (s *MessagingService) notifyCounterpart(conversation *models.Conversation, senderUserID uuid.UUID) {
	recipientUserID := conversation.Customer.UserID
	if recipientUserID == senderUserID {
		recipientUserID = conversation.Farmer.UserID
	}

	var sender models.User
	if err := s.db.First(&sender, "id = ?", senderUserID).Error; err != nil {
		return
	}

	s.notifications.Notify(recipientUserID, models.NotificationTypeNewMessage,
		"New message",
		fmt.Sprintf("You have a new message from %s", sender.Username))
}
