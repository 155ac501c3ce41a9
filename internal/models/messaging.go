// internal/models/messaging.go
package models

import (
	"github.com/google/uuid"
)

// Conversation is the single thread between one customer and one farmer. The
// pair is unique; starting a conversation twice returns the existing thread.
type Conversation struct {
	BaseModel
	CustomerID uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair"`
	FarmerID   uuid.UUID `json:"farmer_id" gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair"`

	// Relationships
	Customer CustomerProfile `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Farmer   FarmerProfile   `json:"farmer,omitempty" gorm:"foreignKey:FarmerID"`
	Messages []Message       `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
}

type Message struct {
	BaseModel
	ConversationID uuid.UUID `json:"conversation_id" gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID `json:"sender_id" gorm:"type:uuid;not null;index"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	IsRead         bool      `json:"is_read" gorm:"default:false"`

	// Relationships
	Conversation Conversation `json:"conversation,omitempty" gorm:"foreignKey:ConversationID"`
	Sender       User         `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

// Notification is a one-way, best-effort record fanned out to a user as a side
// effect of another user's action.
type Notification struct {
	BaseModel
	UserID           uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"`
	NotificationType NotificationType `json:"notification_type" gorm:"type:varchar(20);not null"`
	Title            string           `json:"title" gorm:"size:200;not null"`
	Message          string           `json:"message" gorm:"type:text;not null"`
	IsRead           bool             `json:"is_read" gorm:"default:false;index"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
