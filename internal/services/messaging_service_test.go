// internal/services/messaging_service_test.go
package services

import (
	"testing"

	"github.com/farmlink/market-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartConversationIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	notifications := NewNotificationService(db, testConfig())
	svc := NewMessagingService(db, testConfig(), notifications)

	first, err := svc.StartConversation(f.customerUser.ID, f.farmerProfile.ID)
	require.NoError(t, err)

	second, err := svc.StartConversation(f.customerUser.ID, f.farmerProfile.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.Conversation{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSendMessageRejectsBlankContent(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	notifications := NewNotificationService(db, testConfig())
	svc := NewMessagingService(db, testConfig(), notifications)

	conversation, err := svc.StartConversation(f.customerUser.ID, f.farmerProfile.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(f.customerUser.ID, conversation.ID, &SendMessageRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendMessageRequiresParticipant(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	notifications := NewNotificationService(db, testConfig())
	svc := NewMessagingService(db, testConfig(), notifications)

	conversation, err := svc.StartConversation(f.customerUser.ID, f.farmerProfile.ID)
	require.NoError(t, err)

	outsider := models.User{Username: "njeri", Email: "njeri@example.com", UserType: models.UserTypeCustomer}
	require.NoError(t, outsider.SetPassword("Secret123"))
	require.NoError(t, db.Create(&outsider).Error)

	_, err = svc.SendMessage(outsider.ID, conversation.ID, &SendMessageRequest{Content: "hello"})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestSendMessageNotifiesCounterpart(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	notifications := NewNotificationService(db, testConfig())
	svc := NewMessagingService(db, testConfig(), notifications)

	conversation, err := svc.StartConversation(f.customerUser.ID, f.farmerProfile.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(f.customerUser.ID, conversation.ID, &SendMessageRequest{Content: "is the kale fresh?"})
	require.NoError(t, err)

	var notifs []models.Notification
	require.NoError(t, db.Where("user_id = ?", f.farmerUser.ID).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationTypeNewMessage, notifs[0].NotificationType)

	// The farmer replying notifies the customer, not themselves.
	_, err = svc.SendMessage(f.farmerUser.ID, conversation.ID, &SendMessageRequest{Content: "picked this morning"})
	require.NoError(t, err)

	var customerNotifs int64
	db.Model(&models.Notification{}).Where("user_id = ?", f.customerUser.ID).Count(&customerNotifs)
	assert.EqualValues(t, 1, customerNotifs)
}

func TestGetConversationMarksCounterpartMessagesRead(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	notifications := NewNotificationService(db, testConfig())
	svc := NewMessagingService(db, testConfig(), notifications)

	conversation, err := svc.StartConversation(f.customerUser.ID, f.farmerProfile.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(f.customerUser.ID, conversation.ID, &SendMessageRequest{Content: "hello"})
	require.NoError(t, err)

	// The farmer opening the thread marks the customer's message read.
	fetched, err := svc.GetConversation(f.farmerUser.ID, conversation.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Messages, 1)

	var message models.Message
	require.NoError(t, db.First(&message, "conversation_id = ?", conversation.ID).Error)
	assert.True(t, message.IsRead)
}

func TestListConversationsUnreadCount(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	notifications := NewNotificationService(db, testConfig())
	svc := NewMessagingService(db, testConfig(), notifications)

	conversation, err := svc.StartConversation(f.customerUser.ID, f.farmerProfile.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(f.customerUser.ID, conversation.ID, &SendMessageRequest{Content: "first"})
	require.NoError(t, err)
	_, err = svc.SendMessage(f.customerUser.ID, conversation.ID, &SendMessageRequest{Content: "second"})
	require.NoError(t, err)

	summaries, err := svc.ListConversations(f.farmerUser.ID, models.UserTypeFarmer)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 2, summaries[0].UnreadCount)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "second", summaries[0].LastMessage.Content)

	// From the sender's side nothing is unread.
	summaries, err = svc.ListConversations(f.customerUser.ID, models.UserTypeCustomer)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Zero(t, summaries[0].UnreadCount)
}
