// internal/services/notification_service_test.go
package services

import (
	"testing"

	"github.com/farmlink/market-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyAndUnreadCount(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewNotificationService(db, testConfig())

	svc.Notify(f.customerUser.ID, models.NotificationTypeNewMessage, "New message", "hello")
	svc.Notify(f.customerUser.ID, models.NotificationTypeNewProduct, "New product", "Kale is back")

	count, err := svc.UnreadCount(f.customerUser.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestMarkReadIsOwnerScoped(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewNotificationService(db, testConfig())

	svc.Notify(f.customerUser.ID, models.NotificationTypeNewMessage, "New message", "hello")

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ?", f.customerUser.ID).First(&notification).Error)

	err := svc.MarkRead(f.farmerUser.ID, notification.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.MarkRead(f.customerUser.ID, notification.ID))
	count, err := svc.UnreadCount(f.customerUser.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSendEmailSkipsWithoutSMTPHost(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db, testConfig())

	// No SMTP host configured: the call must return without dialing
	// anything and without surfacing an error.
	svc.SendEmail("wanjiku@example.com", "Farm verified", "body")
}
