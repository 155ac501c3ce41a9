// internal/services/payment_service_test.go
package services

import (
	"testing"

	"github.com/farmlink/market-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placePendingOrder(t *testing.T, f fixtures, carts *CartService, orders *OrderService) *models.Order {
	t.Helper()

	_, err := carts.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 2})
	require.NoError(t, err)

	order, err := orders.Checkout(f.customerUser.ID, &CheckoutRequest{DeliveryOption: models.DeliveryOptionPickup})
	require.NoError(t, err)
	return order
}

func TestCashOnDeliveryConfirmsWithPaymentPending(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	carts := NewCartService(db, testConfig())
	orders := NewOrderService(db, testConfig())
	payments := NewPaymentService(db, testConfig(), orders)

	order := placePendingOrder(t, f, carts, orders)

	result, err := payments.ProcessCashOnDelivery(f.customerUser.ID, order.OrderNumber)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusConfirmed, result.Status)
	assert.Equal(t, models.PaymentStatusPending, result.PaymentStatus)
	assert.Equal(t, "Cash on Delivery", result.PaymentMethod)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", f.product.ID).Error)
	assert.Equal(t, 3, product.Stock)

	view, err := carts.GetCart(f.customerUser.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Items)
}

func TestMobileMoneySettlesSynchronously(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	carts := NewCartService(db, testConfig())
	orders := NewOrderService(db, testConfig())
	payments := NewPaymentService(db, testConfig(), orders)

	order := placePendingOrder(t, f, carts, orders)

	result, err := payments.ProcessMobileMoney(f.customerUser.ID, order.OrderNumber, &MobileMoneyRequest{
		Provider:    "M-Pesa",
		PhoneNumber: "+254712345678",
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusConfirmed, result.Status)
	assert.Equal(t, models.PaymentStatusCompleted, result.PaymentStatus)
	assert.Equal(t, "Mobile Money (M-PESA)", result.PaymentMethod)
}

func TestPaymentRejectsNonPendingOrder(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	carts := NewCartService(db, testConfig())
	orders := NewOrderService(db, testConfig())
	payments := NewPaymentService(db, testConfig(), orders)

	order := placePendingOrder(t, f, carts, orders)

	_, err := payments.ProcessCashOnDelivery(f.customerUser.ID, order.OrderNumber)
	require.NoError(t, err)

	// A second attempt finds the order already confirmed.
	_, err = payments.ProcessCashOnDelivery(f.customerUser.ID, order.OrderNumber)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
