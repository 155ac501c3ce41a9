// internal/services/order_service_test.go
package services

import (
	"regexp"
	"testing"

	"github.com/farmlink/market-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`)

func TestCheckoutSnapshotsCart(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	carts := NewCartService(db, testConfig())
	orders := NewOrderService(db, testConfig())

	_, err := carts.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 2})
	require.NoError(t, err)

	order, err := orders.Checkout(f.customerUser.ID, &CheckoutRequest{
		DeliveryOption:  models.DeliveryOptionDelivery,
		DeliveryAddress: "12 Market Road",
	})
	require.NoError(t, err)

	assert.Regexp(t, orderNumberPattern, order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusUnset, order.PaymentStatus)
	assert.InDelta(t, 5.00, order.TotalAmount, 0.001)

	require.Len(t, order.Items, 1)
	assert.Equal(t, f.product.ID, order.Items[0].ProductID)
	assert.Equal(t, f.farmerProfile.ID, order.Items[0].FarmerID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.InDelta(t, 2.50, order.Items[0].Price, 0.001)
}

func TestCheckoutLeavesCartIntact(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	carts := NewCartService(db, testConfig())
	orders := NewOrderService(db, testConfig())

	_, err := carts.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = orders.Checkout(f.customerUser.ID, &CheckoutRequest{DeliveryOption: models.DeliveryOptionPickup})
	require.NoError(t, err)

	view, err := carts.GetCart(f.customerUser.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.ItemCount)

	// Stock is untouched until a payment flow finalizes the order.
	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", f.product.ID).Error)
	assert.Equal(t, 5, product.Stock)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	orders := NewOrderService(db, testConfig())

	_, err := orders.Checkout(f.customerUser.ID, &CheckoutRequest{DeliveryOption: models.DeliveryOptionPickup})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutFreezesPrices(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	carts := NewCartService(db, testConfig())
	orders := NewOrderService(db, testConfig())

	_, err := carts.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 2})
	require.NoError(t, err)

	order, err := orders.Checkout(f.customerUser.ID, &CheckoutRequest{DeliveryOption: models.DeliveryOptionPickup})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", f.product.ID).Update("price", 9.99).Error)

	fetched, err := orders.GetOrder(f.customerUser.ID, order.OrderNumber)
	require.NoError(t, err)
	assert.InDelta(t, 2.50, fetched.Items[0].Price, 0.001)
	assert.InDelta(t, 5.00, fetched.TotalAmount, 0.001)
}

func TestGetOrderScopedToCustomer(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	carts := NewCartService(db, testConfig())
	orders := NewOrderService(db, testConfig())

	other := models.User{Username: "njeri", Email: "njeri@example.com", UserType: models.UserTypeCustomer}
	require.NoError(t, other.SetPassword("Secret123"))
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&models.CustomerProfile{UserID: other.ID}).Error)

	_, err := carts.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 1})
	require.NoError(t, err)
	order, err := orders.Checkout(f.customerUser.ID, &CheckoutRequest{DeliveryOption: models.DeliveryOptionPickup})
	require.NoError(t, err)

	_, err = orders.GetOrder(other.ID, order.OrderNumber)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFinalizeConfirmsDecrementsAndClearsCart(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	carts := NewCartService(db, testConfig())
	orders := NewOrderService(db, testConfig())

	_, err := carts.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 3})
	require.NoError(t, err)
	order, err := orders.Checkout(f.customerUser.ID, &CheckoutRequest{DeliveryOption: models.DeliveryOptionPickup})
	require.NoError(t, err)

	require.NoError(t, orders.Finalize(order, models.PaymentStatusPending))

	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", f.product.ID).Error)
	assert.Equal(t, 2, product.Stock)

	view, err := carts.GetCart(f.customerUser.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Items)
}

// Stock is decremented without a recheck at finalize time. Two orders taken
// against the same stock both finalize, driving stock negative. The check at
// add-to-cart and checkout time limits but does not close this window.
func TestFinalizeDoesNotRecheckStock(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	carts := NewCartService(db, testConfig())
	orders := NewOrderService(db, testConfig())

	other := models.User{Username: "njeri", Email: "njeri@example.com", UserType: models.UserTypeCustomer}
	require.NoError(t, other.SetPassword("Secret123"))
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&models.CustomerProfile{UserID: other.ID}).Error)

	_, err := carts.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 4})
	require.NoError(t, err)
	_, err = carts.AddItem(other.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 4})
	require.NoError(t, err)

	first, err := orders.Checkout(f.customerUser.ID, &CheckoutRequest{DeliveryOption: models.DeliveryOptionPickup})
	require.NoError(t, err)
	second, err := orders.Checkout(other.ID, &CheckoutRequest{DeliveryOption: models.DeliveryOptionPickup})
	require.NoError(t, err)

	require.NoError(t, orders.Finalize(first, models.PaymentStatusCompleted))
	require.NoError(t, orders.Finalize(second, models.PaymentStatusCompleted))

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", f.product.ID).Error)
	assert.Equal(t, -3, product.Stock)
}
