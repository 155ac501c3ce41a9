// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/farmlink/market-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	notifications := NewNotificationService(db, testConfig())
	svc := NewProductService(db, testConfig(), notifications)

	product, err := svc.CreateProduct(f.farmerUser.ID, &CreateProductRequest{
		CategoryID: f.category.ID,
		Name:       "Carrots",
		Price:      1.20,
		Stock:      30,
	})
	require.NoError(t, err)

	assert.Equal(t, f.farmerProfile.ID, product.FarmerID)
	assert.True(t, product.IsAvailable)
}

func TestCreateProductNotifiesFollowers(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	notifications := NewNotificationService(db, testConfig())
	users := NewUserService(db, testConfig(), notifications)
	svc := NewProductService(db, testConfig(), notifications)

	_, err := users.FollowFarmer(f.customerUser.ID, f.farmerProfile.ID)
	require.NoError(t, err)

	_, err = svc.CreateProduct(f.farmerUser.ID, &CreateProductRequest{
		CategoryID: f.category.ID,
		Name:       "Carrots",
		Price:      1.20,
		Stock:      30,
	})
	require.NoError(t, err)

	var notifs []models.Notification
	require.NoError(t, db.Where("user_id = ? AND notification_type = ?",
		f.customerUser.ID, models.NotificationTypeNewProduct).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Contains(t, notifs[0].Message, "Carrots")
}

func TestUpdateProductOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	notifications := NewNotificationService(db, testConfig())
	svc := NewProductService(db, testConfig(), notifications)

	intruder := models.User{Username: "juma", Email: "juma@example.com", UserType: models.UserTypeFarmer}
	require.NoError(t, intruder.SetPassword("Secret123"))
	require.NoError(t, db.Create(&intruder).Error)
	require.NoError(t, db.Create(&models.FarmerProfile{UserID: intruder.ID, FarmName: "Other Farm"}).Error)

	price := 99.0
	_, err := svc.UpdateProduct(intruder.ID, f.product.ID, &UpdateProductRequest{Price: &price})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// The owner can update.
	updated, err := svc.UpdateProduct(f.farmerUser.ID, f.product.ID, &UpdateProductRequest{Price: &price})
	require.NoError(t, err)

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", updated.ID).Error)
	assert.InDelta(t, 99.0, stored.Price, 0.001)
}

func TestToggleAvailability(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	notifications := NewNotificationService(db, testConfig())
	svc := NewProductService(db, testConfig(), notifications)

	product, err := svc.ToggleAvailability(f.farmerUser.ID, f.product.ID)
	require.NoError(t, err)
	assert.False(t, product.IsAvailable)

	product, err = svc.ToggleAvailability(f.farmerUser.ID, f.product.ID)
	require.NoError(t, err)
	assert.True(t, product.IsAvailable)
}

func TestReviewProductUpserts(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	notifications := NewNotificationService(db, testConfig())
	svc := NewProductService(db, testConfig(), notifications)

	first, err := svc.ReviewProduct(f.customerUser.ID, f.product.ID, &ReviewProductRequest{Rating: 2, Review: "wilted"})
	require.NoError(t, err)

	second, err := svc.ReviewProduct(f.customerUser.ID, f.product.ID, &ReviewProductRequest{Rating: 4, Review: "better batch"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.ProductReview{}).Where("product_id = ?", f.product.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	// Only the first review notifies the farmer.
	var notifCount int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND notification_type = ?", f.farmerUser.ID, models.NotificationTypeNewReview).
		Count(&notifCount)
	assert.EqualValues(t, 1, notifCount)
}

func TestGetProductDetail(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	notifications := NewNotificationService(db, testConfig())
	svc := NewProductService(db, testConfig(), notifications)

	related := models.Product{
		FarmerID:    f.farmerProfile.ID,
		CategoryID:  f.category.ID,
		Name:        "Spinach",
		Price:       1.75,
		Stock:       10,
		IsAvailable: true,
	}
	require.NoError(t, db.Create(&related).Error)

	_, err := svc.ReviewProduct(f.customerUser.ID, f.product.ID, &ReviewProductRequest{Rating: 4})
	require.NoError(t, err)

	detail, err := svc.GetProduct(f.product.ID)
	require.NoError(t, err)

	assert.Equal(t, f.product.ID, detail.Product.ID)
	assert.InDelta(t, 4.0, detail.AverageRating, 0.001)
	assert.EqualValues(t, 1, detail.ReviewCount)
	require.Len(t, detail.RelatedProducts, 1)
	assert.Equal(t, related.ID, detail.RelatedProducts[0].ID)
}

func TestDashboardCounts(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	notifications := NewNotificationService(db, testConfig())
	svc := NewProductService(db, testConfig(), notifications)
	carts := NewCartService(db, testConfig())
	orders := NewOrderService(db, testConfig())

	_, err := carts.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 2})
	require.NoError(t, err)
	order, err := orders.Checkout(f.customerUser.ID, &CheckoutRequest{DeliveryOption: models.DeliveryOptionPickup})
	require.NoError(t, err)
	require.NoError(t, orders.Finalize(order, models.PaymentStatusCompleted))

	dashboard, err := svc.GetDashboard(f.farmerUser.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 1, dashboard.TotalProducts)
	assert.EqualValues(t, 1, dashboard.ActiveProducts)
	assert.EqualValues(t, 1, dashboard.TotalOrders)
	assert.EqualValues(t, 1, dashboard.TotalCustomers)
	assert.EqualValues(t, 2, dashboard.UnitsSold)
	assert.InDelta(t, 5.00, dashboard.TotalRevenue, 0.001)
	require.Len(t, dashboard.TopProducts, 1)
	assert.Equal(t, f.product.ID, dashboard.TopProducts[0].ProductID)
	assert.Equal(t, "Kale", dashboard.TopProducts[0].Name)
	assert.EqualValues(t, 2, dashboard.TopProducts[0].UnitsSold)
	assert.InDelta(t, 5.00, dashboard.TopProducts[0].Revenue, 0.001)
	require.Len(t, dashboard.RecentOrderItems, 1)
}
