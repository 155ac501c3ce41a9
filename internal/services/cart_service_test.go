// internal/services/cart_service_test.go
package services

import (
	"net/http"
	"strings"
	"testing"

	"github.com/farmlink/market-backend/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddItem(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewCartService(db, testConfig())

	view, err := svc.AddItem(f.customerUser.ID, &AddCartItemRequest{
		ProductID: f.product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, view.ItemCount)
	assert.InDelta(t, 5.00, view.Total, 0.001)
}

func TestCartAddItemAccumulatesQuantity(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewCartService(db, testConfig())

	_, err := svc.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 2})
	require.NoError(t, err)

	view, err := svc.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, view.Cart.Items, 1)
	assert.Equal(t, 3, view.Cart.Items[0].Quantity)
}

func TestCartAddItemStockCheckIsCumulative(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db) // product stock is 5
	svc := NewCartService(db, testConfig())

	_, err := svc.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 2})
	require.NoError(t, err)

	// 2 already in the cart, so 4 more would exceed the 5 in stock.
	_, err = svc.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 4})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// 3 more exactly reaches stock.
	view, err := svc.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, view.ItemCount)
}

func TestCartAddUnavailableProduct(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewCartService(db, testConfig())

	require.NoError(t, db.Model(&f.product).Update("is_available", false).Error)

	_, err := svc.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewCartService(db, testConfig())

	view, err := svc.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 2})
	require.NoError(t, err)
	itemID := view.Cart.Items[0].ID

	zero := 0
	view, err = svc.UpdateItem(f.customerUser.ID, itemID, &UpdateCartItemRequest{Quantity: &zero})
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Items)

	// The line can be re-added afterwards.
	view, err = svc.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, view.ItemCount)
}

func TestCartUpdateRequestBindsZeroQuantity(t *testing.T) {
	// A literal {"quantity":0} must survive binding so UpdateItem can treat
	// it as a line removal.
	req, err := http.NewRequest(http.MethodPut, "/", strings.NewReader(`{"quantity":0}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	var body UpdateCartItemRequest
	require.NoError(t, binding.JSON.Bind(req, &body))
	require.NotNil(t, body.Quantity)
	assert.Equal(t, 0, *body.Quantity)

	// An absent quantity is still a validation error.
	req, err = http.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	var empty UpdateCartItemRequest
	assert.Error(t, binding.JSON.Bind(req, &empty))
}

func TestCartRemoveItem(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewCartService(db, testConfig())

	view, err := svc.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 2})
	require.NoError(t, err)

	view, err = svc.RemoveItem(f.customerUser.ID, view.Cart.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Items)
	assert.Zero(t, view.Total)
}

func TestCartRemoveUnknownItem(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewCartService(db, testConfig())

	_, err := svc.GetCart(f.customerUser.ID)
	require.NoError(t, err)

	_, err = svc.RemoveItem(f.customerUser.ID, f.product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartTotalsMatchLines(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewCartService(db, testConfig())

	second := models.Product{
		FarmerID:    f.farmerProfile.ID,
		CategoryID:  f.category.ID,
		Name:        "Spinach",
		Price:       1.75,
		Stock:       10,
		IsAvailable: true,
	}
	require.NoError(t, db.Create(&second).Error)

	_, err := svc.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: f.product.ID, Quantity: 2})
	require.NoError(t, err)
	view, err := svc.AddItem(f.customerUser.ID, &AddCartItemRequest{ProductID: second.ID, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, 5, view.ItemCount)
	assert.InDelta(t, 2*2.50+3*1.75, view.Total, 0.001)
}

func TestCartRequiresCustomerProfile(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewCartService(db, testConfig())

	_, err := svc.GetCart(f.farmerUser.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
