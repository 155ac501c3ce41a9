// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/farmlink/market-backend/internal/config"
	"github.com/farmlink/market-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartService struct {
	db     *gorm.DB
	config *config.Config
}

func NewCartService(db *gorm.DB, config *config.Config) *CartService {
	return &CartService{db: db, config: config}
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// Quantity is a pointer so a literal 0 survives binding's required check;
// zero and negative values remove the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type CartView struct {
	Cart      *models.Cart `json:"cart"`
	ItemCount int          `json:"item_count"`
	Total     float64      `json:"total"`
}

// GetCart returns the customer's cart with items, products and totals,
// creating an empty cart on first access.
func (s *CartService) GetCart(customerUserID uuid.UUID) (*CartView, error) {
	cart, err := s.getOrCreateCart(customerUserID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Items.Product").Preload("Items.Product.Farmer").
		First(cart, "id = ?", cart.ID).Error; err != nil {
		return nil, err
	}

	return s.buildView(cart), nil
}

// AddItem adds a product line or increases an existing one. The stock check
// is cumulative: existing cart quantity plus the new quantity must not exceed
// the product's stock.
func (s *CartService) AddItem(customerUserID uuid.UUID, req *AddCartItemRequest) (*CartView, error) {
	cart, err := s.getOrCreateCart(customerUserID)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !product.IsAvailable {
		return nil, ErrNotFound
	}

	var item models.CartItem
	err = s.db.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error
	switch {
	case err == nil:
		if item.Quantity+req.Quantity > product.Stock {
			return nil, fmt.Errorf("%w: %s has %d in stock", ErrInsufficientStock, product.Name, product.Stock)
		}
		if err := s.db.Model(&item).Update("quantity", item.Quantity+req.Quantity).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if req.Quantity > product.Stock {
			return nil, fmt.Errorf("%w: %s has %d in stock", ErrInsufficientStock, product.Name, product.Stock)
		}
		item = models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.GetCart(customerUserID)
}

// UpdateItem sets a line's quantity. A quantity of zero or less removes the
// line.
func (s *CartService) UpdateItem(customerUserID, itemID uuid.UUID, req *UpdateCartItemRequest) (*CartView, error) {
	cart, err := s.getOrCreateCart(customerUserID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	if err := s.db.Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	quantity := *req.Quantity
	if quantity <= 0 {
		if err := s.db.Unscoped().Delete(&item).Error; err != nil {
			return nil, err
		}
		return s.GetCart(customerUserID)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", item.ProductID).Error; err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, fmt.Errorf("%w: %s has %d in stock", ErrInsufficientStock, product.Name, product.Stock)
	}

	if err := s.db.Model(&item).Update("quantity", quantity).Error; err != nil {
		return nil, err
	}
	return s.GetCart(customerUserID)
}

// RemoveItem deletes a line from the customer's cart.
func (s *CartService) RemoveItem(customerUserID, itemID uuid.UUID) (*CartView, error) {
	cart, err := s.getOrCreateCart(customerUserID)
	if err != nil {
		return nil, err
	}

	result := s.db.Unscoped().Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetCart(customerUserID)
}

// ClearCart removes every line.
func (s *CartService) ClearCart(customerUserID uuid.UUID) error {
	cart, err := s.getOrCreateCart(customerUserID)
	if err != nil {
		return err
	}
	return s.db.Unscoped().Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}

func (s *CartService) getOrCreateCart(customerUserID uuid.UUID) (*models.Cart, error) {
	var profile models.CustomerProfile
	err := s.db.Where("user_id = ?", customerUserID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}

	var cart models.Cart
	err = s.db.Where("customer_id = ?", profile.ID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{CustomerID: profile.ID}
		if err := s.db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) buildView(cart *models.Cart) *CartView {
	view := &CartView{Cart: cart}
	for _, item := range cart.Items {
		view.ItemCount += item.Quantity
		view.Total += float64(item.Quantity) * item.Product.Price
	}
	return view
}
