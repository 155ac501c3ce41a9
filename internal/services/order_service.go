// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/farmlink/market-backend/internal/config"
	"github.com/farmlink/market-backend/internal/models"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService struct {
	db     *gorm.DB
	config *config.Config
}

func NewOrderService(db *gorm.DB, config *config.Config) *OrderService {
	return &OrderService{db: db, config: config}
}

type CheckoutRequest struct {
	DeliveryOption  models.DeliveryOption `json:"delivery_option" binding:"required,oneof=pickup delivery"`
	DeliveryAddress string                `json:"delivery_address"`
}

// Checkout snapshots the customer's cart into a pending order. Each line
// freezes the product's current price and owning farmer. The cart is left
// untouched; it is cleared only when a payment flow finalizes the order.
func (s *OrderService) Checkout(customerUserID uuid.UUID, req *CheckoutRequest) (*models.Order, error) {
	var profile models.CustomerProfile
	err := s.db.Where("user_id = ?", customerUserID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}

	var cart models.Cart
	err = s.db.Preload("Items.Product").Where("customer_id = ?", profile.ID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if req.DeliveryOption == models.DeliveryOptionDelivery && req.DeliveryAddress == "" {
		req.DeliveryAddress = profile.DeliveryAddress
	}

	order := models.Order{
		CustomerID:      profile.ID,
		OrderNumber:     utils.GenerateOrderNumber(),
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusUnset,
		DeliveryOption:  req.DeliveryOption,
		DeliveryAddress: req.DeliveryAddress,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var total float64
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			if line.Quantity > line.Product.Stock {
				return fmt.Errorf("%w: %s has %d in stock", ErrInsufficientStock, line.Product.Name, line.Product.Stock)
			}
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				FarmerID:  line.Product.FarmerID,
				Quantity:  line.Quantity,
				Price:     line.Product.Price,
			})
			total += float64(line.Quantity) * line.Product.Price
		}
		order.TotalAmount = total

		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrderByID(customerUserID, order.ID)
}

// ListOrders returns the customer's order history, newest first.
func (s *OrderService) ListOrders(customerUserID uuid.UUID, params utils.PaginationParams) (utils.PaginationResult, error) {
	profile, err := s.customerProfileFor(customerUserID)
	if err != nil {
		return utils.PaginationResult{}, err
	}

	var orders []models.Order
	query := s.db.Model(&models.Order{}).
		Preload("Items").
		Preload("Items.Product").
		Where("customer_id = ?", profile.ID).
		Order("created_at DESC")
	return utils.Paginate(query, params, &orders)
}

// GetOrder looks an order up by its order number, scoped to the owning
// customer.
func (s *OrderService) GetOrder(customerUserID uuid.UUID, orderNumber string) (*models.Order, error) {
	profile, err := s.customerProfileFor(customerUserID)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = s.db.Preload("Items").
		Preload("Items.Product").
		Preload("Items.Farmer").
		Where("order_number = ? AND customer_id = ?", orderNumber, profile.ID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetOrderByID fetches an order by id, scoped to the owning customer.
func (s *OrderService) GetOrderByID(customerUserID uuid.UUID, orderID uuid.UUID) (*models.Order, error) {
	profile, err := s.customerProfileFor(customerUserID)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = s.db.Preload("Items").
		Preload("Items.Product").
		Where("id = ? AND customer_id = ?", orderID, profile.ID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Finalize completes an order after a payment decision: the order is
// confirmed, every line's stock is decremented, and the customer's cart is
// emptied. Stock is decremented without a recheck, so concurrent finalizes
// over the same product can drive stock negative.
func (s *OrderService) Finalize(order *models.Order, paymentStatus models.PaymentStatus) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":         models.OrderStatusConfirmed,
			"payment_status": paymentStatus,
		}).Error; err != nil {
			return err
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error
			if err != nil {
				return err
			}
		}

		var cart models.Cart
		err := tx.Where("customer_id = ?", order.CustomerID).First(&cart).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Unscoped().Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		order.Status = models.OrderStatusConfirmed
		order.PaymentStatus = paymentStatus
		return nil
	})
}

func (s *OrderService) customerProfileFor(userID uuid.UUID) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}
	return &profile, nil
}
