// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// Cart is the mutable per-customer collection of product lines. One cart per
// customer, created lazily on first add.
type Cart struct {
	BaseModel
	CustomerID uuid.UUID `json:"customer_id" gorm:"type:uuid;uniqueIndex;not null"`

	// Relationships
	Customer CustomerProfile `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items    []CartItem      `json:"items,omitempty" gorm:"foreignKey:CartID"`
}

type CartItem struct {
	BaseModel
	CartID    uuid.UUID `json:"cart_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_pair"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_pair"`
	Quantity  int       `json:"quantity" gorm:"not null"`

	// Relationships
	Cart    Cart    `json:"cart,omitempty" gorm:"foreignKey:CartID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Order is the immutable checkout snapshot of a cart. Status and payment status
// only advance; orders are never deleted.
type Order struct {
	BaseModel
	CustomerID      uuid.UUID      `json:"customer_id" gorm:"type:uuid;not null;index"`
	OrderNumber     string         `json:"order_number" gorm:"uniqueIndex;size:30;not null"`
	Status          OrderStatus    `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentStatus   PaymentStatus  `json:"payment_status" gorm:"type:varchar(20);default:''"`
	PaymentMethod   string         `json:"payment_method" gorm:"size:50"`
	PaymentIntentID string         `json:"payment_intent_id" gorm:"size:255"`
	DeliveryOption  DeliveryOption `json:"delivery_option" gorm:"type:varchar(10);not null"`
	DeliveryAddress string         `json:"delivery_address" gorm:"type:text;not null"`
	TotalAmount     float64        `json:"total_amount" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Customer CustomerProfile `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items    []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem freezes product, owning farmer, quantity and unit price at checkout
// time, so later product price changes never affect existing orders.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	FarmerID  uuid.UUID `json:"farmer_id" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Price     float64   `json:"price" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Order   Order         `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Product Product       `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Farmer  FarmerProfile `json:"farmer,omitempty" gorm:"foreignKey:FarmerID"`
}
