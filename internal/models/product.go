// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description string `json:"description" gorm:"type:text"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	BaseModel
	FarmerID    uuid.UUID      `json:"farmer_id" gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID      `json:"category_id" gorm:"type:uuid;not null;index"`
	Name        string         `json:"name" gorm:"size:200;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int            `json:"stock" gorm:"default:0"`
	Image       string         `json:"image" gorm:"size:512"`
	ExtraImages pq.StringArray `json:"extra_images" gorm:"type:text[]"`
	IsAvailable bool           `json:"is_available" gorm:"default:true;index"`

	// Relationships
	Farmer   FarmerProfile   `json:"farmer,omitempty" gorm:"foreignKey:FarmerID"`
	Category Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Reviews  []ProductReview `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
}

func (p *Product) IsInStock() bool {
	return p.Stock > 0 && p.IsAvailable
}

type ProductReview struct {
	BaseModel
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_reviews_pair"`
	CustomerID uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_reviews_pair"`
	Rating     int       `json:"rating" gorm:"not null"`
	Review     string    `json:"review" gorm:"type:text"`

	// Relationships
	Product  Product         `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Customer CustomerProfile `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}
