// internal/services/product_service.go
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

type ProductService struct {
	db            *gorm.DB
	config        *config.Config
	notifications *NotificationService
}

func NewProductService(db *gorm.DB, config *config.Config, notifications *NotificationService) *ProductService {
	return &ProductService{db: db, config: config, notifications: notifications}
}

type CreateProductRequest struct {
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Name        string    `json:"name" binding:"required,max=200"`
	Description string    `json:"description"`
	Price       float64   `json:"price" binding:"required,gt=0"`
	Stock       int       `json:"stock" binding:"gte=0"`
	Image       string    `json:"image"`
	ExtraImages []string  `json:"extra_images"`
}

type UpdateProductRequest struct {
	CategoryID  *uuid.UUID `json:"category_id"`
	Name        *string    `json:"name" binding:"omitempty,max=200"`
	Description *string    `json:"description"`
	Price       *float64   `json:"price" binding:"omitempty,gt=0"`
	Stock       *int       `json:"stock" binding:"omitempty,gte=0"`
	Image       *string    `json:"image"`
	IsAvailable *bool      `json:"is_available"`
}

type ProductSearchParams struct {
	Query      string
	CategoryID string
	FarmerID   string
	Location   string
	MinPrice   float64
	MaxPrice   float64
	InStock    bool
	Organic    bool
	SortBy     string
}

type ReviewProductRequest struct {
	Rating int    `json:"rating" binding:"required,gte=1,lte=5"`
	Review string `json:"review"`
}

type ProductDetail struct {
	Product         *models.Product  `json:"product"`
	AverageRating   float64          `json:"average_rating"`
	ReviewCount     int64            `json:"review_count"`
	RelatedProducts []models.Product `json:"related_products"`
}

type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitsSold int64     `json:"units_sold"`
	Revenue   float64   `json:"revenue"`
}

type FarmerDashboard struct {
	TotalProducts    int64              `json:"total_products"`
	ActiveProducts   int64              `json:"active_products"`
	OutOfStock       int64              `json:"out_of_stock"`
	TotalOrders      int64              `json:"total_orders"`
	TotalCustomers   int64              `json:"total_customers"`
	UnitsSold        int64              `json:"units_sold"`
	TotalRevenue     float64            `json:"total_revenue"`
	FollowerCount    int64              `json:"follower_count"`
	AverageRating    float64            `json:"average_rating"`
	UnreadMessages   int64              `json:"unread_messages"`
	TopProducts      []TopProduct       `json:"top_products"`
	RecentOrderItems []models.OrderItem `json:"recent_order_items"`
}

// ListCategories returns all categories ordered by name.
func (s *ProductService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

// CreateProduct creates a product owned by the farmer and notifies the
// farm's followers.
func (s *ProductService) CreateProduct(farmerUserID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	farmer, err := s.farmerProfileFor(farmerUserID)
	if err != nil {
		return nil, err
	}

	var category models.Category
	if err := s.db.First(&category, "id = ?", req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	product := models.Product{
		FarmerID:    farmer.ID,
		CategoryID:  category.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
		ExtraImages: req.ExtraImages,
		IsAvailable: true,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.notifyFollowers(farmer, models.NotificationTypeNewProduct,
		"New product from "+farmer.FarmName,
		fmt.Sprintf("%s listed a new product: %s", farmer.FarmName, product.Name))

	return &product, nil
}

// UpdateProduct applies partial updates. Only the owning farmer may update.
func (s *ProductService) UpdateProduct(farmerUserID, productID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.ownedProduct(farmerUserID, productID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.CategoryID != nil {
		var category models.Category
		if err := s.db.First(&category, "id = ?", *req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	if len(updates) > 0 {
		if err := s.db.Model(product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return product, nil
}

// DeleteProduct soft-deletes a product. Only the owning farmer may delete.
func (s *ProductService) DeleteProduct(farmerUserID, productID uuid.UUID) error {
	product, err := s.ownedProduct(farmerUserID, productID)
	if err != nil {
		return err
	}
	return s.db.Delete(product).Error
}

// ToggleAvailability flips the is_available flag on an owned product.
func (s *ProductService) ToggleAvailability(farmerUserID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.ownedProduct(farmerUserID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(product).Update("is_available", !product.IsAvailable).Error; err != nil {
		return nil, err
	}
	product.IsAvailable = !product.IsAvailable
	return product, nil
}

// SearchProducts filters the public catalog. Unavailable products are never
// listed.
func (s *ProductService) SearchProducts(params ProductSearchParams, page utils.PaginationParams) (utils.PaginationResult, error) {
	var products []models.Product
	query := s.db.Model(&models.Product{}).
		Preload("Category").
		Preload("Farmer").
		Preload("Farmer.User").
		Where("is_available = ?", true)

	if params.Query != "" {
		like := "%" + params.Query + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	if params.CategoryID != "" {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.FarmerID != "" {
		query = query.Where("farmer_id = ?", params.FarmerID)
	}
	if params.Location != "" {
		query = query.Joins("JOIN farmer_profiles ON farmer_profiles.id = products.farmer_id").
			Where("farmer_profiles.farm_location ILIKE ?", "%"+params.Location+"%")
	}
	if params.Organic {
		query = query.Joins("JOIN farmer_profiles fp ON fp.id = products.farmer_id").
			Where("fp.farming_methods ILIKE ?", "%organic%")
	}
	if params.MinPrice > 0 {
		query = query.Where("price >= ?", params.MinPrice)
	}
	if params.MaxPrice > 0 {
		query = query.Where("price <= ?", params.MaxPrice)
	}
	if params.InStock {
		query = query.Where("stock > 0")
	}

	switch params.SortBy {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	case "name":
		query = query.Order("name ASC")
	default:
		query = query.Order("created_at DESC")
	}

	return utils.Paginate(query, page, &products)
}

// QuickSearch returns at most 10 name matches for typeahead.
func (s *ProductService) QuickSearch(term string) ([]models.Product, error) {
	var products []models.Product
	if term == "" {
		return products, nil
	}
	err := s.db.Where("is_available = ? AND name ILIKE ?", true, "%"+term+"%").
		Limit(10).
		Find(&products).Error
	return products, err
}

// GetProduct returns the product detail view: the product, its recomputed
// rating average, and up to 4 related products from the same category.
func (s *ProductService) GetProduct(productID uuid.UUID) (*ProductDetail, error) {
	var product models.Product
	err := s.db.Preload("Category").
		Preload("Farmer").
		Preload("Farmer.User").
		Preload("Reviews").
		Preload("Reviews.Customer.User").
		First(&product, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	detail := &ProductDetail{Product: &product}

	row := s.db.Model(&models.ProductReview{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Row()
	if err := row.Scan(&detail.AverageRating, &detail.ReviewCount); err != nil {
		return nil, err
	}

	err = s.db.Where("category_id = ? AND id != ? AND is_available = ?", product.CategoryID, product.ID, true).
		Limit(4).
		Find(&detail.RelatedProducts).Error
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// ListFarmerProducts returns a farmer's own products including unavailable
// ones.
func (s *ProductService) ListFarmerProducts(farmerUserID uuid.UUID, params utils.PaginationParams) (utils.PaginationResult, error) {
	farmer, err := s.farmerProfileFor(farmerUserID)
	if err != nil {
		return utils.PaginationResult{}, err
	}

	var products []models.Product
	query := s.db.Model(&models.Product{}).
		Preload("Category").
		Where("farmer_id = ?", farmer.ID).
		Order("created_at DESC")
	return utils.Paginate(query, params, &products)
}

// ReviewProduct creates or updates the customer's review. One row per
// customer/product pair; a repeat review overwrites the previous one.
func (s *ProductService) ReviewProduct(customerUserID, productID uuid.UUID, req *ReviewProductRequest) (*models.ProductReview, error) {
	var customer models.CustomerProfile
	if err := s.db.Where("user_id = ?", customerUserID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}

	var product models.Product
	if err := s.db.Preload("Farmer").First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var review models.ProductReview
	err := s.db.Where("product_id = ? AND customer_id = ?", product.ID, customer.ID).First(&review).Error
	created := false
	switch {
	case err == nil:
		review.Rating = req.Rating
		review.Review = req.Review
		if err := s.db.Save(&review).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		review = models.ProductReview{
			ProductID:  product.ID,
			CustomerID: customer.ID,
			Rating:     req.Rating,
			Review:     req.Review,
		}
		if err := s.db.Create(&review).Error; err != nil {
			return nil, err
		}
		created = true
	default:
		return nil, err
	}

	if created {
		s.notifications.Notify(product.Farmer.UserID, models.NotificationTypeNewReview,
			"New product review",
			fmt.Sprintf("Your product %s received a %d-star review", product.Name, req.Rating))
	}

	return &review, nil
}

// GetDashboard assembles farmer-facing stats: catalog counts, sales and
// customer totals, top products, followers, rating average and unread
// message count.
func (s *ProductService) GetDashboard(farmerUserID uuid.UUID) (*FarmerDashboard, error) {
	farmer, err := s.farmerProfileFor(farmerUserID)
	if err != nil {
		return nil, err
	}

	dashboard := &FarmerDashboard{}

	s.db.Model(&models.Product{}).Where("farmer_id = ?", farmer.ID).Count(&dashboard.TotalProducts)
	s.db.Model(&models.Product{}).Where("farmer_id = ? AND is_available = ?", farmer.ID, true).Count(&dashboard.ActiveProducts)
	s.db.Model(&models.Product{}).Where("farmer_id = ? AND stock = 0", farmer.ID).Count(&dashboard.OutOfStock)

	s.db.Model(&models.OrderItem{}).
		Where("farmer_id = ?", farmer.ID).
		Distinct("order_id").
		Count(&dashboard.TotalOrders)

	s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.farmer_id = ?", farmer.ID).
		Distinct("orders.customer_id").
		Count(&dashboard.TotalCustomers)

	unitsRow := s.db.Model(&models.OrderItem{}).
		Where("farmer_id = ?", farmer.ID).
		Select("COALESCE(SUM(quantity), 0)").
		Row()
	if err := unitsRow.Scan(&dashboard.UnitsSold); err != nil {
		return nil, err
	}

	row := s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.farmer_id = ? AND orders.status = ?", farmer.ID, models.OrderStatusConfirmed).
		Select("COALESCE(SUM(order_items.price * order_items.quantity), 0)").
		Row()
	if err := row.Scan(&dashboard.TotalRevenue); err != nil {
		return nil, err
	}

	s.db.Table("farmer_followers").Where("farmer_profile_id = ?", farmer.ID).Count(&dashboard.FollowerCount)

	ratingRow := s.db.Model(&models.FarmerRating{}).
		Where("farmer_id = ?", farmer.ID).
		Select("COALESCE(AVG(rating), 0)").
		Row()
	if err := ratingRow.Scan(&dashboard.AverageRating); err != nil {
		return nil, err
	}

	s.db.Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.farmer_id = ? AND messages.sender_id != ? AND messages.is_read = ?",
			farmer.ID, farmerUserID, false).
		Count(&dashboard.UnreadMessages)

	err = s.db.Model(&models.OrderItem{}).
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.farmer_id = ?", farmer.ID).
		Select("order_items.product_id AS product_id, products.name AS name, " +
			"SUM(order_items.quantity) AS units_sold, " +
			"SUM(order_items.price * order_items.quantity) AS revenue").
		Group("order_items.product_id, products.name").
		Order("units_sold DESC").
		Limit(5).
		Scan(&dashboard.TopProducts).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Preload("Product").
		Where("farmer_id = ?", farmer.ID).
		Order("created_at DESC").
		Limit(10).
		Find(&dashboard.RecentOrderItems).Error
	if err != nil {
		return nil, err
	}

	return dashboard, nil
}

func (s *ProductService) ownedProduct(farmerUserID, productID uuid.UUID) (*models.Product, error) {
	farmer, err := s.farmerProfileFor(farmerUserID)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if product.FarmerID != farmer.ID {
		return nil, ErrAccessDenied
	}
	return &product, nil
}

func (s *ProductService) farmerProfileFor(userID uuid.UUID) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}
	return &profile, nil
}

func (s *ProductService) notifyFollowers(farmer *models.FarmerProfile, notifType models.NotificationType, title, message string) {
	var followerIDs []uuid.UUID
	err := s.db.Table("farmer_followers").
		Joins("JOIN customer_profiles ON customer_profiles.id = farmer_followers.customer_profile_id").
		Where("farmer_followers.farmer_profile_id = ?", farmer.ID).
		Pluck("customer_profiles.user_id", &followerIDs).Error
	if err != nil {
		return
	}
	s.notifications.NotifyMany(followerIDs, notifType, title, message)
}
