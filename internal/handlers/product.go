// internal/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/farmlink/market-backend/internal/i18n"
	"github.com/farmlink/market-backend/internal/services"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{productService: productService, storageService: storageService}
}

// ListCategories handles GET /v1/categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories()
	if err != nil {
		handleServiceError(c, err, i18n.KeyCategoryNotFound)
		return
	}
	utils.SuccessResponse(c, categories)
}

// SearchProducts handles GET /v1/products
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	minPrice, _ := strconv.ParseFloat(c.Query("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)

	params := services.ProductSearchParams{
		Query:      c.Query("q"),
		CategoryID: c.Query("category_id"),
		FarmerID:   c.Query("farmer_id"),
		Location:   c.Query("location"),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		InStock:    c.Query("in_stock") == "true",
		Organic:    c.Query("organic") == "true",
		SortBy:     c.Query("sort"),
	}

	result, err := h.productService.SearchProducts(params, utils.GetPaginationParams(c))
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.PaginatedResponse(c, result)
}

// QuickSearch handles GET /v1/products/search
func (h *ProductHandler) QuickSearch(c *gin.Context) {
	products, err := h.productService.QuickSearch(c.Query("q"))
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.SuccessResponse(c, products)
}

// GetProduct handles GET /v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.productService.GetProduct(productID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.SuccessResponse(c, detail)
}

// CreateProduct handles POST /v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(userID, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyCategoryNotFound)
		return
	}
	utils.CreatedResponse(c, product)
}

// UpdateProduct handles PUT /v1/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(userID, productID, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.SuccessResponse(c, product)
}

// DeleteProduct handles DELETE /v1/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(userID, productID); err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyProductDeleted)})
}

// ToggleAvailability handles POST /v1/products/:id/toggle
func (h *ProductHandler) ToggleAvailability(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.ToggleAvailability(userID, productID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.SuccessResponse(c, product)
}

// UploadProductImage handles POST /v1/products/images
func (h *ProductHandler) UploadProductImage(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "image"), nil)
		return
	}

	url, err := h.storageService.UploadImage(file, services.FolderProducts)
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.SuccessResponse(c, gin.H{"url": url})
}

// ListMyProducts handles GET /v1/farmers/products
func (h *ProductHandler) ListMyProducts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.productService.ListFarmerProducts(userID, utils.GetPaginationParams(c))
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}
	utils.PaginatedResponse(c, result)
}

// ReviewProduct handles POST /v1/products/:id/reviews
func (h *ProductHandler) ReviewProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ReviewProductRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.productService.ReviewProduct(userID, productID, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"review":  review,
		"message": i18n.T(lang, i18n.KeyReviewSaved),
	})
}

// GetDashboard handles GET /v1/farmers/dashboard
func (h *ProductHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.productService.GetDashboard(userID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyFarmerNotFound)
		return
	}
	utils.SuccessResponse(c, dashboard)
}
