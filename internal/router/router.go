// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/farmlink/market-backend/internal/config"
	"github.com/farmlink/market-backend/internal/handlers"
	"github.com/farmlink/market-backend/internal/middleware"
	"github.com/farmlink/market-backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires services, handlers and middleware into the gin engine.
func Setup(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Services
	notificationService := services.NewNotificationService(db, cfg)
	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db, cfg, notificationService)
	productService := services.NewProductService(db, cfg, notificationService)
	cartService := services.NewCartService(db, cfg)
	orderService := services.NewOrderService(db, cfg)
	paymentService := services.NewPaymentService(db, cfg, orderService)
	messagingService := services.NewMessagingService(db, cfg, notificationService)

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, storageService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	messagingHandler := handlers.NewMessagingHandler(messagingService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.I18n(cfg.I18n.DefaultLocale))
	r.Use(middleware.GeneralRateLimit())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})

	v1 := r.Group("/v1")

	// Public auth endpoints, separately rate limited
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimit())
	{
		auth.POST("/register/customer", authHandler.RegisterCustomer)
		auth.POST("/register/farmer", authHandler.RegisterFarmer)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}
	v1.GET("/auth/me", middleware.AuthRequired(cfg), authHandler.Me)

	// Public catalog
	v1.GET("/categories", productHandler.ListCategories)
	v1.GET("/products", productHandler.SearchProducts)
	v1.GET("/products/search", productHandler.QuickSearch)
	v1.GET("/products/:id", productHandler.GetProduct)
	v1.GET("/farmers", userHandler.ListFarmers)
	v1.GET("/farmers/:id", middleware.OptionalAuth(cfg), userHandler.GetFarmer)

	// Any authenticated user
	authed := v1.Group("")
	authed.Use(middleware.AuthRequired(cfg), middleware.AuditLog(db))
	{
		authed.GET("/users/profile", userHandler.GetProfile)
		authed.PUT("/users/profile", userHandler.UpdateProfile)
		authed.POST("/users/profile/picture", middleware.UploadRateLimit(), userHandler.UploadProfilePicture)

		authed.GET("/conversations", messagingHandler.ListConversations)
		authed.GET("/conversations/:id", messagingHandler.GetConversation)
		authed.POST("/conversations/:id/messages", messagingHandler.SendMessage)

		authed.GET("/notifications", notificationHandler.List)
		authed.GET("/notifications/unread", notificationHandler.UnreadCount)
		authed.POST("/notifications/:id/read", notificationHandler.MarkRead)
		authed.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	}

	// Customer endpoints
	customer := v1.Group("")
	customer.Use(middleware.AuthRequired(cfg), middleware.CustomerRequired(), middleware.AuditLog(db))
	{
		customer.GET("/cart", cartHandler.GetCart)
		customer.DELETE("/cart", cartHandler.ClearCart)
		customer.POST("/cart/items", cartHandler.AddItem)
		customer.PUT("/cart/items/:id", cartHandler.UpdateItem)
		customer.DELETE("/cart/items/:id", cartHandler.RemoveItem)

		customer.POST("/orders/checkout", orderHandler.Checkout)
		customer.GET("/orders", orderHandler.ListOrders)
		customer.GET("/orders/:number", orderHandler.GetOrder)

		customer.POST("/orders/:number/payments/card", paymentHandler.CreateCardPayment)
		customer.POST("/orders/:number/payments/card/confirm", paymentHandler.ConfirmCardPayment)
		customer.POST("/orders/:number/payments/mobile", paymentHandler.MobileMoneyPayment)
		customer.POST("/orders/:number/payments/cod", paymentHandler.CashOnDelivery)

		customer.POST("/farmers/:id/follow", userHandler.FollowFarmer)
		customer.POST("/farmers/:id/rate", userHandler.RateFarmer)
		customer.POST("/products/:id/reviews", productHandler.ReviewProduct)
		customer.POST("/conversations", messagingHandler.StartConversation)
	}

	// Farmer endpoints
	farmer := v1.Group("")
	farmer.Use(middleware.AuthRequired(cfg), middleware.FarmerRequired(), middleware.AuditLog(db))
	{
		farmer.POST("/products", productHandler.CreateProduct)
		farmer.PUT("/products/:id", productHandler.UpdateProduct)
		farmer.DELETE("/products/:id", productHandler.DeleteProduct)
		farmer.POST("/products/:id/toggle", productHandler.ToggleAvailability)
		farmer.POST("/products/images", middleware.UploadRateLimit(), productHandler.UploadProductImage)

		farmer.GET("/farmers/products", productHandler.ListMyProducts)
		farmer.GET("/farmers/dashboard", productHandler.GetDashboard)
		farmer.POST("/farmers/verification/document", middleware.UploadRateLimit(), userHandler.UploadVerificationDocument)
	}

	// Staff endpoints
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthRequired(cfg), middleware.StaffRequired(), middleware.AuditLog(db))
	{
		admin.GET("/users", userHandler.ListUsers)
		admin.POST("/farmers/:id/verify", userHandler.VerifyFarmer)
	}

	return r, nil
}
