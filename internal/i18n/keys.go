// internal/i18n/keys.go
package i18n

// Translation keys used across handlers and middleware.
const (
	// Auth
	KeyAuthRequired       = "auth.required"
	KeyAuthInvalidToken   = "auth.invalid_token"
	KeyAuthExpiredToken   = "auth.expired_token"
	KeyAuthInvalidLogin   = "auth.invalid_login"
	KeyAuthUsernameTaken  = "auth.username_taken"
	KeyAuthEmailTaken     = "auth.email_taken"
	KeyAuthRegistered     = "auth.registered"
	KeyAccessDenied       = "auth.access_denied"
	KeyCustomerOnly       = "auth.customer_only"
	KeyFarmerOnly         = "auth.farmer_only"
	KeyStaffOnly          = "auth.staff_only"

	// User
	KeyUserNotFound      = "user.not_found"
	KeyFarmerNotFound    = "user.farmer_not_found"
	KeyProfileUpdated    = "user.profile_updated"
	KeyFarmerVerified    = "user.farmer_verified"
	KeyFollowAdded       = "user.follow_added"
	KeyFollowRemoved     = "user.follow_removed"
	KeyRatingSaved       = "user.rating_saved"

	// Product
	KeyProductNotFound    = "product.not_found"
	KeyCategoryNotFound   = "product.category_not_found"
	KeyProductCreated     = "product.created"
	KeyProductUpdated     = "product.updated"
	KeyProductDeleted     = "product.deleted"
	KeyReviewSaved        = "product.review_saved"

	// Cart
	KeyCartItemAdded      = "cart.item_added"
	KeyCartItemUpdated    = "cart.item_updated"
	KeyCartItemRemoved    = "cart.item_removed"
	KeyCartItemNotFound   = "cart.item_not_found"
	KeyCartEmpty          = "cart.empty"
	KeyInsufficientStock  = "cart.insufficient_stock"

	// Order & payment
	KeyOrderNotFound      = "order.not_found"
	KeyOrderCreated       = "order.created"
	KeyPaymentFailed      = "payment.failed"
	KeyPaymentCompleted   = "payment.completed"
	KeyPaymentPending     = "payment.pending"

	// Messaging & notifications
	KeyConversationNotFound = "message.conversation_not_found"
	KeyMessageEmpty         = "message.empty"
	KeyMessageSent          = "message.sent"
	KeyNotificationNotFound = "notification.not_found"

	// Validation & files
	KeyValidationInvalid = "validation.invalid"
	KeyFileTooLarge      = "file.too_large"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileUploadFailed  = "file.upload_failed"
)
