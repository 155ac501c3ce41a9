// internal/services/errors.go
package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to HTTP
// status codes with errors.Is.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyMessage      = errors.New("message content is empty")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrDuplicate         = errors.New("resource already exists")
	ErrExternalService   = errors.New("external service error")
)
