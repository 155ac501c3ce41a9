// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	phoneRegex    = regexp.MustCompile(`^\+?1?\d{9,15}$`)
)

// RegisterCustomValidators wires the domain validators into gin's binding
// engine. Call once at startup.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("username", validateUsername)
		v.RegisterValidation("strong_password", validateStrongPassword)
		v.RegisterValidation("phone", validatePhone)
	}
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

func validatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true
	}
	return phoneRegex.MatchString(phone)
}

// FormatValidationErrors turns validator errors into the API error shape.
func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Field: "request", Message: err.Error()}}
	}

	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field())
		var message string
		switch fieldErr.Tag() {
		case "required":
			message = field + " is required"
		case "email":
			message = field + " must be a valid email address"
		case "min":
			message = field + " must be at least " + fieldErr.Param() + " characters"
		case "max":
			message = field + " must be at most " + fieldErr.Param() + " characters"
		case "username":
			message = field + " must be 3-30 characters of letters, digits or underscore"
		case "strong_password":
			message = field + " must be at least 8 characters with upper, lower and digit"
		case "phone":
			message = field + " must be a valid phone number"
		case "oneof":
			message = field + " must be one of: " + fieldErr.Param()
		case "gt":
			message = field + " must be greater than " + fieldErr.Param()
		case "gte":
			message = field + " must be at least " + fieldErr.Param()
		default:
			message = field + " is invalid"
		}
		errors = append(errors, ValidationError{Field: field, Message: message})
	}

	return errors
}
