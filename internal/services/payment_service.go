// internal/services/payment_service.go
package services

import (
	"fmt"
	"strings"

	"github.com/farmlink/market-backend/internal/config"
	"github.com/farmlink/market-backend/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"
)

type PaymentService struct {
	db     *gorm.DB
	config *config.Config
	orders *OrderService
}

func NewPaymentService(db *gorm.DB, config *config.Config, orders *OrderService) *PaymentService {
	stripe.Key = config.Payment.StripeSecretKey
	return &PaymentService{db: db, config: config, orders: orders}
}

type CardPaymentResponse struct {
	Order          *models.Order `json:"order"`
	ClientSecret   string        `json:"client_secret"`
	PublishableKey string        `json:"publishable_key"`
}

type MobileMoneyRequest struct {
	Provider    string `json:"provider" binding:"required,oneof=M-Pesa Airtel Tigo"`
	PhoneNumber string `json:"phone_number" binding:"required,phone"`
}

// CreateCardPayment opens a Stripe payment intent for a pending order and
// marks the payment as processing. The order stays pending until the intent
// is confirmed client-side and verified via ConfirmCardPayment.
func (s *PaymentService) CreateCardPayment(customerUserID uuid.UUID, orderNumber string) (*CardPaymentResponse, error) {
	order, err := s.orders.GetOrder(customerUserID, orderNumber)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order is not pending", ErrAccessDenied)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(order.TotalAmount * 100)),
		Currency: stripe.String(s.config.Payment.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_number", order.OrderNumber)
	params.AddMetadata("customer_id", order.CustomerID.String())

	intent, err := paymentintent.New(params)
	if err != nil {
		logrus.WithError(err).WithField("order_number", order.OrderNumber).Error("Failed to create payment intent")
		return nil, fmt.Errorf("%w: stripe payment intent", ErrExternalService)
	}

	updates := map[string]interface{}{
		"payment_status":    models.PaymentStatusProcessing,
		"payment_method":    "Credit Card",
		"payment_intent_id": intent.ID,
	}
	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	order.PaymentStatus = models.PaymentStatusProcessing
	order.PaymentMethod = "Credit Card"
	order.PaymentIntentID = intent.ID

	return &CardPaymentResponse{
		Order:          order,
		ClientSecret:   intent.ClientSecret,
		PublishableKey: s.config.Payment.StripePublishableKey,
	}, nil
}

// ConfirmCardPayment verifies the intent with Stripe and, if it succeeded,
// finalizes the order with payment completed.
func (s *PaymentService) ConfirmCardPayment(customerUserID uuid.UUID, orderNumber string) (*models.Order, error) {
	order, err := s.orders.GetOrder(customerUserID, orderNumber)
	if err != nil {
		return nil, err
	}
	if order.PaymentIntentID == "" {
		return nil, fmt.Errorf("%w: no payment intent for order", ErrAccessDenied)
	}

	intent, err := paymentintent.Get(order.PaymentIntentID, nil)
	if err != nil {
		logrus.WithError(err).WithField("order_number", order.OrderNumber).Error("Failed to retrieve payment intent")
		return nil, fmt.Errorf("%w: stripe payment intent", ErrExternalService)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("%w: payment not completed (status %s)", ErrAccessDenied, intent.Status)
	}

	if err := s.orders.Finalize(order, models.PaymentStatusCompleted); err != nil {
		return nil, err
	}
	return order, nil
}

// ProcessMobileMoney settles a mobile money payment synchronously: the
// provider call is assumed to complete within the request and the order is
// finalized with payment completed.
func (s *PaymentService) ProcessMobileMoney(customerUserID uuid.UUID, orderNumber string, req *MobileMoneyRequest) (*models.Order, error) {
	order, err := s.orders.GetOrder(customerUserID, orderNumber)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order is not pending", ErrAccessDenied)
	}

	method := fmt.Sprintf("Mobile Money (%s)", strings.ToUpper(req.Provider))
	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("payment_method", method).Error; err != nil {
		return nil, err
	}
	order.PaymentMethod = method

	if err := s.orders.Finalize(order, models.PaymentStatusCompleted); err != nil {
		return nil, err
	}
	return order, nil
}

// ProcessCashOnDelivery confirms the order immediately with payment left
// pending until handover.
func (s *PaymentService) ProcessCashOnDelivery(customerUserID uuid.UUID, orderNumber string) (*models.Order, error) {
	order, err := s.orders.GetOrder(customerUserID, orderNumber)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order is not pending", ErrAccessDenied)
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("payment_method", "Cash on Delivery").Error; err != nil {
		return nil, err
	}
	order.PaymentMethod = "Cash on Delivery"

	if err := s.orders.Finalize(order, models.PaymentStatusPending); err != nil {
		return nil, err
	}
	return order, nil
}
