package services

import (
	"context"
	"time"

	"go-storefront/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentService records payments. An order's payment status is always a
// projection of its payment's most recent status change; orderPaymentFor is
// the only place that owns the mapping.
type PaymentService struct {
	payments PaymentStore
	orders   OrderStore
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(payments PaymentStore, orders OrderStore) *PaymentService {
	return &PaymentService{payments: payments, orders: orders}
}

// orderPaymentFor maps a payment status to the order payment status it
// projects. The second return is false when the order is left untouched.
func orderPaymentFor(paymentStatus string) (string, bool) {
	switch paymentStatus {
	case models.PaymentStatusSuccess:
		return models.OrderPaymentPaid, true
	case models.PaymentStatusFailed:
		return models.OrderPaymentUnpaid, true
	}
	return "", false
}

// Create records a payment for the order and marks the order Paid in the
// same logical operation. At most one payment may exist per order; the
// storage layer's unique index is the arbiter, not a pre-check.
func (s *PaymentService) Create(ctx context.Context, orderID primitive.ObjectID, method string, amount float64, transactionID string, actor *models.User) (*models.Payment, error) {
	if method == "" {
		return nil, Errorf(KindInvalidInput, "payment method is required")
	}
	if amount <= 0 {
		return nil, Errorf(KindInvalidInput, "amount must be positive")
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.ID {
		return nil, Errorf(KindForbidden, "you are not authorized to make payment for this order")
	}

	if transactionID == "" {
		transactionID = "TXN_" + uuid.NewString()
	}
	payment := &models.Payment{
		OrderID:       orderID,
		PaymentMethod: method,
		Status:        models.PaymentStatusSuccess,
		TransactionID: transactionID,
		Amount:        amount,
		CreatedAt:     time.Now(),
	}
	if err := s.payments.InsertPayment(ctx, payment); err != nil {
		return nil, err
	}

	projected, _ := orderPaymentFor(payment.Status)
	if err := s.orders.SetOrderPaymentStatus(ctx, orderID, projected); err != nil {
		return nil, err
	}
	return payment, nil
}

// Get returns the payment if the actor owns its order or is an admin.
func (s *PaymentService) Get(ctx context.Context, paymentID primitive.ObjectID, actor *models.User) (*models.Payment, error) {
	payment, err := s.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		order, err := s.orders.GetOrder(ctx, payment.OrderID)
		if err != nil {
			return nil, err
		}
		if order.UserID != actor.ID {
			return nil, Errorf(KindForbidden, "you are not authorized to view this payment")
		}
	}
	return payment, nil
}

// UpdateStatus sets the payment's status (admin only) and projects the
// change onto the order: Success marks it Paid, Failed marks it Unpaid,
// Pending leaves the order untouched.
func (s *PaymentService) UpdateStatus(ctx context.Context, paymentID primitive.ObjectID, status string, actor *models.User) (*models.Payment, error) {
	if !actor.IsAdmin() {
		return nil, Errorf(KindForbidden, "access denied: admin only")
	}
	if !models.ValidPaymentStatus(status) {
		return nil, Errorf(KindInvalidInput, "valid status (Success, Failed, or Pending) is required")
	}

	payment, err := s.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := s.payments.SetPaymentStatus(ctx, paymentID, status); err != nil {
		return nil, err
	}
	payment.Status = status

	if projected, ok := orderPaymentFor(status); ok {
		if err := s.orders.SetOrderPaymentStatus(ctx, payment.OrderID, projected); err != nil {
			return nil, err
		}
	}
	return payment, nil
}
