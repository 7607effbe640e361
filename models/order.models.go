package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle statuses
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// Order payment statuses
const (
	OrderPaymentPending  = "Pending"
	OrderPaymentPaid     = "Paid"
	OrderPaymentRefunded = "Refunded"
	OrderPaymentUnpaid   = "Unpaid"
)

// ValidOrderStatus reports whether s is one of the five order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidOrderPaymentStatus reports whether s is one of the order payment statuses.
func ValidOrderPaymentStatus(s string) bool {
	switch s {
	case OrderPaymentPending, OrderPaymentPaid, OrderPaymentRefunded, OrderPaymentUnpaid:
		return true
	}
	return false
}

// OrderLine is a snapshot of a product captured at order creation time.
// Name and Price are copies, immune to later product edits.
type OrderLine struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
}

// Order represents a user's order
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderNumber     string             `bson:"order_number" json:"order_number"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Products        []OrderLine        `bson:"products" json:"products"`
	ShippingAddress Address            `bson:"shipping_address" json:"shipping_address"`
	TotalPrice      float64            `bson:"total_price" json:"total_price"`
	Status          string             `bson:"status" json:"status"`
	PaymentStatus   string             `bson:"payment_status" json:"payment_status"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
