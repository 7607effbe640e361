package services

import (
	"context"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductStore is the slice of product persistence the order core depends on.
// ReserveStock and ReleaseStock must be single atomic updates against the
// store; a read-then-write pair would lose updates under concurrent orders.
type ProductStore interface {
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)

	// ReserveStock decrements stock by qty iff at least qty is available.
	// Fails with KindInsufficientStock otherwise, KindNotFound if the
	// product does not exist.
	ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) error

	// ReleaseStock credits qty back. It has no upper bound check.
	ReleaseStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

// CartStore persists cart snapshots.
type CartStore interface {
	GetCartByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) error
	SetCartItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error
}

// OrderStore persists orders. InsertOrder fails with KindConflict when the
// order number collides with an existing one (unique index), so callers can
// regenerate and retry instead of pre-checking.
type OrderStore interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	SetOrderStatus(ctx context.Context, id primitive.ObjectID, status, paymentStatus string) error
	SetOrderPaymentStatus(ctx context.Context, id primitive.ObjectID, paymentStatus string) error
	DeleteOrder(ctx context.Context, id primitive.ObjectID) error
}

// PaymentStore persists payment records. InsertPayment fails with
// KindDuplicatePayment when a payment already exists for the order
// (unique index on order_id).
type PaymentStore interface {
	InsertPayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	SetPaymentStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

// Transactor runs fn atomically: either every write made through ctx is
// committed, or none are.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store is the full persistence surface of the order core.
type Store interface {
	ProductStore
	CartStore
	OrderStore
	PaymentStore
	Transactor
}
