package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// How many order numbers to try before giving up on a collision streak.
const orderNumberAttempts = 5

// OrderService owns the order lifecycle. It is the only place that triggers
// stock reservation and restoration.
type OrderService struct {
	store     Store
	inventory *InventoryService
}

// NewOrderService creates a new OrderService.
func NewOrderService(store Store, inventory *InventoryService) *OrderService {
	return &OrderService{store: store, inventory: inventory}
}

// newOrderNumber draws a 5-digit human-facing order number. Uniqueness is
// enforced by the storage layer's unique index, not here.
func newOrderNumber() string {
	return fmt.Sprintf("%d", 10000+rand.IntN(90000))
}

// Create turns the user's cart into an order. Every line item is reserved
// from inventory, the order is inserted and the cart cleared, all inside one
// transaction: if any reservation fails, nothing is committed.
//
// A collision on the order number's unique index aborts the server-side
// transaction, so the retry re-runs the whole creation with a fresh number
// rather than re-inserting on a dead session.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, shipping models.Address) (*models.Order, error) {
	if shipping == (models.Address{}) {
		return nil, Errorf(KindInvalidInput, "shipping address is required")
	}

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order, err := s.createWithNumber(ctx, userID, shipping, newOrderNumber())
		if KindOf(err) == KindConflict {
			continue
		}
		return order, err
	}
	return nil, Errorf(KindConflict, "could not allocate an order number, please try again")
}

func (s *OrderService) createWithNumber(ctx context.Context, userID primitive.ObjectID, shipping models.Address, orderNumber string) (*models.Order, error) {
	var order *models.Order
	create := func(ctx context.Context) error {
		cart, err := s.store.GetCartByUser(ctx, userID)
		if KindOf(err) == KindNotFound || (err == nil && len(cart.Items) == 0) {
			return Errorf(KindInvalidInput, "your cart is empty")
		}
		if err != nil {
			return err
		}

		lines := make([]models.OrderLine, 0, len(cart.Items))
		total := 0.0
		for _, item := range cart.Items {
			product, err := s.store.GetProduct(ctx, item.ProductID)
			if KindOf(err) == KindNotFound {
				return Errorf(KindNotFound, "one of the products in your cart is no longer available")
			}
			if err != nil {
				return err
			}
			if err := s.inventory.Reserve(ctx, product.ID, item.Quantity); err != nil {
				return err
			}
			lines = append(lines, models.OrderLine{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
			total += product.Price * float64(item.Quantity)
		}

		now := time.Now()
		order = &models.Order{
			UserID:          userID,
			OrderNumber:     orderNumber,
			Products:        lines,
			ShippingAddress: shipping,
			TotalPrice:      total,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.OrderPaymentPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.store.InsertOrder(ctx, order); err != nil {
			return err
		}

		return s.store.SetCartItems(ctx, cart.ID, []models.CartItem{})
	}

	if err := s.store.WithTransaction(ctx, create); err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns the order if the actor owns it or is an admin.
func (s *OrderService) Get(ctx context.Context, orderID primitive.ObjectID, actor *models.User) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.ID {
		return nil, Errorf(KindForbidden, "you can only view your own orders")
	}
	return order, nil
}

// UpdateStatus sets the order's status and/or payment status (admin only).
// Empty arguments leave the corresponding field untouched. Inventory is
// credited back when the order moves into Cancelled, keyed off the status
// read at the start so an already-cancelled order is never re-credited.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status, paymentStatus string, actor *models.User) (*models.Order, error) {
	if !actor.IsAdmin() {
		return nil, Errorf(KindForbidden, "access denied: admin only")
	}
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, Errorf(KindInvalidInput, "invalid status value")
	}
	if paymentStatus != "" && !models.ValidOrderPaymentStatus(paymentStatus) {
		return nil, Errorf(KindInvalidInput, "invalid payment status value")
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	previousStatus := order.Status

	if status != "" {
		order.Status = status
	}
	if paymentStatus != "" {
		order.PaymentStatus = paymentStatus
	}

	update := func(ctx context.Context) error {
		if err := s.store.SetOrderStatus(ctx, orderID, order.Status, order.PaymentStatus); err != nil {
			return err
		}
		if order.Status == models.OrderStatusCancelled && previousStatus != models.OrderStatusCancelled {
			return s.releaseLines(ctx, order)
		}
		return nil
	}
	if err := s.store.WithTransaction(ctx, update); err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel is the user-initiated cancellation. Only the order's owner may
// cancel, and only while the order is still Pending.
func (s *OrderService) Cancel(ctx context.Context, orderID primitive.ObjectID, actor *models.User) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.ID {
		return nil, Errorf(KindForbidden, "you can only cancel your own orders")
	}
	if order.Status != models.OrderStatusPending {
		return nil, Errorf(KindInvalidTransition, "only pending orders can be cancelled")
	}

	order.Status = models.OrderStatusCancelled
	cancel := func(ctx context.Context) error {
		if err := s.store.SetOrderStatus(ctx, orderID, order.Status, order.PaymentStatus); err != nil {
			return err
		}
		return s.releaseLines(ctx, order)
	}
	if err := s.store.WithTransaction(ctx, cancel); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes the order record (admin only), crediting inventory back
// first unless the order was already cancelled.
func (s *OrderService) Delete(ctx context.Context, orderID primitive.ObjectID, actor *models.User) error {
	if !actor.IsAdmin() {
		return Errorf(KindForbidden, "access denied: admin only")
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	remove := func(ctx context.Context) error {
		if order.Status != models.OrderStatusCancelled {
			if err := s.releaseLines(ctx, order); err != nil {
				return err
			}
		}
		return s.store.DeleteOrder(ctx, orderID)
	}
	return s.store.WithTransaction(ctx, remove)
}

func (s *OrderService) releaseLines(ctx context.Context, order *models.Order) error {
	for _, line := range order.Products {
		if err := s.inventory.Release(ctx, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}
