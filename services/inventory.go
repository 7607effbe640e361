package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryService owns per-product available stock. Every decrement made for
// an order must be matched by exactly one credit if and only if that order's
// reservation is later released.
type InventoryService struct {
	products ProductStore
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(products ProductStore) *InventoryService {
	return &InventoryService{products: products}
}

// Reserve commits qty units of the product to an order. The decrement is a
// single conditional update, so two concurrent reservations can never both
// pass the availability check and oversell.
func (s *InventoryService) Reserve(ctx context.Context, productID primitive.ObjectID, qty int) error {
	if qty < 1 {
		return Errorf(KindInvalidInput, "quantity must be at least 1")
	}
	err := s.products.ReserveStock(ctx, productID, qty)
	if KindOf(err) == KindInsufficientStock {
		// Re-read for the product name; stock failures must name the product.
		if p, perr := s.products.GetProduct(ctx, productID); perr == nil {
			return Errorf(KindInsufficientStock, "only %d units of %s are available", p.Stock, p.Name)
		}
	}
	return err
}

// Release credits qty units back after a cancellation or deletion.
func (s *InventoryService) Release(ctx context.Context, productID primitive.ObjectID, qty int) error {
	if qty < 1 {
		return Errorf(KindInvalidInput, "quantity must be at least 1")
	}
	return s.products.ReleaseStock(ctx, productID, qty)
}
