package services

import (
	"context"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartService manages a user's pending selection. The cart never touches
// inventory; stock is only committed at order creation.
type CartService struct {
	carts    CartStore
	products ProductStore
}

// NewCartService creates a new CartService.
func NewCartService(carts CartStore, products ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get returns the user's cart, creating an empty one on first access.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.GetCartByUser(ctx, userID)
	if KindOf(err) == KindNotFound {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
		if err := s.carts.CreateCart(ctx, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}
	return cart, err
}

// AddItem merges qty of the product into the cart, appending a new line if
// the product is not there yet. The combined quantity is validated against
// current stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, Errorf(KindInvalidInput, "quantity must be at least 1")
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing := 0
	for _, item := range cart.Items {
		if item.ProductID == productID {
			existing = item.Quantity
			break
		}
	}
	if product.Stock < existing+qty {
		return nil, Errorf(KindInsufficientStock, "only %d units of %s are available", product.Stock, product.Name)
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: qty})
	}

	if err := s.carts.SetCartItems(ctx, cart.ID, cart.Items); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItem sets the quantity of an existing cart line, re-validating
// against current stock.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID primitive.ObjectID, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, Errorf(KindInvalidInput, "quantity must be at least 1")
	}

	cart, err := s.carts.GetCartByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, item := range cart.Items {
		if item.ProductID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, Errorf(KindNotFound, "item not found in cart")
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if qty > product.Stock {
		return nil, Errorf(KindInsufficientStock, "only %d units of %s are available", product.Stock, product.Name)
	}

	cart.Items[idx].Quantity = qty
	if err := s.carts.SetCartItems(ctx, cart.ID, cart.Items); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops the product's line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.GetCartByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	if err := s.carts.SetCartItems(ctx, cart.ID, cart.Items); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart. The cart document stays around.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	if err := s.carts.SetCartItems(ctx, cart.ID, cart.Items); err != nil {
		return nil, err
	}
	return cart, nil
}
