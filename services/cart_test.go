package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestCart() (*CartService, *memStore) {
	store := newMemStore()
	return NewCartService(store, store), store
}

func TestCartGetCreatesLazily(t *testing.T) {
	carts, _ := newTestCart()
	userID := primitive.NewObjectID()

	cart, err := carts.Get(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, userID, cart.UserID)
	assert.Empty(t, cart.Items)

	// Second access returns the same cart, not another one.
	again, err := carts.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartAddItemAppendsAndMerges(t *testing.T) {
	carts, store := newTestCart()
	userID := primitive.NewObjectID()
	productID := store.addProduct("Cream", 12.00, 10)

	cart, err := carts.AddItem(context.Background(), userID, productID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	cart, err = carts.AddItem(context.Background(), userID, productID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "same product merges into one line")
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartAddItemValidatesCombinedQuantity(t *testing.T) {
	carts, store := newTestCart()
	userID := primitive.NewObjectID()
	productID := store.addProduct("Cream", 12.00, 5)

	_, err := carts.AddItem(context.Background(), userID, productID, 4)
	require.NoError(t, err)

	// 4 already in the cart; 2 more would exceed stock 5.
	_, err = carts.AddItem(context.Background(), userID, productID, 2)
	assert.Equal(t, KindInsufficientStock, KindOf(err))
	assert.Contains(t, err.Error(), "Cream")
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	carts, _ := newTestCart()

	_, err := carts.AddItem(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 1)

	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCartAddItemQuantityValidation(t *testing.T) {
	carts, store := newTestCart()
	productID := store.addProduct("Cream", 12.00, 5)

	_, err := carts.AddItem(context.Background(), primitive.NewObjectID(), productID, 0)

	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestCartUpdateItemRevalidatesStock(t *testing.T) {
	carts, store := newTestCart()
	userID := primitive.NewObjectID()
	productID := store.addProduct("Cream", 12.00, 5)

	_, err := carts.AddItem(context.Background(), userID, productID, 2)
	require.NoError(t, err)

	cart, err := carts.UpdateItem(context.Background(), userID, productID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	_, err = carts.UpdateItem(context.Background(), userID, productID, 6)
	assert.Equal(t, KindInsufficientStock, KindOf(err))
}

func TestCartUpdateItemNotInCart(t *testing.T) {
	carts, store := newTestCart()
	userID := primitive.NewObjectID()
	inCart := store.addProduct("Cream", 12.00, 5)
	notInCart := store.addProduct("Soap", 3.00, 5)

	_, err := carts.AddItem(context.Background(), userID, inCart, 1)
	require.NoError(t, err)

	_, err = carts.UpdateItem(context.Background(), userID, notInCart, 2)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCartRemoveItem(t *testing.T) {
	carts, store := newTestCart()
	userID := primitive.NewObjectID()
	first := store.addProduct("Cream", 12.00, 5)
	second := store.addProduct("Soap", 3.00, 5)

	_, err := carts.AddItem(context.Background(), userID, first, 1)
	require.NoError(t, err)
	_, err = carts.AddItem(context.Background(), userID, second, 1)
	require.NoError(t, err)

	cart, err := carts.RemoveItem(context.Background(), userID, first)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, second, cart.Items[0].ProductID)
}

func TestCartClearKeepsCart(t *testing.T) {
	carts, store := newTestCart()
	userID := primitive.NewObjectID()
	productID := store.addProduct("Cream", 12.00, 5)

	before, err := carts.AddItem(context.Background(), userID, productID, 2)
	require.NoError(t, err)

	cart, err := carts.Clear(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, before.ID, cart.ID, "clearing empties the cart, it does not delete it")
	assert.Empty(t, cart.Items)
}

func TestCartNeverTouchesInventory(t *testing.T) {
	carts, store := newTestCart()
	userID := primitive.NewObjectID()
	productID := store.addProduct("Cream", 12.00, 5)

	_, err := carts.AddItem(context.Background(), userID, productID, 3)
	require.NoError(t, err)
	_, err = carts.UpdateItem(context.Background(), userID, productID, 5)
	require.NoError(t, err)
	_, err = carts.Clear(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 5, store.stockOf(productID))
}
