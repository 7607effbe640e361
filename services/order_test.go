package services

import (
	"context"
	"sync"
	"testing"

	"go-storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testAddress = models.Address{Street: "1 Main St", City: "Lagos", State: "LA", ZipCode: "100001"}

func newTestOrders() (*OrderService, *memStore) {
	store := newMemStore()
	return NewOrderService(store, NewInventoryService(store)), store
}

func adminUser() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Role: "admin"}
}

func regularUser() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Role: "user"}
}

func TestOrderCreateSnapshotsCart(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	cream := store.addProduct("Cream", 10.00, 10)
	soap := store.addProduct("Soap", 5.00, 10)
	store.seedCart(user.ID,
		models.CartItem{ProductID: cream, Quantity: 2},
		models.CartItem{ProductID: soap, Quantity: 1},
	)

	order, err := orders.Create(context.Background(), user.ID, testAddress)

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.OrderPaymentPending, order.PaymentStatus)
	assert.Len(t, order.OrderNumber, 5)
	assert.Equal(t, 25.00, order.TotalPrice)
	require.Len(t, order.Products, 2)
	assert.Equal(t, "Cream", order.Products[0].Name)
	assert.Equal(t, 10.00, order.Products[0].Price)

	// Stock reserved, cart cleared.
	assert.Equal(t, 8, store.stockOf(cream))
	assert.Equal(t, 9, store.stockOf(soap))
	cart, err := store.GetCartByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestOrderTotalImmuneToPriceChange(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	cream := store.addProduct("Cream", 10.00, 10)
	soap := store.addProduct("Soap", 5.00, 10)
	store.seedCart(user.ID,
		models.CartItem{ProductID: cream, Quantity: 2},
		models.CartItem{ProductID: soap, Quantity: 1},
	)

	order, err := orders.Create(context.Background(), user.ID, testAddress)
	require.NoError(t, err)
	require.Equal(t, 25.00, order.TotalPrice)

	store.setPrice(cream, 20.00)

	stored, err := store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.00, stored.TotalPrice)
	assert.Equal(t, 10.00, stored.Products[0].Price)
}

func TestOrderCreateEmptyCart(t *testing.T) {
	orders, _ := newTestOrders()
	user := regularUser()

	_, err := orders.Create(context.Background(), user.ID, testAddress)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestOrderCreateMissingAddress(t *testing.T) {
	orders, _ := newTestOrders()

	_, err := orders.Create(context.Background(), primitive.NewObjectID(), models.Address{})
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestOrderCreateAllOrNothing(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	plentiful := store.addProduct("Cream", 10.00, 10)
	scarce := store.addProduct("Soap", 5.00, 1)
	store.seedCart(user.ID,
		models.CartItem{ProductID: plentiful, Quantity: 2},
		models.CartItem{ProductID: scarce, Quantity: 5},
	)

	_, err := orders.Create(context.Background(), user.ID, testAddress)

	require.Error(t, err)
	assert.Equal(t, KindInsufficientStock, KindOf(err))
	assert.Contains(t, err.Error(), "Soap")

	// The first line's reservation must have been rolled back, the cart
	// must still hold its items, and no order may exist.
	assert.Equal(t, 10, store.stockOf(plentiful))
	assert.Equal(t, 1, store.stockOf(scarce))
	cart, err := store.GetCartByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 0, store.orderCount())
}

func TestOrderCreateRetriesNumberCollision(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(user.ID, models.CartItem{ProductID: productID, Quantity: 2})

	// The colliding insert aborts the whole attempt; the retry must re-run
	// the creation with a fresh number, not re-insert mid-transaction.
	store.failNextInsertOrder(Errorf(KindConflict, "order number already in use"))

	order, err := orders.Create(context.Background(), user.ID, testAddress)

	require.NoError(t, err)
	assert.Len(t, order.OrderNumber, 5)
	assert.Equal(t, 1, store.orderCount())
	assert.Equal(t, 8, store.stockOf(productID), "rolled-back attempt must not double-reserve")
	cart, err := store.GetCartByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestOrderCreateDoesNotRetryOtherInsertErrors(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(user.ID, models.CartItem{ProductID: productID, Quantity: 2})

	store.failNextInsertOrder(Errorf(KindNotFound, "collection dropped"))

	_, err := orders.Create(context.Background(), user.ID, testAddress)

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, 0, store.orderCount())
	assert.Equal(t, 10, store.stockOf(productID))
}

func TestOrderCreateConcurrentOversell(t *testing.T) {
	orders, store := newTestOrders()
	productID := store.addProduct("Soap", 5.00, 3)
	first := regularUser()
	second := regularUser()
	store.seedCart(first.ID, models.CartItem{ProductID: productID, Quantity: 2})
	store.seedCart(second.ID, models.CartItem{ProductID: productID, Quantity: 2})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, user := range []*models.User{first, second} {
		wg.Add(1)
		go func(i int, userID primitive.ObjectID) {
			defer wg.Done()
			_, errs[i] = orders.Create(context.Background(), userID, testAddress)
		}(i, user.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, KindInsufficientStock, KindOf(err))
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, store.stockOf(productID))
}

func TestOrderCancelReleasesOnce(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(user.ID, models.CartItem{ProductID: productID, Quantity: 2})

	order, err := orders.Create(context.Background(), user.ID, testAddress)
	require.NoError(t, err)
	require.Equal(t, 8, store.stockOf(productID))

	cancelled, err := orders.Cancel(context.Background(), order.ID, user)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, store.stockOf(productID))

	// Cancelling again is rejected and must not credit stock a second time.
	_, err = orders.Cancel(context.Background(), order.ID, user)
	assert.Equal(t, KindInvalidTransition, KindOf(err))
	assert.Equal(t, 10, store.stockOf(productID))
}

func TestOrderCancelRollsBackOnReleaseFailure(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(user.ID, models.CartItem{ProductID: productID, Quantity: 2})

	order, err := orders.Create(context.Background(), user.ID, testAddress)
	require.NoError(t, err)
	require.Equal(t, 8, store.stockOf(productID))

	// If the stock credit fails, the status write must roll back with it:
	// otherwise the order would sit Cancelled with stock never returned and
	// a retry would be a no-op.
	store.failNextReleaseStock(Errorf(KindNotFound, "product collection unavailable"))

	_, err = orders.Cancel(context.Background(), order.ID, user)
	require.Error(t, err)

	stored, err := store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Equal(t, 8, store.stockOf(productID))

	// The retry sees a still-pending order and credits stock exactly once.
	cancelled, err := orders.Cancel(context.Background(), order.ID, user)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, store.stockOf(productID))
}

func TestOrderDeleteRollsBackOnReleaseFailure(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	admin := adminUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(user.ID, models.CartItem{ProductID: productID, Quantity: 2})

	order, err := orders.Create(context.Background(), user.ID, testAddress)
	require.NoError(t, err)

	store.failNextReleaseStock(Errorf(KindNotFound, "product collection unavailable"))

	err = orders.Delete(context.Background(), order.ID, admin)
	require.Error(t, err)
	assert.Equal(t, 1, store.orderCount())
	assert.Equal(t, 8, store.stockOf(productID))

	require.NoError(t, orders.Delete(context.Background(), order.ID, admin))
	assert.Equal(t, 0, store.orderCount())
	assert.Equal(t, 10, store.stockOf(productID))
}

func TestOrderCancelForbiddenForOtherUsers(t *testing.T) {
	orders, store := newTestOrders()
	owner := regularUser()
	stranger := regularUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(owner.ID, models.CartItem{ProductID: productID, Quantity: 1})

	order, err := orders.Create(context.Background(), owner.ID, testAddress)
	require.NoError(t, err)

	_, err = orders.Cancel(context.Background(), order.ID, stranger)
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, 9, store.stockOf(productID))
}

func TestOrderCancelOnlyPending(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(user.ID, models.CartItem{ProductID: productID, Quantity: 1})

	order, err := orders.Create(context.Background(), user.ID, testAddress)
	require.NoError(t, err)

	_, err = orders.UpdateStatus(context.Background(), order.ID, models.OrderStatusShipped, "", adminUser())
	require.NoError(t, err)

	_, err = orders.Cancel(context.Background(), order.ID, user)
	assert.Equal(t, KindInvalidTransition, KindOf(err))
}

func TestOrderUpdateStatusAdminOnly(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(user.ID, models.CartItem{ProductID: productID, Quantity: 1})

	order, err := orders.Create(context.Background(), user.ID, testAddress)
	require.NoError(t, err)

	_, err = orders.UpdateStatus(context.Background(), order.ID, models.OrderStatusShipped, "", user)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestOrderUpdateStatusValidatesEnums(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(user.ID, models.CartItem{ProductID: productID, Quantity: 1})

	order, err := orders.Create(context.Background(), user.ID, testAddress)
	require.NoError(t, err)

	_, err = orders.UpdateStatus(context.Background(), order.ID, "Teleported", "", adminUser())
	assert.Equal(t, KindInvalidInput, KindOf(err))

	_, err = orders.UpdateStatus(context.Background(), order.ID, "", "Maybe", adminUser())
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestOrderUpdateStatusCancellationReleasesInventory(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	admin := adminUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(user.ID, models.CartItem{ProductID: productID, Quantity: 2})

	order, err := orders.Create(context.Background(), user.ID, testAddress)
	require.NoError(t, err)
	require.Equal(t, 8, store.stockOf(productID))

	_, err = orders.UpdateStatus(context.Background(), order.ID, models.OrderStatusCancelled, "", admin)
	require.NoError(t, err)
	assert.Equal(t, 10, store.stockOf(productID))

	// Setting Cancelled again must be a no-op on inventory.
	_, err = orders.UpdateStatus(context.Background(), order.ID, models.OrderStatusCancelled, "", admin)
	require.NoError(t, err)
	assert.Equal(t, 10, store.stockOf(productID))
}

func TestOrderUpdateStatusOtherTransitionsLeaveInventory(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(user.ID, models.CartItem{ProductID: productID, Quantity: 2})

	order, err := orders.Create(context.Background(), user.ID, testAddress)
	require.NoError(t, err)

	for _, status := range []string{
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	} {
		_, err = orders.UpdateStatus(context.Background(), order.ID, status, "", adminUser())
		require.NoError(t, err)
		assert.Equal(t, 8, store.stockOf(productID))
	}
}

func TestOrderDeleteReconcilesInventory(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	admin := adminUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(user.ID, models.CartItem{ProductID: productID, Quantity: 2})

	order, err := orders.Create(context.Background(), user.ID, testAddress)
	require.NoError(t, err)
	require.Equal(t, 8, store.stockOf(productID))

	require.NoError(t, orders.Delete(context.Background(), order.ID, admin))
	assert.Equal(t, 10, store.stockOf(productID))
	assert.Equal(t, 0, store.orderCount())
}

func TestOrderDeleteCancelledNoDoubleCredit(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	admin := adminUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(user.ID, models.CartItem{ProductID: productID, Quantity: 2})

	order, err := orders.Create(context.Background(), user.ID, testAddress)
	require.NoError(t, err)

	_, err = orders.UpdateStatus(context.Background(), order.ID, models.OrderStatusCancelled, "", admin)
	require.NoError(t, err)
	require.Equal(t, 10, store.stockOf(productID))

	require.NoError(t, orders.Delete(context.Background(), order.ID, admin))
	assert.Equal(t, 10, store.stockOf(productID), "deleting a cancelled order must not credit stock again")
}

func TestOrderDeleteAdminOnly(t *testing.T) {
	orders, store := newTestOrders()
	user := regularUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(user.ID, models.CartItem{ProductID: productID, Quantity: 1})

	order, err := orders.Create(context.Background(), user.ID, testAddress)
	require.NoError(t, err)

	err = orders.Delete(context.Background(), order.ID, user)
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, 1, store.orderCount())
}

func TestOrderGetOwnership(t *testing.T) {
	orders, store := newTestOrders()
	owner := regularUser()
	stranger := regularUser()
	productID := store.addProduct("Cream", 10.00, 10)
	store.seedCart(owner.ID, models.CartItem{ProductID: productID, Quantity: 1})

	order, err := orders.Create(context.Background(), owner.ID, testAddress)
	require.NoError(t, err)

	_, err = orders.Get(context.Background(), order.ID, owner)
	assert.NoError(t, err)

	_, err = orders.Get(context.Background(), order.ID, stranger)
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = orders.Get(context.Background(), order.ID, adminUser())
	assert.NoError(t, err)
}
