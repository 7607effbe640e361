package services

import (
	"context"
	"sync"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store used by the service tests. Mutations take
// the data mutex, so reserve and release behave atomically like their
// MongoDB counterparts. WithTransaction snapshots all state and restores it
// when fn fails.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	products map[primitive.ObjectID]*models.Product
	carts    map[primitive.ObjectID]*models.Cart
	orders   map[primitive.ObjectID]*models.Order
	payments map[primitive.ObjectID]*models.Payment

	// One-shot injected failures, consumed by the next matching call.
	nextInsertOrderErr  error
	nextReleaseStockErr error
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		products: make(map[primitive.ObjectID]*models.Product),
		carts:    make(map[primitive.ObjectID]*models.Cart),
		orders:   make(map[primitive.ObjectID]*models.Order),
		payments: make(map[primitive.ObjectID]*models.Payment),
	}
}

func (m *memStore) addProduct(name string, price float64, stock int) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	m.products[id] = &models.Product{ID: id, Name: name, Price: price, Stock: stock}
	return id
}

func (m *memStore) setPrice(id primitive.ObjectID, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[id].Price = price
}

func (m *memStore) stockOf(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *memStore) seedCart(userID primitive.ObjectID, items ...models.CartItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	m.carts[id] = &models.Cart{ID: id, UserID: userID, Items: append([]models.CartItem{}, items...)}
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *memStore) failNextInsertOrder(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextInsertOrderErr = err
}

func (m *memStore) failNextReleaseStock(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextReleaseStockErr = err
}

func cloneProduct(p *models.Product) *models.Product {
	clone := *p
	return &clone
}

func cloneCart(c *models.Cart) *models.Cart {
	clone := *c
	clone.Items = append([]models.CartItem{}, c.Items...)
	return &clone
}

func cloneOrder(o *models.Order) *models.Order {
	clone := *o
	clone.Products = append([]models.OrderLine{}, o.Products...)
	return &clone
}

func clonePayment(p *models.Payment) *models.Payment {
	clone := *p
	return &clone
}

func (m *memStore) GetProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return nil, Errorf(KindNotFound, "product not found")
	}
	return cloneProduct(product), nil
}

func (m *memStore) ReserveStock(_ context.Context, id primitive.ObjectID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return Errorf(KindNotFound, "product not found")
	}
	if product.Stock < qty {
		return Errorf(KindInsufficientStock, "insufficient stock")
	}
	product.Stock -= qty
	return nil
}

func (m *memStore) ReleaseStock(_ context.Context, id primitive.ObjectID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.nextReleaseStockErr; err != nil {
		m.nextReleaseStockErr = nil
		return err
	}
	product, ok := m.products[id]
	if !ok {
		return Errorf(KindNotFound, "product not found")
	}
	product.Stock += qty
	return nil
}

func (m *memStore) GetCartByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cart := range m.carts {
		if cart.UserID == userID {
			return cloneCart(cart), nil
		}
	}
	return nil, Errorf(KindNotFound, "cart not found")
}

func (m *memStore) CreateCart(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart.ID = primitive.NewObjectID()
	m.carts[cart.ID] = cloneCart(cart)
	return nil
}

func (m *memStore) SetCartItems(_ context.Context, cartID primitive.ObjectID, items []models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[cartID]
	if !ok {
		return Errorf(KindNotFound, "cart not found")
	}
	cart.Items = append([]models.CartItem{}, items...)
	return nil
}

func (m *memStore) InsertOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.nextInsertOrderErr; err != nil {
		m.nextInsertOrderErr = nil
		return err
	}
	for _, existing := range m.orders {
		if existing.OrderNumber == order.OrderNumber {
			return Errorf(KindConflict, "order number already in use")
		}
	}
	order.ID = primitive.NewObjectID()
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *memStore) GetOrder(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, Errorf(KindNotFound, "order not found")
	}
	return cloneOrder(order), nil
}

func (m *memStore) SetOrderStatus(_ context.Context, id primitive.ObjectID, status, paymentStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return Errorf(KindNotFound, "order not found")
	}
	order.Status = status
	order.PaymentStatus = paymentStatus
	return nil
}

func (m *memStore) SetOrderPaymentStatus(_ context.Context, id primitive.ObjectID, paymentStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return Errorf(KindNotFound, "order not found")
	}
	order.PaymentStatus = paymentStatus
	return nil
}

func (m *memStore) DeleteOrder(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return Errorf(KindNotFound, "order not found")
	}
	delete(m.orders, id)
	return nil
}

func (m *memStore) InsertPayment(_ context.Context, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.payments {
		if existing.OrderID == payment.OrderID {
			return Errorf(KindDuplicatePayment, "payment already exists for this order")
		}
	}
	payment.ID = primitive.NewObjectID()
	m.payments[payment.ID] = clonePayment(payment)
	return nil
}

func (m *memStore) GetPayment(_ context.Context, id primitive.ObjectID) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, Errorf(KindNotFound, "payment not found")
	}
	return clonePayment(payment), nil
}

func (m *memStore) SetPaymentStatus(_ context.Context, id primitive.ObjectID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return Errorf(KindNotFound, "payment not found")
	}
	payment.Status = status
	return nil
}

func (m *memStore) snapshot() (map[primitive.ObjectID]*models.Product, map[primitive.ObjectID]*models.Cart, map[primitive.ObjectID]*models.Order, map[primitive.ObjectID]*models.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := make(map[primitive.ObjectID]*models.Product, len(m.products))
	for id, p := range m.products {
		products[id] = cloneProduct(p)
	}
	carts := make(map[primitive.ObjectID]*models.Cart, len(m.carts))
	for id, c := range m.carts {
		carts[id] = cloneCart(c)
	}
	orders := make(map[primitive.ObjectID]*models.Order, len(m.orders))
	for id, o := range m.orders {
		orders[id] = cloneOrder(o)
	}
	payments := make(map[primitive.ObjectID]*models.Payment, len(m.payments))
	for id, p := range m.payments {
		payments[id] = clonePayment(p)
	}
	return products, carts, orders, payments
}

func (m *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	products, carts, orders, payments := m.snapshot()
	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.products = products
		m.carts = carts
		m.orders = orders
		m.payments = payments
		m.mu.Unlock()
		return err
	}
	return nil
}
