package store

import (
	"context"

	"go-storefront/models"
	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Mongo implements the services store interfaces on top of MongoDB.
type Mongo struct {
	client   *mongo.Client
	products *mongo.Collection
	carts    *mongo.Collection
	orders   *mongo.Collection
	payments *mongo.Collection
}

var _ services.Store = (*Mongo)(nil)

// NewMongo creates a Mongo store over the named database.
func NewMongo(client *mongo.Client, database string) *Mongo {
	db := client.Database(database)
	return &Mongo{
		client:   client,
		products: db.Collection("products"),
		carts:    db.Collection("carts"),
		orders:   db.Collection("orders"),
		payments: db.Collection("payments"),
	}
}

// GetProduct looks up one product by id.
func (m *Mongo) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := m.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, services.Errorf(services.KindNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ReserveStock decrements stock in a single conditional update. The filter
// carries the availability check, so the check and the decrement cannot be
// torn apart by a concurrent reservation.
func (m *Mongo) ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	result, err := m.products.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		count, err := m.products.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if count == 0 {
			return services.Errorf(services.KindNotFound, "product not found")
		}
		return services.Errorf(services.KindInsufficientStock, "insufficient stock")
	}
	return nil
}

// ReleaseStock credits stock back unconditionally.
func (m *Mongo) ReleaseStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	result, err := m.products.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": qty}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return services.Errorf(services.KindNotFound, "product not found")
	}
	return nil
}

// GetCartByUser looks up the user's cart.
func (m *Mongo) GetCartByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := m.carts.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, services.Errorf(services.KindNotFound, "cart not found")
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// CreateCart inserts a new cart and fills in its id.
func (m *Mongo) CreateCart(ctx context.Context, cart *models.Cart) error {
	result, err := m.carts.InsertOne(ctx, cart)
	if err != nil {
		return err
	}
	cart.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// SetCartItems replaces the cart's items wholesale.
func (m *Mongo) SetCartItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error {
	_, err := m.carts.UpdateOne(ctx, bson.M{"_id": cartID}, bson.M{"$set": bson.M{"items": items}})
	return err
}

// InsertOrder inserts the order. A duplicate order number surfaces as
// KindConflict via the unique index, so the caller can regenerate and retry.
func (m *Mongo) InsertOrder(ctx context.Context, order *models.Order) error {
	result, err := m.orders.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return services.Errorf(services.KindConflict, "order number already in use")
	}
	if err != nil {
		return err
	}
	order.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// GetOrder looks up one order by id.
func (m *Mongo) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := m.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, services.Errorf(services.KindNotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SetOrderStatus writes both lifecycle and payment status.
func (m *Mongo) SetOrderStatus(ctx context.Context, id primitive.ObjectID, status, paymentStatus string) error {
	return m.setOrderFields(ctx, id, bson.M{"status": status, "payment_status": paymentStatus})
}

// SetOrderPaymentStatus writes the payment status projection only.
func (m *Mongo) SetOrderPaymentStatus(ctx context.Context, id primitive.ObjectID, paymentStatus string) error {
	return m.setOrderFields(ctx, id, bson.M{"payment_status": paymentStatus})
}

func (m *Mongo) setOrderFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = nowUTC()
	result, err := m.orders.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return services.Errorf(services.KindNotFound, "order not found")
	}
	return nil
}

// DeleteOrder removes the order record.
func (m *Mongo) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.orders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return services.Errorf(services.KindNotFound, "order not found")
	}
	return nil
}

// InsertPayment inserts the payment. The unique index on order_id turns a
// second payment for the same order into KindDuplicatePayment.
func (m *Mongo) InsertPayment(ctx context.Context, payment *models.Payment) error {
	result, err := m.payments.InsertOne(ctx, payment)
	if mongo.IsDuplicateKeyError(err) {
		return services.Errorf(services.KindDuplicatePayment, "payment already exists for this order")
	}
	if err != nil {
		return err
	}
	payment.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// GetPayment looks up one payment by id.
func (m *Mongo) GetPayment(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var payment models.Payment
	err := m.payments.FindOne(ctx, bson.M{"_id": id}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, services.Errorf(services.KindNotFound, "payment not found")
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// SetPaymentStatus writes the payment's status.
func (m *Mongo) SetPaymentStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	result, err := m.payments.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return services.Errorf(services.KindNotFound, "payment not found")
	}
	return nil
}

// WithTransaction runs fn inside a mongo session transaction. Writes made
// through the session context commit together or not at all.
func (m *Mongo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
