package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one product line in a cart. It carries no price: prices are
// read from the product at checkout and frozen into the order there.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart holds a user's pending items. Each user has at most one cart,
// enforced by a unique index on user_id; clearing empties Items but keeps
// the document.
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items  []CartItem         `bson:"items" json:"items"`
}
