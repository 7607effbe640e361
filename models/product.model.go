package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog product
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Brand         string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Detail        string             `bson:"detail,omitempty" json:"detail,omitempty"`
	HowToUse      string             `bson:"how_to_use,omitempty" json:"how_to_use,omitempty"`
	Ingredient    string             `bson:"ingredient,omitempty" json:"ingredient,omitempty"`
	Appearance    string             `bson:"appearance,omitempty" json:"appearance,omitempty"`
	ProductStatus string             `bson:"product_status,omitempty" json:"product_status,omitempty"`
	DiscountValue float64            `bson:"discount_value" json:"discount_value"` // percent, 0-100
	Price         float64            `bson:"price" json:"price"`
	Stock         int                `bson:"stock" json:"stock"`
	Images        []string           `bson:"images" json:"images"`
	Category      primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	Subcategory   primitive.ObjectID `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Rating        float64            `bson:"rating" json:"rating"`
	ReviewsCount  int                `bson:"reviews_count" json:"reviews_count"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// Category groups products
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name string             `bson:"name" json:"name"`
}

// Subcategory is a finer grouping under a category
type Subcategory struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Category primitive.ObjectID `bson:"category" json:"category"`
}
