package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog represents a blog post. Published is "draft" until the post goes live.
type Blog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	OtherTitle  string             `bson:"other_title,omitempty" json:"other_title,omitempty"`
	Excerpt     string             `bson:"excerpt" json:"excerpt"`
	Description string             `bson:"description" json:"description"`
	Content     string             `bson:"content" json:"content"`
	Author      string             `bson:"author" json:"author"`
	Images      []string           `bson:"images" json:"images"`
	Video       string             `bson:"video,omitempty" json:"video,omitempty"`
	Category    primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	Published   string             `bson:"published" json:"published"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
