package utils

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DatabaseName is the MongoDB database all collections live in.
const DatabaseName = "storefront"

// ConnectDB connects to MongoDB using MONGO_URI and verifies the connection.
func ConnectDB() *mongo.Client {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	return client
}

// EnsureIndexes creates the unique indexes the core relies on: order numbers,
// one payment per order, one cart per user, one account per email. Uniqueness
// is enforced here, not by pre-check-then-insert.
func EnsureIndexes(ctx context.Context, client *mongo.Client) error {
	db := client.Database(DatabaseName)

	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	for _, ix := range []struct {
		collection string
		model      mongo.IndexModel
	}{
		{"orders", unique("order_number")},
		{"payments", unique("order_id")},
		{"carts", unique("user_id")},
		{"users", unique("email")},
	} {
		if _, err := db.Collection(ix.collection).Indexes().CreateOne(ctx, ix.model); err != nil {
			return err
		}
	}
	return nil
}
