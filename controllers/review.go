package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewController handles product review requests
type ReviewController struct {
	Collection *mongo.Collection
	Products   *mongo.Collection
}

// NewReviewController creates a new ReviewController
func NewReviewController(client *mongo.Client) *ReviewController {
	db := client.Database(utils.DatabaseName)
	return &ReviewController{
		Collection: db.Collection("reviews"),
		Products:   db.Collection("products"),
	}
}

// CreateReview adds a review; one per user per product
func (rc *ReviewController) CreateReview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body struct {
		ProductID string `json:"product_id"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	productID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid product ID")
		return
	}
	if body.Rating < 1 || body.Rating > 5 {
		utils.RespondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := rc.Products.CountDocuments(ctx, bson.M{"_id": productID})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create review")
		return
	}
	if count == 0 {
		utils.RespondError(w, http.StatusNotFound, "product not found")
		return
	}

	count, err = rc.Collection.CountDocuments(ctx, bson.M{"user_id": user.ID, "product_id": productID})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create review")
		return
	}
	if count > 0 {
		utils.RespondError(w, http.StatusBadRequest, "you have already reviewed this product")
		return
	}

	review := models.Review{
		ProductID: productID,
		UserID:    user.ID,
		Rating:    body.Rating,
		Comment:   body.Comment,
		CreatedAt: time.Now(),
	}
	result, err := rc.Collection.InsertOne(ctx, review)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create review")
		return
	}
	review.ID = result.InsertedID.(primitive.ObjectID)

	if err := rc.refreshProductRating(ctx, productID); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to update product rating")
		return
	}

	utils.RespondSuccess(w, http.StatusCreated, "review added successfully", review)
}

// GetProductReviews lists reviews for a product, newest first
func (rc *ReviewController) GetProductReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["product_id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	cursor, err := rc.Collection.Find(ctx, bson.M{"product_id": productID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch reviews")
		return
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch reviews")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"count":   len(reviews),
		"reviews": reviews,
	})
}

// UpdateReview edits the caller's own review
func (rc *ReviewController) UpdateReview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reviewID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid review ID")
		return
	}

	var body struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	var review models.Review
	if err := rc.Collection.FindOne(ctx, bson.M{"_id": reviewID}).Decode(&review); err != nil {
		utils.RespondError(w, http.StatusNotFound, "review not found")
		return
	}
	if review.UserID != user.ID {
		utils.RespondError(w, http.StatusForbidden, "you can only update your own reviews")
		return
	}

	if body.Rating != 0 {
		if body.Rating < 1 || body.Rating > 5 {
			utils.RespondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
			return
		}
		review.Rating = body.Rating
	}
	if body.Comment != "" {
		review.Comment = body.Comment
	}

	if _, err := rc.Collection.UpdateOne(ctx, bson.M{"_id": reviewID},
		bson.M{"$set": bson.M{"rating": review.Rating, "comment": review.Comment}}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to update review")
		return
	}

	if err := rc.refreshProductRating(ctx, review.ProductID); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to update product rating")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "review updated successfully", review)
}

// DeleteReview removes the caller's own review
func (rc *ReviewController) DeleteReview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reviewID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid review ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	var review models.Review
	if err := rc.Collection.FindOne(ctx, bson.M{"_id": reviewID}).Decode(&review); err != nil {
		utils.RespondError(w, http.StatusNotFound, "review not found")
		return
	}
	if review.UserID != user.ID {
		utils.RespondError(w, http.StatusForbidden, "you can only delete your own reviews")
		return
	}

	if _, err := rc.Collection.DeleteOne(ctx, bson.M{"_id": reviewID}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete review")
		return
	}

	if err := rc.refreshProductRating(ctx, review.ProductID); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to update product rating")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "review deleted successfully", nil)
}

// refreshProductRating recomputes the product's average rating and review
// count from all its reviews.
func (rc *ReviewController) refreshProductRating(ctx context.Context, productID primitive.ObjectID) error {
	cursor, err := rc.Collection.Find(ctx, bson.M{"product_id": productID})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return err
	}

	rating := 0.0
	if len(reviews) > 0 {
		total := 0
		for _, review := range reviews {
			total += review.Rating
		}
		rating = float64(total) / float64(len(reviews))
	}

	_, err = rc.Products.UpdateOne(ctx, bson.M{"_id": productID},
		bson.M{"$set": bson.M{"rating": rating, "reviews_count": len(reviews)}})
	return err
}
