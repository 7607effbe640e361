package controllers

import (
	"context"
	"net/http"
	"time"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FavoriteController manages the user's favorite products
type FavoriteController struct {
	Users    *mongo.Collection
	Products *mongo.Collection
}

// NewFavoriteController creates a new FavoriteController
func NewFavoriteController(client *mongo.Client) *FavoriteController {
	db := client.Database(utils.DatabaseName)
	return &FavoriteController{
		Users:    db.Collection("users"),
		Products: db.Collection("products"),
	}
}

// GetFavorites returns the user's favorite products, fully resolved
func (fc *FavoriteController) GetFavorites(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	favorites := []models.Product{}
	if len(user.Favorites) > 0 {
		cursor, err := fc.Products.Find(ctx, bson.M{"_id": bson.M{"$in": user.Favorites}})
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "failed to fetch favorites")
			return
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &favorites); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "failed to fetch favorites")
			return
		}
	}

	utils.RespondSuccess(w, http.StatusOK, "", favorites)
}

// AddFavorite adds a product to the user's favorites. Adding a favorite
// twice is a no-op.
func (fc *FavoriteController) AddFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["product_id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := fc.Products.CountDocuments(ctx, bson.M{"_id": productID})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to add favorite")
		return
	}
	if count == 0 {
		utils.RespondError(w, http.StatusNotFound, "product not found")
		return
	}

	if _, err := fc.Users.UpdateOne(ctx, bson.M{"_id": user.ID},
		bson.M{"$addToSet": bson.M{"favorites": productID}}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to add favorite")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "product added to favorites", nil)
}

// RemoveFavorite drops a product from the user's favorites
func (fc *FavoriteController) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["product_id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if _, err := fc.Users.UpdateOne(ctx, bson.M{"_id": user.ID},
		bson.M{"$pull": bson.M{"favorites": productID}}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to remove favorite")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "product removed from favorites", nil)
}
