package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-storefront/models"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubcategoryController handles subcategory-related requests
type SubcategoryController struct {
	Collection *mongo.Collection
	Categories *mongo.Collection
}

// NewSubcategoryController creates a new SubcategoryController
func NewSubcategoryController(client *mongo.Client) *SubcategoryController {
	db := client.Database(utils.DatabaseName)
	return &SubcategoryController{
		Collection: db.Collection("subcategories"),
		Categories: db.Collection("categories"),
	}
}

// CreateSubcategory creates a new subcategory under a category (Admin only)
func (sc *SubcategoryController) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" || body.Category == "" {
		utils.RespondError(w, http.StatusBadRequest, "subcategory name and category ID are required")
		return
	}
	categoryID, err := primitive.ObjectIDFromHex(body.Category)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	count, err := sc.Categories.CountDocuments(ctx, bson.M{"_id": categoryID})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create subcategory")
		return
	}
	if count == 0 {
		utils.RespondError(w, http.StatusNotFound, "category not found")
		return
	}

	count, err = sc.Collection.CountDocuments(ctx, bson.M{"name": body.Name, "category": categoryID})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create subcategory")
		return
	}
	if count > 0 {
		utils.RespondError(w, http.StatusBadRequest, "subcategory with this name already exists in this category")
		return
	}

	subcategory := models.Subcategory{Name: body.Name, Category: categoryID}
	result, err := sc.Collection.InsertOne(ctx, subcategory)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create subcategory")
		return
	}
	subcategory.ID = result.InsertedID.(primitive.ObjectID)

	utils.RespondSuccess(w, http.StatusCreated, "subcategory created successfully", subcategory)
}

// GetSubcategories retrieves all subcategories sorted by name
func (sc *SubcategoryController) GetSubcategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if categoryHex := r.URL.Query().Get("category"); categoryHex != "" {
		categoryID, err := primitive.ObjectIDFromHex(categoryHex)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid category ID")
			return
		}
		filter["category"] = categoryID
	}

	cursor, err := sc.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch subcategories")
		return
	}
	defer cursor.Close(ctx)

	subcategories := []models.Subcategory{}
	if err := cursor.All(ctx, &subcategories); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch subcategories")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", subcategories)
}

// UpdateSubcategory renames a subcategory or moves it to another category (Admin only)
func (sc *SubcategoryController) UpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid subcategory ID")
		return
	}

	var body struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	update := bson.M{}
	if body.Name != "" {
		update["name"] = body.Name
	}
	if body.Category != "" {
		categoryID, err := primitive.ObjectIDFromHex(body.Category)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid category ID")
			return
		}
		count, err := sc.Categories.CountDocuments(ctx, bson.M{"_id": categoryID})
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "failed to update subcategory")
			return
		}
		if count == 0 {
			utils.RespondError(w, http.StatusNotFound, "category not found")
			return
		}
		update["category"] = categoryID
	}
	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	result, err := sc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to update subcategory")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "subcategory not found")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "subcategory updated successfully", nil)
}

// DeleteSubcategory removes a subcategory (Admin only)
func (sc *SubcategoryController) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid subcategory ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	result, err := sc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete subcategory")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "subcategory not found")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "subcategory deleted successfully", nil)
}
