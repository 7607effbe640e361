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

// CategoryController handles category-related requests
type CategoryController struct {
	Collection *mongo.Collection
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(client *mongo.Client) *CategoryController {
	collection := client.Database(utils.DatabaseName).Collection("categories")
	return &CategoryController{
		Collection: collection,
	}
}

// CreateCategory creates a new category (Admin only)
func (cc *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		utils.RespondError(w, http.StatusBadRequest, "category name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	count, err := cc.Collection.CountDocuments(ctx, bson.M{"name": body.Name})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	if count > 0 {
		utils.RespondError(w, http.StatusBadRequest, "category with this name already exists")
		return
	}

	category := models.Category{Name: body.Name}
	result, err := cc.Collection.InsertOne(ctx, category)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	category.ID = result.InsertedID.(primitive.ObjectID)

	utils.RespondSuccess(w, http.StatusCreated, "category created successfully", category)
}

// GetCategories retrieves all categories sorted by name
func (cc *CategoryController) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := cc.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", categories)
}

// GetCategoryByID retrieves a single category
func (cc *CategoryController) GetCategoryByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var category models.Category
	if err := cc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		utils.RespondError(w, http.StatusNotFound, "category not found")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", category)
}

// UpdateCategory renames a category (Admin only)
func (cc *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		utils.RespondError(w, http.StatusBadRequest, "category name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	count, err := cc.Collection.CountDocuments(ctx, bson.M{"name": body.Name, "_id": bson.M{"$ne": id}})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to update category")
		return
	}
	if count > 0 {
		utils.RespondError(w, http.StatusBadRequest, "category with this name already exists")
		return
	}

	result, err := cc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": body.Name}})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to update category")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "category not found")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "category updated successfully", models.Category{ID: id, Name: body.Name})
}

// DeleteCategory removes a category (Admin only)
func (cc *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	result, err := cc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "category not found")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "category deleted successfully", nil)
}
