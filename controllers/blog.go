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

// BlogController handles blog post requests
type BlogController struct {
	Collection *mongo.Collection
}

// NewBlogController creates a new BlogController
func NewBlogController(client *mongo.Client) *BlogController {
	collection := client.Database(utils.DatabaseName).Collection("blogs")
	return &BlogController{
		Collection: collection,
	}
}

// CreateBlog creates a blog post (Admin only). Posts start as drafts unless
// a published value is provided.
func (bc *BlogController) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var blog models.Blog
	if err := json.NewDecoder(r.Body).Decode(&blog); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if blog.Title == "" || blog.Content == "" || blog.Author == "" {
		utils.RespondError(w, http.StatusBadRequest, "title, content and author are required")
		return
	}
	if blog.Published == "" {
		blog.Published = "draft"
	}
	blog.ID = primitive.NilObjectID
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = blog.CreatedAt

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	result, err := bc.Collection.InsertOne(ctx, blog)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create blog")
		return
	}
	blog.ID = result.InsertedID.(primitive.ObjectID)

	utils.RespondSuccess(w, http.StatusCreated, "blog created successfully", blog)
}

// GetBlogs lists every blog post (Admin only)
func (bc *BlogController) GetBlogs(w http.ResponseWriter, r *http.Request) {
	bc.respondBlogList(w, r, bson.M{})
}

// GetPublishedBlogs lists posts that are out of draft
func (bc *BlogController) GetPublishedBlogs(w http.ResponseWriter, r *http.Request) {
	bc.respondBlogList(w, r, bson.M{"published": bson.M{"$ne": "draft"}})
}

func (bc *BlogController) respondBlogList(w http.ResponseWriter, r *http.Request, filter bson.M) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := bc.Collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch blogs")
		return
	}
	defer cursor.Close(ctx)

	blogs := []models.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch blogs")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", blogs)
}

// GetBlogByID retrieves a single blog post
func (bc *BlogController) GetBlogByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid blog ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var blog models.Blog
	if err := bc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&blog); err != nil {
		utils.RespondError(w, http.StatusNotFound, "blog not found")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", blog)
}

// UpdateBlog edits a blog post (Admin only)
func (bc *BlogController) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid blog ID")
		return
	}

	var fields bson.M
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	delete(fields, "_id")
	delete(fields, "id")
	if len(fields) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	fields["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	result, err := bc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to update blog")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "blog not found")
		return
	}

	var blog models.Blog
	if err := bc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&blog); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch blog")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "blog updated successfully", blog)
}

// DeleteBlog removes a blog post (Admin only)
func (bc *BlogController) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid blog ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	result, err := bc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete blog")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "blog not found")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "blog deleted successfully", nil)
}
