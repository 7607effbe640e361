package controllers

import (
	"encoding/json"
	"net/http"

	"go-storefront/middleware"
	"go-storefront/services"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartController handles cart-related requests
type CartController struct {
	Carts *services.CartService
}

// NewCartController creates a new CartController
func NewCartController(carts *services.CartService) *CartController {
	return &CartController{Carts: carts}
}

// GetCart returns the user's cart, creating an empty one on first access
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	cart, err := cc.Carts.Get(r.Context(), user.ID)
	if err != nil {
		utils.RespondServiceError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "", cart)
}

// AddToCart adds a product to the user's cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
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
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	cart, err := cc.Carts.AddItem(r.Context(), user.ID, productID, body.Quantity)
	if err != nil {
		utils.RespondServiceError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "item added to cart", cart)
}

// UpdateCartItem sets the quantity of a cart line
func (cc *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
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

	cart, err := cc.Carts.UpdateItem(r.Context(), user.ID, productID, body.Quantity)
	if err != nil {
		utils.RespondServiceError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "cart updated successfully", cart)
}

// RemoveFromCart removes a product's line from the cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
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

	cart, err := cc.Carts.RemoveItem(r.Context(), user.ID, productID)
	if err != nil {
		utils.RespondServiceError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "item removed from cart", cart)
}

// ClearCart empties the user's cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	cart, err := cc.Carts.Clear(r.Context(), user.ID)
	if err != nil {
		utils.RespondServiceError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "cart cleared successfully", cart)
}
