package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/services"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PaymentController handles payment-related requests
type PaymentController struct {
	Payments          *services.PaymentService
	PaymentCollection *mongo.Collection
	OrderCollection   *mongo.Collection
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(client *mongo.Client, payments *services.PaymentService) *PaymentController {
	db := client.Database(utils.DatabaseName)
	return &PaymentController{
		Payments:          payments,
		PaymentCollection: db.Collection("payments"),
		OrderCollection:   db.Collection("orders"),
	}
}

// CreatePayment records a payment for an order
func (pc *PaymentController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body struct {
		OrderID       string  `json:"order_id"`
		PaymentMethod string  `json:"payment_method"`
		TransactionID string  `json:"transaction_id"`
		Amount        float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.OrderID == "" || body.PaymentMethod == "" || body.Amount == 0 {
		utils.RespondError(w, http.StatusBadRequest, "order ID, payment method, and amount are required")
		return
	}
	orderID, err := primitive.ObjectIDFromHex(body.OrderID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	payment, err := pc.Payments.Create(r.Context(), orderID, body.PaymentMethod, body.Amount, body.TransactionID, user)
	if err != nil {
		utils.RespondServiceError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusCreated, "payment processed successfully", payment)
}

// GetAllPayments lists every payment, newest first (Admin only)
func (pc *PaymentController) GetAllPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := pc.PaymentCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch payments")
		return
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch payments")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"count":    len(payments),
		"payments": payments,
	})
}

// GetUserPayments lists payments made against the user's own orders
func (pc *PaymentController) GetUserPayments(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderCursor, err := pc.OrderCollection.Find(ctx, bson.M{"user_id": user.ID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch your payments")
		return
	}
	defer orderCursor.Close(ctx)

	var orderRefs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := orderCursor.All(ctx, &orderRefs); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch your payments")
		return
	}
	orderIDs := make([]primitive.ObjectID, len(orderRefs))
	for i, ref := range orderRefs {
		orderIDs[i] = ref.ID
	}

	cursor, err := pc.PaymentCollection.Find(ctx, bson.M{"order_id": bson.M{"$in": orderIDs}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch your payments")
		return
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch your payments")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"count":    len(payments),
		"payments": payments,
	})
}

// GetPaymentByID retrieves one payment; owners see their own, admins see any
func (pc *PaymentController) GetPaymentByID(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	paymentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	payment, err := pc.Payments.Get(r.Context(), paymentID, user)
	if err != nil {
		utils.RespondServiceError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "", payment)
}

// UpdatePaymentStatus sets a payment's status and projects it onto the
// order (Admin only)
func (pc *PaymentController) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	paymentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := pc.Payments.UpdateStatus(r.Context(), paymentID, body.Status, user)
	if err != nil {
		utils.RespondServiceError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "payment status updated successfully", payment)
}
