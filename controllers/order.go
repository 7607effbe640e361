package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
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

// OrderController handles order-related requests
type OrderController struct {
	Orders          *services.OrderService
	OrderCollection *mongo.Collection
	UserCollection  *mongo.Collection
	EmailService    *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, orders *services.OrderService, emailService *utils.EmailService) *OrderController {
	db := client.Database(utils.DatabaseName)
	return &OrderController{
		Orders:          orders,
		OrderCollection: db.Collection("orders"),
		UserCollection:  db.Collection("users"),
		EmailService:    emailService,
	}
}

// CreateOrder creates a new order from the user's cart
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body struct {
		ShippingAddress models.Address `json:"shipping_address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := oc.Orders.Create(r.Context(), user.ID, body.ShippingAddress)
	if err != nil {
		utils.RespondServiceError(w, err)
		return
	}

	go func(email string, order *models.Order) {
		if err := oc.EmailService.SendOrderConfirmationEmail(email, order); err != nil {
			log.Printf("Failed to send order confirmation to %s: %v", email, err)
		}
	}(user.Email, order)

	utils.RespondSuccess(w, http.StatusCreated, "order placed successfully", order)
}

// GetUserOrders retrieves the authenticated user's orders, newest first
func (oc *OrderController) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	oc.respondOrderList(w, r, bson.M{"user_id": user.ID})
}

// GetAllOrders retrieves every order (Admin only)
func (oc *OrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	oc.respondOrderList(w, r, bson.M{})
}

func (oc *OrderController) respondOrderList(w http.ResponseWriter, r *http.Request, filter bson.M) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := oc.OrderCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"count":  len(orders),
		"orders": orders,
	})
}

// GetOrderByID retrieves one order; owners see their own, admins see any
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := oc.Orders.Get(r.Context(), orderID, user)
	if err != nil {
		utils.RespondServiceError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "", order)
}

// UpdateOrderStatus sets status and/or payment status (Admin only)
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var body struct {
		Status        string `json:"status"`
		PaymentStatus string `json:"payment_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := oc.Orders.UpdateStatus(r.Context(), orderID, body.Status, body.PaymentStatus, user)
	if err != nil {
		utils.RespondServiceError(w, err)
		return
	}

	oc.notifyOwner(order)
	utils.RespondSuccess(w, http.StatusOK, "order updated successfully", order)
}

// CancelOrder lets a user cancel their own pending order
func (oc *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := oc.Orders.Cancel(r.Context(), orderID, user)
	if err != nil {
		utils.RespondServiceError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "order cancelled successfully", order)
}

// DeleteOrder removes an order, reconciling inventory first (Admin only)
func (oc *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	if err := oc.Orders.Delete(r.Context(), orderID, user); err != nil {
		utils.RespondServiceError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "order deleted successfully", nil)
}

// notifyOwner emails the order's owner about a status change, best effort.
func (oc *OrderController) notifyOwner(order *models.Order) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var owner models.User
		if err := oc.UserCollection.FindOne(ctx, bson.M{"_id": order.UserID}).Decode(&owner); err != nil {
			log.Printf("Failed to look up order owner %s: %v", order.UserID.Hex(), err)
			return
		}
		if err := oc.EmailService.SendOrderStatusEmail(owner.Email, order); err != nil {
			log.Printf("Failed to send status email to %s: %v", owner.Email, err)
		}
	}()
}

// ---- completed-order reports (Admin only) ----

type monthlyBreakdown struct {
	Month   int     `json:"month"`
	Name    string  `json:"name"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// completedOrdersBetween returns Delivered+Paid orders whose last update
// falls in [start, end).
func (oc *OrderController) completedOrdersBetween(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	cursor, err := oc.OrderCollection.Find(ctx, bson.M{
		"status":         models.OrderStatusDelivered,
		"payment_status": models.OrderPaymentPaid,
		"updated_at":     bson.M{"$gte": start, "$lt": end},
	}, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func totalRevenue(orders []models.Order) float64 {
	total := 0.0
	for _, order := range orders {
		total += order.TotalPrice
	}
	return total
}

func queryInt(r *http.Request, key, fallback string) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		value = fallback
	}
	return strconv.Atoi(value)
}

// GetCompletedOrdersByMonth reports Delivered+Paid orders for one month
func (oc *OrderController) GetCompletedOrdersByMonth(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	month, err := queryInt(r, "month", strconv.Itoa(int(now.Month())))
	if err != nil || month < 1 || month > 12 {
		utils.RespondError(w, http.StatusBadRequest, "invalid month: must be between 1 and 12")
		return
	}
	year, err := queryInt(r, "year", strconv.Itoa(now.Year()))
	if err != nil || year < 2000 || year > 2100 {
		utils.RespondError(w, http.StatusBadRequest, "invalid year: must be between 2000 and 2100")
		return
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	orders, err := oc.completedOrdersBetween(ctx, start, end)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch completed orders")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"count":         len(orders),
		"total_revenue": totalRevenue(orders),
		"month":         month,
		"year":          year,
		"orders":        orders,
	})
}

// GetCompletedOrdersByWeek reports Delivered+Paid orders for one ISO week
func (oc *OrderController) GetCompletedOrdersByWeek(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	currentYear, currentWeek := now.ISOWeek()

	week, err := queryInt(r, "week", strconv.Itoa(currentWeek))
	if err != nil || week < 1 || week > 53 {
		utils.RespondError(w, http.StatusBadRequest, "invalid week: must be between 1 and 53")
		return
	}
	year, err := queryInt(r, "year", strconv.Itoa(currentYear))
	if err != nil || year < 2000 || year > 2100 {
		utils.RespondError(w, http.StatusBadRequest, "invalid year: must be between 2000 and 2100")
		return
	}

	start := startOfISOWeek(year, week)
	end := start.AddDate(0, 0, 7)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	orders, err := oc.completedOrdersBetween(ctx, start, end)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch completed orders")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"count":         len(orders),
		"total_revenue": totalRevenue(orders),
		"week":          week,
		"year":          year,
		"orders":        orders,
	})
}

// GetCompletedOrdersByYear reports Delivered+Paid orders for one year with a
// per-month breakdown
func (oc *OrderController) GetCompletedOrdersByYear(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, err := queryInt(r, "year", strconv.Itoa(now.Year()))
	if err != nil || year < 2000 || year > 2100 {
		utils.RespondError(w, http.StatusBadRequest, "invalid year: must be between 2000 and 2100")
		return
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	orders, err := oc.completedOrdersBetween(ctx, start, end)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch completed orders")
		return
	}

	months := make([]monthlyBreakdown, 12)
	for i := range months {
		months[i] = monthlyBreakdown{Month: i + 1, Name: time.Month(i + 1).String()}
	}
	for _, order := range orders {
		m := int(order.UpdatedAt.Month()) - 1
		months[m].Orders++
		months[m].Revenue += order.TotalPrice
	}

	utils.RespondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"count":         len(orders),
		"total_revenue": totalRevenue(orders),
		"year":          year,
		"monthly_data":  months,
		"orders":        orders,
	})
}

// startOfISOWeek returns the Monday starting the given ISO week.
func startOfISOWeek(year, week int) time.Time {
	// Jan 4 is always inside ISO week 1.
	t := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, -1)
	}
	return t.AddDate(0, 0, (week-1)*7)
}
