// routes/routes.go
package routes

import (
	"go-storefront/controllers"
	"go-storefront/middleware"

	"github.com/gorilla/mux"
)

// Controllers bundles every controller the router wires up.
type Controllers struct {
	User        *controllers.UserController
	Product     *controllers.ProductController
	Category    *controllers.CategoryController
	Subcategory *controllers.SubcategoryController
	Cart        *controllers.CartController
	Order       *controllers.OrderController
	Payment     *controllers.PaymentController
	Review      *controllers.ReviewController
	Favorite    *controllers.FavoriteController
	Blog        *controllers.BlogController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, auth *middleware.Auth, c Controllers) {
	// Public routes
	router.HandleFunc("/register", c.User.Register).Methods("POST")
	router.HandleFunc("/login", c.User.Login).Methods("POST")
	router.HandleFunc("/logout", c.User.Logout).Methods("POST")
	router.HandleFunc("/google-login", c.User.GoogleLogin).Methods("POST")

	router.HandleFunc("/products", c.Product.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", c.Product.GetProductByID).Methods("GET")
	router.HandleFunc("/products/{product_id}/reviews", c.Review.GetProductReviews).Methods("GET")
	router.HandleFunc("/categories", c.Category.GetCategories).Methods("GET")
	router.HandleFunc("/categories/{id}", c.Category.GetCategoryByID).Methods("GET")
	router.HandleFunc("/subcategories", c.Subcategory.GetSubcategories).Methods("GET")
	router.HandleFunc("/blogs", c.Blog.GetPublishedBlogs).Methods("GET")
	router.HandleFunc("/blogs/{id}", c.Blog.GetBlogByID).Methods("GET")

	// Authenticated routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(auth.Authenticate)
	protected.HandleFunc("/check-auth", c.User.CheckAuth).Methods("GET")
	protected.HandleFunc("/profile", c.User.GetProfile).Methods("GET")
	protected.HandleFunc("/profile", c.User.UpdateProfile).Methods("PUT")

	protected.HandleFunc("/cart", c.Cart.GetCart).Methods("GET")
	protected.HandleFunc("/cart", c.Cart.AddToCart).Methods("POST")
	protected.HandleFunc("/cart", c.Cart.UpdateCartItem).Methods("PUT")
	protected.HandleFunc("/cart", c.Cart.ClearCart).Methods("DELETE")
	protected.HandleFunc("/cart/{product_id}", c.Cart.RemoveFromCart).Methods("DELETE")

	protected.HandleFunc("/orders", c.Order.CreateOrder).Methods("POST")
	protected.HandleFunc("/orders", c.Order.GetUserOrders).Methods("GET")
	protected.HandleFunc("/orders/{id}", c.Order.GetOrderByID).Methods("GET")
	protected.HandleFunc("/orders/{id}/cancel", c.Order.CancelOrder).Methods("PUT")

	protected.HandleFunc("/payments", c.Payment.CreatePayment).Methods("POST")
	protected.HandleFunc("/payments", c.Payment.GetUserPayments).Methods("GET")
	protected.HandleFunc("/payments/{id}", c.Payment.GetPaymentByID).Methods("GET")

	protected.HandleFunc("/reviews", c.Review.CreateReview).Methods("POST")
	protected.HandleFunc("/reviews/{id}", c.Review.UpdateReview).Methods("PUT")
	protected.HandleFunc("/reviews/{id}", c.Review.DeleteReview).Methods("DELETE")

	protected.HandleFunc("/favorites", c.Favorite.GetFavorites).Methods("GET")
	protected.HandleFunc("/favorites/{product_id}", c.Favorite.AddFavorite).Methods("POST")
	protected.HandleFunc("/favorites/{product_id}", c.Favorite.RemoveFavorite).Methods("DELETE")

	// Admin routes
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Authenticate)
	admin.Use(middleware.AdminOnly)

	admin.HandleFunc("/products", c.Product.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", c.Product.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", c.Product.DeleteProduct).Methods("DELETE")

	admin.HandleFunc("/categories", c.Category.CreateCategory).Methods("POST")
	admin.HandleFunc("/categories/{id}", c.Category.UpdateCategory).Methods("PUT")
	admin.HandleFunc("/categories/{id}", c.Category.DeleteCategory).Methods("DELETE")

	admin.HandleFunc("/subcategories", c.Subcategory.CreateSubcategory).Methods("POST")
	admin.HandleFunc("/subcategories/{id}", c.Subcategory.UpdateSubcategory).Methods("PUT")
	admin.HandleFunc("/subcategories/{id}", c.Subcategory.DeleteSubcategory).Methods("DELETE")

	admin.HandleFunc("/orders", c.Order.GetAllOrders).Methods("GET")
	admin.HandleFunc("/orders/completed", c.Order.GetCompletedOrdersByMonth).Methods("GET")
	admin.HandleFunc("/orders/completed-weekly", c.Order.GetCompletedOrdersByWeek).Methods("GET")
	admin.HandleFunc("/orders/completed-yearly", c.Order.GetCompletedOrdersByYear).Methods("GET")
	admin.HandleFunc("/orders/{id}", c.Order.UpdateOrderStatus).Methods("PUT")
	admin.HandleFunc("/orders/{id}", c.Order.DeleteOrder).Methods("DELETE")

	admin.HandleFunc("/payments", c.Payment.GetAllPayments).Methods("GET")
	admin.HandleFunc("/payments/{id}", c.Payment.UpdatePaymentStatus).Methods("PUT")

	admin.HandleFunc("/blogs", c.Blog.GetBlogs).Methods("GET")
	admin.HandleFunc("/blogs", c.Blog.CreateBlog).Methods("POST")
	admin.HandleFunc("/blogs/{id}", c.Blog.UpdateBlog).Methods("PUT")
	admin.HandleFunc("/blogs/{id}", c.Blog.DeleteBlog).Methods("DELETE")
}
