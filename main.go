// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"go-storefront/controllers"
	"go-storefront/middleware"
	"go-storefront/routes"
	"go-storefront/services"
	"go-storefront/store"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	if err := utils.EnsureIndexes(context.Background(), client); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Wire the order core
	mongoStore := store.NewMongo(client, utils.DatabaseName)
	inventoryService := services.NewInventoryService(mongoStore)
	cartService := services.NewCartService(mongoStore, mongoStore)
	orderService := services.NewOrderService(mongoStore, inventoryService)
	paymentService := services.NewPaymentService(mongoStore, mongoStore)

	// Initialize controllers
	ctrls := routes.Controllers{
		User:        controllers.NewUserController(client),
		Product:     controllers.NewProductController(client),
		Category:    controllers.NewCategoryController(client),
		Subcategory: controllers.NewSubcategoryController(client),
		Cart:        controllers.NewCartController(cartService),
		Order:       controllers.NewOrderController(client, orderService, emailService),
		Payment:     controllers.NewPaymentController(client, paymentService),
		Review:      controllers.NewReviewController(client),
		Favorite:    controllers.NewFavoriteController(client),
		Blog:        controllers.NewBlogController(client),
	}

	// Set up the router
	router := mux.NewRouter()
	auth := middleware.NewAuth(client)
	routes.RegisterRoutes(router, auth, ctrls)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
