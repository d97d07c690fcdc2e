package routes

import (
	"net/http"
	"time"

	"github.com/TekNegr/Projet-Ecommerce/app/configs"
	"github.com/TekNegr/Projet-Ecommerce/app/handlers"
	"github.com/TekNegr/Projet-Ecommerce/app/middlewares"
	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"github.com/TekNegr/Projet-Ecommerce/app/services"
	"github.com/TekNegr/Projet-Ecommerce/app/utils/renderer"
	"github.com/TekNegr/Projet-Ecommerce/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

const predictionTimeout = 10 * time.Second

// NewRouter wires repositories, services and handlers onto the mux router.
func NewRouter(db *gorm.DB, env configs.ENV, sessionStore sessions.SessionStore, sessionKeys *configs.SessionKeys) http.Handler {
	rnd := renderer.New()

	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	cartItemRepo := repositories.NewCartItemRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderItemRepo := repositories.NewOrderItemRepository(db)
	couponRepo := repositories.NewCouponRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	var geocoder services.GeocodingClient
	if env.GEOAPIFY_API_KEY != "" {
		geocoder = services.NewGeoapifyService(env.GEOAPIFY_BASE_URL, env.GEOAPIFY_API_KEY)
	}

	var predictions services.PredictionClient
	if env.PREDICTION_BASE_URL != "" {
		predictions = services.NewPredictionService(env.PREDICTION_BASE_URL, predictionTimeout)
	}

	travelEstimator := services.NewTravelEstimatorService(geocoder, env.FreightRatePerKm)
	couponSvc := services.NewCouponService(couponRepo)
	notificationSvc := services.NewNotificationService(notificationRepo)
	aiBridge := services.NewAICouponBridge(predictions, couponSvc, env.PaymentCountAssumption)
	addressSvc := services.NewAddressValidationService(geocoder)
	cartSvc := services.NewCartService(cartRepo, cartItemRepo, productRepo)
	checkoutSvc := services.NewCheckoutService(db, cartRepo, productRepo, userRepo, orderRepo, orderItemRepo,
		travelEstimator, couponSvc, notificationSvc, addressSvc, aiBridge)
	sellerOrderSvc := services.NewSellerOrderService(db, orderRepo, orderItemRepo, productRepo, notificationSvc)
	reviewSvc := services.NewReviewService(reviewRepo, orderRepo, notificationSvc)

	authHandler := handlers.NewAuthHandler(userRepo, addressSvc, sessionStore, rnd)
	productHandler := handlers.NewProductHandler(productRepo, rnd)
	cartHandler := handlers.NewCartHandler(cartSvc, rnd)
	orderHandler := handlers.NewOrderHandler(checkoutSvc, couponSvc, rnd)
	sellerOrderHandler := handlers.NewSellerOrderHandler(sellerOrderSvc, rnd)
	couponHandler := handlers.NewCouponHandler(couponSvc, couponRepo, rnd)
	reviewHandler := handlers.NewReviewHandler(reviewSvc, rnd)
	notificationHandler := handlers.NewNotificationHandler(notificationSvc, rnd)
	aiHandler := handlers.NewAIHandler(predictions, rnd)

	router := mux.NewRouter()
	router.Use(middlewares.LoggingMiddleware)
	router.Use(middlewares.SessionContextMiddleware(sessionStore))

	// Public routes.
	router.HandleFunc("/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	router.HandleFunc("/addresses/validate", authHandler.ValidateAddress).Methods("POST")
	router.HandleFunc("/products", productHandler.List).Methods("GET")
	router.HandleFunc("/products/{slug}", productHandler.GetBySlug).Methods("GET")
	router.HandleFunc("/ai/health", aiHandler.Health).Methods("GET")

	// Cart routes work for anonymous sessions too.
	cart := router.PathPrefix("/cart").Subrouter()
	cart.HandleFunc("", cartHandler.GetCart).Methods("GET")
	cart.HandleFunc("/items", cartHandler.AddItem).Methods("POST")
	cart.HandleFunc("/items/{productID}", cartHandler.UpdateItem).Methods("PUT")
	cart.HandleFunc("/items/{productID}", cartHandler.RemoveItem).Methods("DELETE")
	cart.HandleFunc("", cartHandler.ClearCart).Methods("DELETE")

	// Customer routes.
	customer := router.NewRoute().Subrouter()
	customer.Use(middlewares.RequireAuth)
	customer.HandleFunc("/orders/preview", orderHandler.Preview).Methods("GET")
	customer.HandleFunc("/orders", orderHandler.PlaceOrder).Methods("POST")
	customer.HandleFunc("/orders", orderHandler.ListOrders).Methods("GET")
	customer.HandleFunc("/orders/{id}", orderHandler.GetOrder).Methods("GET")
	customer.HandleFunc("/orders/{id}/cancel", orderHandler.CancelOrder).Methods("POST")
	customer.HandleFunc("/orders/{orderID}/review", reviewHandler.PostReview).Methods("POST")
	customer.HandleFunc("/orders/{orderID}/review", reviewHandler.GetOrderReview).Methods("GET")
	customer.HandleFunc("/coupons/validate", couponHandler.Validate).Methods("POST")
	customer.HandleFunc("/coupons/mine", couponHandler.Mine).Methods("GET")
	customer.HandleFunc("/notifications", notificationHandler.List).Methods("GET")
	customer.HandleFunc("/notifications/{id}/read", notificationHandler.MarkRead).Methods("POST")
	customer.HandleFunc("/notifications/{id}", notificationHandler.Delete).Methods("DELETE")

	// Seller routes.
	seller := router.PathPrefix("/seller").Subrouter()
	seller.Use(middlewares.RequireRole(userRepo, models.RoleSeller))
	seller.HandleFunc("/products", productHandler.SellerList).Methods("GET")
	seller.HandleFunc("/products", productHandler.Create).Methods("POST")
	seller.HandleFunc("/products/{id}", productHandler.Update).Methods("PUT")
	seller.HandleFunc("/products/{id}", productHandler.Delete).Methods("DELETE")
	seller.HandleFunc("/orders", sellerOrderHandler.ListOrders).Methods("GET")
	seller.HandleFunc("/orders/{id}", sellerOrderHandler.GetOrder).Methods("GET")
	seller.HandleFunc("/orders/{id}/continue", sellerOrderHandler.ContinueOrder).Methods("POST")
	seller.HandleFunc("/orders/{id}/cancel-items", sellerOrderHandler.CancelItems).Methods("POST")
	seller.HandleFunc("/reviews/{id}/answer", reviewHandler.AnswerReview).Methods("POST")

	// Admin routes.
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middlewares.RequireRole(userRepo, models.RoleAdmin))
	admin.HandleFunc("/coupons", couponHandler.AdminCreate).Methods("POST")
	admin.HandleFunc("/coupons", couponHandler.AdminList).Methods("GET")
	admin.HandleFunc("/coupons/{id}", couponHandler.AdminDelete).Methods("DELETE")
	admin.HandleFunc("/coupons/statistics", couponHandler.AdminStatistics).Methods("GET")

	if env.APP_ENV == "production" && sessionKeys != nil {
		csrfMiddleware := csrf.Protect(sessionKeys.AuthKey, csrf.Secure(true))
		return csrfMiddleware(router)
	}
	return router
}
