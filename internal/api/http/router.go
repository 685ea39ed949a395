package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers groups everything the REST router serves
type Handlers struct {
	Auth    *AuthMiddleware
	Orders  *OrderHandler
	Payment *PaymentHandler
	Cart    *CartHandler
	Health  *HealthHandler
}

// NewRouter registers the /api routes. Route templates must match the keys in
// config.EndpointSecurityConfig.
func NewRouter(h Handlers, allowedOrigin string) http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Use(h.Auth.Handler)

	api.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)

	api.HandleFunc("/cart/quote", h.Cart.Quote).Methods(http.MethodPost)
	api.HandleFunc("/cart/coupon", h.Cart.ApplyCoupon).Methods(http.MethodPost)

	api.HandleFunc("/orders", h.Orders.CreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders", h.Orders.ListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", h.Orders.GetOrder).Methods(http.MethodGet)

	api.HandleFunc("/payment/create-order", h.Payment.CreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/payment/verify-payment", h.Payment.VerifyPayment).Methods(http.MethodPost)
	api.HandleFunc("/payment/webhook", h.Payment.Webhook).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "Route not found")
	})

	var handler http.Handler = router
	handler = RecoveryMiddleware(handler)
	handler = CORSMiddleware(allowedOrigin)(handler)
	handler = LoggingMiddleware(handler)
	return handler
}
