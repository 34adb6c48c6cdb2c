package router

import (
	"net/http"
	"strings"

	"mercadito/internal/handler"
	"mercadito/internal/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Prometheus scrape endpoint (no authentication required)
	mux.Handle("/metrics", promhttp.Handler())

	// Product handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			productHandler.GetByID(w, r)
			return
		}
		productHandler.GetAll(w, r)
	}

	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Cart handler function
	cartRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && (r.URL.Path == "/api/carts" || r.URL.Path == "/api/carts/") {
			cartHandler.Create(w, r)
			return
		}

		rest := strings.TrimPrefix(r.URL.Path, "/api/carts/")
		if rest == "" || rest == r.URL.Path {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_, sub, hasSub := strings.Cut(rest, "/")

		switch {
		case !hasSub && r.Method == http.MethodGet:
			cartHandler.GetByID(w, r)
		case sub == "items" && r.Method == http.MethodPost:
			cartHandler.AddItem(w, r)
		case sub == "items" && r.Method == http.MethodDelete:
			cartHandler.Clear(w, r)
		case strings.HasPrefix(sub, "items/") && r.Method == http.MethodPut:
			cartHandler.UpdateItem(w, r)
		case strings.HasPrefix(sub, "items/") && r.Method == http.MethodDelete:
			cartHandler.RemoveItem(w, r)
		case sub == "checkout" && r.Method == http.MethodPost:
			cartHandler.StartCheckout(w, r)
		case sub == "complete" && r.Method == http.MethodPost:
			cartHandler.CompleteCheckout(w, r)
		case sub == "abandon" && r.Method == http.MethodPost:
			cartHandler.Abandon(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}

	mux.HandleFunc("/api/carts", cartRouteHandler)
	mux.HandleFunc("/api/carts/", cartRouteHandler)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/" {
			switch r.Method {
			case http.MethodPost:
				orderHandler.Create(w, r)
			case http.MethodGet:
				orderHandler.GetAll(w, r)
			default:
				http.Error(w, "not found", http.StatusNotFound)
			}
			return
		}

		rest := strings.TrimPrefix(r.URL.Path, "/api/orders/")
		if rest == "checkout" && r.Method == http.MethodPost {
			orderHandler.Checkout(w, r)
			return
		}
		_, sub, hasSub := strings.Cut(rest, "/")

		switch {
		case !hasSub && r.Method == http.MethodGet:
			orderHandler.GetByID(w, r)
		case sub == "confirm" && r.Method == http.MethodPost:
			orderHandler.Confirm(w, r)
		case sub == "payment" && r.Method == http.MethodPost:
			orderHandler.ProcessPayment(w, r)
		case sub == "preparing" && r.Method == http.MethodPost:
			orderHandler.MarkPreparing(w, r)
		case sub == "ship" && r.Method == http.MethodPost:
			orderHandler.MarkShipped(w, r)
		case sub == "deliver" && r.Method == http.MethodPost:
			orderHandler.MarkDelivered(w, r)
		case sub == "cancel" && r.Method == http.MethodPost:
			orderHandler.Cancel(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}

	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> Metrics -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Metrics(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
