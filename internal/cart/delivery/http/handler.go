package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/internal/cart/reconciler"
	"github.com/punkhazard/creative-furniture/internal/cart/usecase/command"
	"github.com/punkhazard/creative-furniture/internal/cart/usecase/query"
	"github.com/punkhazard/creative-furniture/internal/session"
)

// CartHandler handles HTTP requests for the cart using CQRS handlers.
type CartHandler struct {
	// Command handlers
	addHandler      *command.AddItemHandler
	increaseHandler *command.IncreaseItemHandler
	decreaseHandler *command.DecreaseItemHandler
	removeHandler   *command.RemoveItemHandler
	clearHandler    *command.ClearCartHandler
	mergeHandler    *command.MergeCartHandler

	// Query handlers
	getHandler *query.GetCartHandler

	sessions       *reconciler.Manager
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCartHandler creates a new cart handler (manual DI).
func NewCartHandler(sessions *reconciler.Manager) *CartHandler {
	return NewCartHandlerWithDI(
		command.NewAddItemHandler(sessions),
		command.NewIncreaseItemHandler(sessions),
		command.NewDecreaseItemHandler(sessions),
		command.NewRemoveItemHandler(sessions),
		command.NewClearCartHandler(sessions),
		command.NewMergeCartHandler(sessions),
		query.NewGetCartHandler(sessions),
		sessions,
	)
}

// NewCartHandlerWithDI creates a new cart handler using dependency
// injection.
func NewCartHandlerWithDI(
	addHandler *command.AddItemHandler,
	increaseHandler *command.IncreaseItemHandler,
	decreaseHandler *command.DecreaseItemHandler,
	removeHandler *command.RemoveItemHandler,
	clearHandler *command.ClearCartHandler,
	mergeHandler *command.MergeCartHandler,
	getHandler *query.GetCartHandler,
	sessions *reconciler.Manager,
) *CartHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_requests_total",
			Help: "Total number of cart requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_cart_request_duration_seconds",
			Help:    "Duration of cart requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &CartHandler{
		addHandler:      addHandler,
		increaseHandler: increaseHandler,
		decreaseHandler: decreaseHandler,
		removeHandler:   removeHandler,
		clearHandler:    clearHandler,
		mergeHandler:    mergeHandler,
		getHandler:      getHandler,
		sessions:        sessions,
		requestCounter:  requestCounter,
		requestLatency:  requestLatency,
	}
}

// RegisterRoutes registers all cart routes.
func (h *CartHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/cart", h.metricsMiddleware("/api/cart", h.GetCart)).Methods("GET")
	router.HandleFunc("/api/cart", h.metricsMiddleware("/api/cart", h.ClearCart)).Methods("DELETE")
	router.HandleFunc("/api/cart/items", h.metricsMiddleware("/api/cart/items", h.AddItem)).Methods("POST")
	router.HandleFunc("/api/cart/increase", h.metricsMiddleware("/api/cart/increase", h.IncreaseItem)).Methods("POST")
	router.HandleFunc("/api/cart/decrease", h.metricsMiddleware("/api/cart/decrease", h.DecreaseItem)).Methods("POST")
	router.HandleFunc("/api/cart/remove", h.metricsMiddleware("/api/cart/remove", h.RemoveItem)).Methods("POST")
	router.HandleFunc("/api/cart/merge", h.metricsMiddleware("/api/cart/merge", h.MergeCart)).Methods("POST")
}

// resolveSession binds the request's bearer token (if any) to the device
// session so the reconciler's signal reflects this request.
func (h *CartHandler) resolveSession(r *http.Request) string {
	deviceID := session.DeviceID(r.Context())
	if token := session.BearerToken(r.Context()); token != "" {
		h.sessions.Handle(deviceID).Session.SetToken(token)
	}
	return deviceID
}

// GetCart handles GET /api/cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	deviceID := h.resolveSession(r)

	cart, err := h.getHandler.Handle(r.Context(), query.GetCartQuery{
		DeviceID: deviceID,
		Refresh:  true,
	})
	if err != nil {
		h.respondCartError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	deviceID := h.resolveSession(r)

	var req struct {
		ProductID string  `json:"productID"`
		Name      string  `json:"name"`
		Price     float64 `json:"price"`
		Image     string  `json:"image"`
		Quantity  int     `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.ProductID == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Product ID is required"})
		return
	}

	cart, err := h.addHandler.Handle(r.Context(), command.AddItemCommand{
		DeviceID:  deviceID,
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.respondCartError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, cart)
}

// IncreaseItem handles POST /api/cart/increase.
func (h *CartHandler) IncreaseItem(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, func(deviceID, productID string) (domain.Cart, error) {
		return h.increaseHandler.Handle(r.Context(), command.IncreaseItemCommand{
			DeviceID:  deviceID,
			ProductID: productID,
		})
	})
}

// DecreaseItem handles POST /api/cart/decrease.
func (h *CartHandler) DecreaseItem(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, func(deviceID, productID string) (domain.Cart, error) {
		return h.decreaseHandler.Handle(r.Context(), command.DecreaseItemCommand{
			DeviceID:  deviceID,
			ProductID: productID,
		})
	})
}

// RemoveItem handles POST /api/cart/remove.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, func(deviceID, productID string) (domain.Cart, error) {
		return h.removeHandler.Handle(r.Context(), command.RemoveItemCommand{
			DeviceID:  deviceID,
			ProductID: productID,
		})
	})
}

func (h *CartHandler) adjust(w http.ResponseWriter, r *http.Request, op func(deviceID, productID string) (domain.Cart, error)) {
	deviceID := h.resolveSession(r)

	var req struct {
		ProductID string `json:"productID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.ProductID == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Product ID is required"})
		return
	}

	cart, err := op(deviceID, req.ProductID)
	if err != nil {
		h.respondCartError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, cart)
}

// ClearCart handles DELETE /api/cart.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	deviceID := h.resolveSession(r)

	cart, err := h.clearHandler.Handle(r.Context(), command.ClearCartCommand{DeviceID: deviceID})
	if err != nil {
		h.respondCartError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, cart)
}

// MergeCart handles POST /api/cart/merge, the explicit retry for a
// failed login-time merge.
func (h *CartHandler) MergeCart(w http.ResponseWriter, r *http.Request) {
	deviceID := h.resolveSession(r)

	cart, err := h.mergeHandler.Handle(r.Context(), command.MergeCartCommand{DeviceID: deviceID})
	if err != nil {
		h.respondCartError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, cart)
}

func (h *CartHandler) respondCart(w http.ResponseWriter, status int, cart domain.Cart) {
	respondJSON(w, status, Response{
		Success: true,
		Data: CartPayload{
			Items: cart.Lines,
			Total: cart.Total(),
			Count: cart.Count(),
		},
	})
}

// respondCartError maps the error taxonomy onto HTTP statuses: missing
// token 401, server-side rejection carries the upstream status, transport
// failure 503, anything else 400.
func (h *CartHandler) respondCartError(w http.ResponseWriter, err error) {
	var remoteErr *domain.RemoteCartError
	var netErr *domain.NetworkError

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "You must be logged in"})
	case errors.As(err, &remoteErr):
		status := remoteErr.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		respondJSON(w, status, Response{Success: false, Error: remoteErr.Error()})
	case errors.As(err, &netErr):
		respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Cart service is temporarily unavailable"})
	case reconciler.IsMergeFailure(err):
		respondJSON(w, http.StatusBadGateway, Response{Success: false, Error: err.Error()})
	default:
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics.
func (h *CartHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}
