package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/internal/session"
)

// Handler serves the order endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a checkout handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers checkout routes.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/orders", h.PlaceOrder).Methods("POST")
	router.HandleFunc("/api/orders", h.ListOrders).Methods("GET")
	router.HandleFunc("/api/orders/{id}", h.GetOrder).Methods("GET")
}

type placeOrderRequest struct {
	Address       Address `json:"address"`
	PaymentMethod string  `json:"paymentMethod"`
}

type orderResponse struct {
	Success   bool       `json:"success"`
	Placement *Placement `json:"placement,omitempty"`
	Order     *Order     `json:"order,omitempty"`
	Orders    []Order    `json:"orders,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// PlaceOrder handles POST /api/orders.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	deviceID := h.installToken(r)

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOrderJSON(w, http.StatusBadRequest, orderResponse{Success: false, Error: "Invalid request body"})
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "cod"
	}

	placement, err := h.service.PlaceOrder(r.Context(), deviceID, req.Address, req.PaymentMethod)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeOrderJSON(w, http.StatusCreated, orderResponse{Success: true, Placement: placement})
}

// GetOrder handles GET /api/orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	deviceID := h.installToken(r)

	order, err := h.service.Order(r.Context(), deviceID, mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	if order == nil {
		writeOrderJSON(w, http.StatusNotFound, orderResponse{Success: false, Error: "Order not found"})
		return
	}
	writeOrderJSON(w, http.StatusOK, orderResponse{Success: true, Order: order})
}

// ListOrders handles GET /api/orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	deviceID := h.installToken(r)

	orders, err := h.service.Orders(r.Context(), deviceID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeOrderJSON(w, http.StatusOK, orderResponse{Success: true, Orders: orders})
}

// installToken binds the request's bearer token to the device session so
// checkout sees the same authentication state as the cart.
func (h *Handler) installToken(r *http.Request) string {
	deviceID := session.DeviceID(r.Context())
	if token := session.BearerToken(r.Context()); token != "" {
		h.service.sessions.Handle(deviceID).Session.SetToken(token)
	}
	return deviceID
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var remoteErr *domain.RemoteCartError
	var netErr *domain.NetworkError

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		writeOrderJSON(w, http.StatusUnauthorized, orderResponse{Success: false, Error: "You must be logged in to check out"})
	case errors.As(err, &remoteErr):
		status := remoteErr.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		writeOrderJSON(w, status, orderResponse{Success: false, Error: remoteErr.Error()})
	case errors.As(err, &netErr):
		writeOrderJSON(w, http.StatusServiceUnavailable, orderResponse{Success: false, Error: "Order service is temporarily unavailable"})
	default:
		writeOrderJSON(w, http.StatusBadRequest, orderResponse{Success: false, Error: err.Error()})
	}
}

func writeOrderJSON(w http.ResponseWriter, status int, body orderResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
