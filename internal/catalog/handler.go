package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// Handler serves the product catalog endpoints.
type Handler struct {
	catalog *CachedCatalog
}

// NewHandler creates a catalog handler.
func NewHandler(catalog *CachedCatalog) *Handler {
	return &Handler{catalog: catalog}
}

// RegisterRoutes registers catalog routes.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/products", h.List).Methods("GET")
	router.HandleFunc("/api/products/bestselling", h.BestSelling).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.Get).Methods("GET")
}

type listResponse struct {
	Success  bool      `json:"success"`
	Products []Product `json:"products,omitempty"`
	Product  *Product  `json:"product,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// List handles GET /api/products.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, listResponse{Success: false, Error: "Failed to load products"})
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Products: products})
}

// BestSelling handles GET /api/products/bestselling.
func (h *Handler) BestSelling(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.BestSelling(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, listResponse{Success: false, Error: "Failed to load products"})
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Products: products})
}

// Get handles GET /api/products/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, listResponse{Success: false, Error: "Failed to load product"})
		return
	}
	if product == nil {
		writeJSON(w, http.StatusNotFound, listResponse{Success: false, Error: "Product not found"})
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Product: product})
}

func writeJSON(w http.ResponseWriter, status int, body listResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
