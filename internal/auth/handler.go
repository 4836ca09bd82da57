package auth

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/punkhazard/creative-furniture/internal/cart/reconciler"
	"github.com/punkhazard/creative-furniture/internal/session"
	"github.com/punkhazard/creative-furniture/pkg/logger"
)

// Handler handles the login and logout endpoints. Login also drives the
// cart merge for the device's session.
type Handler struct {
	client   *Client
	sessions *reconciler.Manager
}

// NewHandler creates an auth handler.
func NewHandler(client *Client, sessions *reconciler.Manager) *Handler {
	return &Handler{client: client, sessions: sessions}
}

// RegisterRoutes registers auth routes.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/api/auth/logout", h.Logout).Methods("POST")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token,omitempty"`
	Cart    interface{} `json:"cart,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Login exchanges credentials upstream, installs the token into the
// device session, and merges any anonymous cart into the account cart.
// A merge failure does not fail the login; the local cart stays intact
// and the response carries a warning.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Success: false, Error: "Invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, loginResponse{Success: false, Error: "Email and password are required"})
		return
	}

	token, err := h.client.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false, Error: err.Error()})
		return
	}

	deviceID := session.DeviceID(r.Context())
	handle := h.sessions.Handle(deviceID)
	handle.Session.SetToken(token)

	cart, mergeErr := handle.Reconciler.Login(r.Context())

	resp := loginResponse{
		Success: true,
		Token:   token,
		Cart:    cart.Lines,
	}
	if mergeErr != nil {
		logger.Warn(r.Context()).
			Err(mergeErr).
			Str("device_id", deviceID).
			Msg("Cart merge failed during login")
		resp.Message = "Logged in, but your saved cart could not be merged yet"
	}
	writeJSON(w, http.StatusOK, resp)
}

// Logout clears the session token and returns the cart to its local
// contents.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	deviceID := session.DeviceID(r.Context())
	handle := h.sessions.Handle(deviceID)

	handle.Session.ClearToken()
	if _, err := handle.Reconciler.Logout(r.Context()); err != nil {
		logger.Warn(r.Context()).
			Err(err).
			Str("device_id", deviceID).
			Msg("Failed to reload local cart on logout")
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body loginResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
