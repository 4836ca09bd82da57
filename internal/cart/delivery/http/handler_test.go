package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/punkhazard/creative-furniture/internal/cart/local"
	"github.com/punkhazard/creative-furniture/internal/cart/reconciler"
	"github.com/punkhazard/creative-furniture/internal/session"
)

func TestCartEndpointsAnonymousFlow(t *testing.T) {
	backend := local.NewMemoryBackend()
	manager := reconciler.NewManager(backend, nil)
	handler := NewCartHandler(manager)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	server := httptest.NewServer(session.Middleware(router))
	defer server.Close()

	client := server.Client()
	deviceHeader := func(req *http.Request) {
		req.Header.Set("X-Device-Id", "dev-test")
		req.Header.Set("Content-Type", "application/json")
	}

	// Add the same product twice; quantities must merge.
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/cart/items",
			strings.NewReader(`{"productID":"p1","name":"Chair","price":100,"quantity":1}`))
		deviceHeader(req)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add status: %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/cart", nil)
	deviceHeader(req)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Items []struct {
				ProductID string `json:"productID"`
				Quantity  int    `json:"quantity"`
			} `json:"items"`
			Count int `json:"count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || len(body.Data.Items) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Data.Items[0].Quantity != 2 || body.Data.Count != 2 {
		t.Fatalf("quantities did not merge: %+v", body.Data)
	}

	// Missing productID is rejected before reaching the cart.
	req, _ = http.NewRequest(http.MethodPost, server.URL+"/api/cart/remove", strings.NewReader(`{}`))
	deviceHeader(req)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing productID, got %d", resp.StatusCode)
	}

	// Clearing deletes the stored record entirely.
	req, _ = http.NewRequest(http.MethodDelete, server.URL+"/api/cart", nil)
	deviceHeader(req)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear status: %d", resp.StatusCode)
	}
	if backend.Exists("cart:items:dev-test") {
		t.Fatal("expected cart record gone after clear")
	}
}
