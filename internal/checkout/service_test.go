package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/internal/cart/local"
	"github.com/punkhazard/creative-furniture/internal/cart/reconciler"
)

// stubRemote serves a fixed cart for authenticated fetches.
type stubRemote struct {
	lines []domain.CartLine
}

func (s *stubRemote) FetchAll(ctx context.Context, token string) ([]domain.CartLine, error) {
	return s.lines, nil
}

func (s *stubRemote) Add(ctx context.Context, token, productID string, quantity int) ([]domain.CartLine, error) {
	return s.lines, nil
}

func (s *stubRemote) Increase(ctx context.Context, token, productID string) ([]domain.CartLine, error) {
	return s.lines, nil
}

func (s *stubRemote) Decrease(ctx context.Context, token, productID string) ([]domain.CartLine, error) {
	return s.lines, nil
}

func (s *stubRemote) Remove(ctx context.Context, token, productID string) ([]domain.CartLine, error) {
	return s.lines, nil
}

func (s *stubRemote) Clear(ctx context.Context, token string) ([]domain.CartLine, error) {
	s.lines = nil
	return nil, nil
}

func (s *stubRemote) Merge(ctx context.Context, token string, items []domain.MergeItem) ([]domain.CartLine, error) {
	return s.lines, nil
}

func TestPlaceOrderRequiresAuthentication(t *testing.T) {
	manager := reconciler.NewManager(local.NewMemoryBackend(), &stubRemote{})
	service := NewService(manager, NewClient("http://127.0.0.1:0", time.Second), nil)

	_, err := service.PlaceOrder(context.Background(), "dev1", Address{}, "cod")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestPlaceOrderSubmitsCartAndClears(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/place" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Fatalf("missing bearer token: %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"success":true,"order":{"_id":"o1","status":"Processing","amount":200}}`))
	}))
	defer upstream.Close()

	remote := &stubRemote{lines: []domain.CartLine{{ProductID: "p1", Name: "Chair", Price: 100, Quantity: 2}}}
	manager := reconciler.NewManager(local.NewMemoryBackend(), remote)
	manager.Handle("dev1").Session.SetToken("tok")

	service := NewService(manager, NewClient(upstream.URL, time.Second), nil)
	placement, err := service.PlaceOrder(context.Background(), "dev1", Address{FirstName: "Ada"}, "cod")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if placement.Order == nil || placement.Order.ID != "o1" {
		t.Fatalf("unexpected placement: %+v", placement)
	}
	if len(remote.lines) != 0 {
		t.Fatal("cart must be cleared after placement")
	}
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	manager := reconciler.NewManager(local.NewMemoryBackend(), &stubRemote{})
	manager.Handle("dev1").Session.SetToken("tok")

	service := NewService(manager, NewClient("http://127.0.0.1:0", time.Second), nil)
	if _, err := service.PlaceOrder(context.Background(), "dev1", Address{}, "cod"); err == nil {
		t.Fatal("expected error for empty cart")
	}
}

func TestPaystackPlacementCarriesRedirect(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/paystack/init" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"order":{"_id":"o2","status":"Pending","amount":100},
			"paystackReference":"ref-123","authorization_url":"https://pay.example/redirect"}`))
	}))
	defer upstream.Close()

	remote := &stubRemote{lines: []domain.CartLine{{ProductID: "p1", Price: 100, Quantity: 1}}}
	manager := reconciler.NewManager(local.NewMemoryBackend(), remote)
	manager.Handle("dev1").Session.SetToken("tok")

	service := NewService(manager, NewClient(upstream.URL, time.Second), nil)
	placement, err := service.PlaceOrder(context.Background(), "dev1", Address{}, "paystack")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if placement.AuthorizationURL != "https://pay.example/redirect" || placement.Reference != "ref-123" {
		t.Fatalf("redirect not carried: %+v", placement)
	}
}
