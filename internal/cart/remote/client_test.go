package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
)

func decodeBody(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, 2*time.Second), server
}

func TestFetchAllEnvelopeResponse(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cart/items" || r.Method != http.MethodGet {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Fatalf("missing bearer token: %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"success":true,"message":"ok","data":{"items":[
			{"productID":"p1","name":"Chair","price":100,"quantity":2}
		]}}`))
	})
	defer server.Close()

	lines, err := client.FetchAll(context.Background(), "tok")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(lines) != 1 || lines[0].ProductID != "p1" || lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestFetchAllBareArrayResponse(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"productID":{"_id":"p2","name":"Table","price":500},"quantity":1}]`))
	})
	defer server.Close()

	lines, err := client.FetchAll(context.Background(), "tok")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(lines) != 1 || lines[0].ProductID != "p2" || lines[0].Name != "Table" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestMissingSuccessFlagIsNotFailure(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"items":[]}}`))
	})
	defer server.Close()

	lines, err := client.FetchAll(context.Background(), "tok")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", lines)
	}
}

func TestEmptyTokenShortCircuits(t *testing.T) {
	called := false
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	defer server.Close()

	if _, err := client.FetchAll(context.Background(), ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if called {
		t.Fatal("no request should be sent without a token")
	}
}

func TestServerRejectionYieldsRemoteCartError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"token expired"}`))
	})
	defer server.Close()

	_, err := client.Add(context.Background(), "tok", "p1", 1)
	var remoteErr *domain.RemoteCartError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteCartError, got %v", err)
	}
	if remoteErr.StatusCode != http.StatusUnauthorized || remoteErr.Message != "token expired" {
		t.Fatalf("unexpected error: %+v", remoteErr)
	}
}

func TestEnvelopeSuccessFalseWithOKStatus(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"product out of stock"}`))
	})
	defer server.Close()

	_, err := client.Add(context.Background(), "tok", "p1", 1)
	var remoteErr *domain.RemoteCartError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteCartError, got %v", err)
	}
	if remoteErr.Message != "product out of stock" {
		t.Fatalf("unexpected message: %q", remoteErr.Message)
	}
}

func TestTransportFailureYieldsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(server.URL, time.Second)
	server.Close()

	_, err := client.FetchAll(context.Background(), "tok")
	var netErr *domain.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestMergeSubmitsBatchedItems(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cart/merge" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var payload struct {
			Items []domain.MergeItem `json:"items"`
		}
		if err := decodeBody(r, &payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(payload.Items) != 2 || payload.Items[0].ProductID != "p1" || payload.Items[1].Quantity != 3 {
			t.Fatalf("unexpected payload: %+v", payload.Items)
		}
		w.Write([]byte(`{"success":true,"data":{"items":[
			{"productID":"p1","name":"Chair","price":100,"quantity":1},
			{"productID":"p2","name":"Table","price":500,"quantity":3}
		]}}`))
	})
	defer server.Close()

	lines, err := client.Merge(context.Background(), "tok", []domain.MergeItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 3},
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestResponseDropsUnresolvableLines(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"items":[
			{"productID":"p1","name":"Chair","price":100,"quantity":1},
			{"productID":null,"name":"Orphan","price":10,"quantity":1}
		]}}`))
	})
	defer server.Close()

	lines, err := client.FetchAll(context.Background(), "tok")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(lines) != 1 || lines[0].ProductID != "p1" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}
