package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListDecodesProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"products":[
			{"_id":"p1","name":"Oak Chair","price":129.5,"category":"chairs","bestSeller":true},
			{"_id":"p2","name":"Walnut Table","price":899}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	products, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID != "p1" || !products[0].BestSeller {
		t.Fatalf("unexpected product: %+v", products[0])
	}
}

func TestGetDecodesBareProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/single/p1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"_id":"p1","name":"Oak Chair","price":129.5,"images":["a.jpg"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	product, err := client.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if product == nil || product.Name != "Oak Chair" {
		t.Fatalf("unexpected product: %+v", product)
	}
}

func TestGetMissingProductIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	product, err := client.Get(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if product != nil {
		t.Fatalf("expected nil for missing product, got %+v", product)
	}
}

func TestCachedCatalogWithoutRedisDelegates(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"success":true,"products":[{"_id":"p1","name":"Chair","price":100}]}`))
	}))
	defer server.Close()

	cached := NewCachedCatalog(NewClient(server.URL, time.Second), nil, time.Minute)
	for i := 0; i < 2; i++ {
		products, err := cached.List(context.Background())
		if err != nil || len(products) != 1 {
			t.Fatalf("list: %v len=%d", err, len(products))
		}
	}
	if calls != 2 {
		t.Fatalf("nil redis must pass every call through, got %d calls", calls)
	}
}
