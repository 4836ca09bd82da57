package local

import (
	"context"
	"testing"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
)

func TestStoreAddMergesSameProduct(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), "cart:items:dev1")

	if _, err := store.Add(ctx, domain.CartLine{ProductID: "p1", Name: "Chair", Price: 100, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	lines, err := store.Add(ctx, domain.CartLine{ProductID: "p1", Quantity: 2})
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", lines[0].Quantity)
	}
}

func TestStoreDecreaseFloorsAtOne(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), "cart:items:dev1")

	if _, err := store.Add(ctx, domain.CartLine{ProductID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.Decrease(ctx, "p1"); err != nil {
		t.Fatalf("decrease: %v", err)
	}
	lines, err := store.Decrease(ctx, "p1")
	if err != nil {
		t.Fatalf("decrease at floor: %v", err)
	}
	if lines[0].Quantity != 1 {
		t.Fatalf("expected floor of 1, got %d", lines[0].Quantity)
	}
}

func TestStoreIncreaseMissingProductIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), "cart:items:dev1")

	lines, err := store.Increase(ctx, "ghost")
	if err != nil {
		t.Fatalf("increase: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(lines))
	}
}

func TestStoreClearDeletesRecord(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewStore(backend, "cart:items:dev1")

	if _, err := store.Add(ctx, domain.CartLine{ProductID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !backend.Exists("cart:items:dev1") {
		t.Fatal("expected record after add")
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if backend.Exists("cart:items:dev1") {
		t.Fatal("expected record gone after clear")
	}
	// clearing an absent record stays a no-op
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear again: %v", err)
	}
	lines, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart after clear, got %d lines", len(lines))
	}
}

func TestStoreLoadCorruptRecordYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	if err := backend.Set(ctx, "cart:items:dev1", []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := NewStore(backend, "cart:items:dev1")

	lines, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("corrupt record must not error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(lines))
	}

	// The store recovers: the next mutation overwrites the bad record.
	if _, err := store.Add(ctx, domain.CartLine{ProductID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("add after corruption: %v", err)
	}
	lines, err = store.Load(ctx)
	if err != nil || len(lines) != 1 {
		t.Fatalf("load after recovery: %v len=%d", err, len(lines))
	}
}

func TestStoreRemoveDeletesWholeLine(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), "cart:items:dev1")

	if _, err := store.Add(ctx, domain.CartLine{ProductID: "p1", Quantity: 5}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.Add(ctx, domain.CartLine{ProductID: "p2", Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	lines, err := store.Remove(ctx, "p1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(lines) != 1 || lines[0].ProductID != "p2" {
		t.Fatalf("unexpected lines after remove: %+v", lines)
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("new backend: %v", err)
	}
	store := NewStore(backend, "cart:items:dev1")

	if _, err := store.Add(ctx, domain.CartLine{ProductID: "p1", Name: "Chair", Price: 100, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	lines, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(lines) != 1 || lines[0].Name != "Chair" {
		t.Fatalf("unexpected lines: %+v", lines)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if backend.Exists("cart:items:dev1") {
		t.Fatal("expected file gone after clear")
	}
}
