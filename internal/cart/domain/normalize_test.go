package domain

import (
	"encoding/json"
	"testing"
)

func TestProductRefBareID(t *testing.T) {
	var rec LineRecord
	raw := `{"productID":"p1","name":"Oak Chair","price":129.5,"image":"chair.jpg","quantity":2}`
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Product.Embedded() {
		t.Fatal("expected bare reference")
	}
	line, err := rec.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if line.ProductID != "p1" || line.Name != "Oak Chair" || line.Price != 129.5 || line.Quantity != 2 {
		t.Fatalf("unexpected line: %+v", line)
	}
}

func TestProductRefEmbeddedObject(t *testing.T) {
	var rec LineRecord
	raw := `{"productID":{"_id":"p2","name":"Walnut Table","price":899,"images":["front.jpg","side.jpg"]},"quantity":1}`
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !rec.Product.Embedded() {
		t.Fatal("expected embedded reference")
	}
	line, err := rec.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if line.ProductID != "p2" || line.Name != "Walnut Table" || line.Price != 899 {
		t.Fatalf("unexpected line: %+v", line)
	}
	if line.Image != "front.jpg" {
		t.Fatalf("expected first image, got %q", line.Image)
	}
}

func TestNormalizeEmbeddedWinsOverDenormalized(t *testing.T) {
	var rec LineRecord
	raw := `{"productID":{"_id":"p3","name":"Fresh Name","price":50},"name":"Stale Name","price":10,"quantity":1}`
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	line, err := rec.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if line.Name != "Fresh Name" || line.Price != 50 {
		t.Fatalf("embedded fields should win: %+v", line)
	}
}

func TestNormalizeLinesDropsInvalid(t *testing.T) {
	var records []LineRecord
	raw := `[
		{"productID":"good","name":"Sofa","price":499,"quantity":1},
		{"productID":"","name":"No ID","price":1,"quantity":1},
		{"productID":"zero-qty","name":"Lamp","price":25,"quantity":0}
	]`
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	lines := NormalizeLines(records)
	if len(lines) != 1 {
		t.Fatalf("expected 1 surviving line, got %d", len(lines))
	}
	if lines[0].ProductID != "good" {
		t.Fatalf("wrong survivor: %+v", lines[0])
	}
}

func TestCartAddMergesQuantities(t *testing.T) {
	var c Cart
	c.Add(CartLine{ProductID: "p1", Name: "Chair", Price: 100, Quantity: 2})
	c.Add(CartLine{ProductID: "p1", Quantity: 3})
	c.Add(CartLine{ProductID: "p2", Name: "Table", Price: 500, Quantity: 1})

	if len(c.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(c.Lines))
	}
	if c.Lines[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", c.Lines[0].Quantity)
	}
	if c.Count() != 6 {
		t.Fatalf("expected count 6, got %d", c.Count())
	}
	if c.Total() != 100*5+500 {
		t.Fatalf("unexpected total %f", c.Total())
	}
}

func TestMergeItems(t *testing.T) {
	items := MergeItems([]CartLine{
		{ProductID: "p1", Name: "Chair", Price: 100, Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ProductID != "p1" || items[0].Quantity != 2 {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}
