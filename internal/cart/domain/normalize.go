package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The upstream cart API represents the product on each line either as a
// bare identifier string or as an embedded product object, depending on
// whether the server populated product details for the response. ProductRef
// models that union in one place; everything past the normalization
// boundary only ever sees CartLine.

// ProductDetail is the embedded-object shape of a product reference.
type ProductDetail struct {
	ID     string   `json:"_id"`
	Name   string   `json:"name"`
	Price  float64  `json:"price"`
	Image  string   `json:"image"`
	Images []string `json:"images"`
}

// ProductRef is a tagged union: exactly one of ID (bare identifier) or
// Detail (embedded object) is set after unmarshalling.
type ProductRef struct {
	ID     string
	Detail *ProductDetail
}

// UnmarshalJSON accepts both reference shapes.
func (r *ProductRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	var detail ProductDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return fmt.Errorf("product reference is neither an id nor an object: %w", err)
	}
	r.Detail = &detail
	return nil
}

// Embedded reports whether the reference carries a populated product.
func (r *ProductRef) Embedded() bool { return r.Detail != nil }

// LineRecord is one raw cart line as the upstream API returns it. The
// denormalized name/price/image fields may be present alongside either
// reference shape.
type LineRecord struct {
	Product  ProductRef `json:"productID"`
	Name     string     `json:"name"`
	Price    float64    `json:"price"`
	Image    string     `json:"image"`
	Images   []string   `json:"images"`
	Quantity int        `json:"quantity"`
}

// Normalize resolves a raw line into the canonical CartLine, preferring
// embedded-object fields and falling back to the denormalized fields on
// the record itself.
func (rec *LineRecord) Normalize() (CartLine, error) {
	line := CartLine{
		Name:     rec.Name,
		Price:    rec.Price,
		Image:    rec.Image,
		Quantity: rec.Quantity,
	}
	if line.Image == "" && len(rec.Images) > 0 {
		line.Image = rec.Images[0]
	}

	if rec.Product.Embedded() {
		d := rec.Product.Detail
		line.ProductID = d.ID
		if d.Name != "" {
			line.Name = d.Name
		}
		if d.Price != 0 {
			line.Price = d.Price
		}
		if len(d.Images) > 0 {
			line.Image = d.Images[0]
		} else if d.Image != "" {
			line.Image = d.Image
		}
	} else {
		line.ProductID = rec.Product.ID
	}

	if line.ProductID == "" {
		return CartLine{}, fmt.Errorf("cart line has no product identifier")
	}
	return line, nil
}

// NormalizeLines resolves a full response list. Lines with no resolvable
// identifier or a non-positive quantity are dropped rather than kept in an
// invalid state.
func NormalizeLines(records []LineRecord) []CartLine {
	lines := make([]CartLine, 0, len(records))
	for i := range records {
		line, err := records[i].Normalize()
		if err != nil || line.Quantity < 1 {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
