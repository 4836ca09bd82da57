package domain

import "context"

// CartLine is a single product entry in a cart. Name, price and image are
// snapshotted at add time and may drift from current catalog truth.
type CartLine struct {
	ProductID string  `json:"productID"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Cart is an ordered list of lines. Within a cart, ProductID is unique
// across lines and every quantity is >= 1.
type Cart struct {
	Lines []CartLine `json:"items"`
}

// Find returns the index of the line holding productID, or -1.
func (c *Cart) Find(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add merges a line into the cart: an existing line for the same product
// has its quantity incremented, otherwise the line is appended.
func (c *Cart) Add(line CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	if i := c.Find(line.ProductID); i >= 0 {
		c.Lines[i].Quantity += line.Quantity
		return
	}
	c.Lines = append(c.Lines, line)
}

// Remove deletes the line for productID regardless of quantity.
func (c *Cart) Remove(productID string) {
	i := c.Find(productID)
	if i < 0 {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total returns the cart total in the catalog currency.
func (c *Cart) Total() float64 {
	var total float64
	for i := range c.Lines {
		total += c.Lines[i].Price * float64(c.Lines[i].Quantity)
	}
	return total
}

// Count returns the summed quantity across all lines.
func (c *Cart) Count() int {
	var n int
	for i := range c.Lines {
		n += c.Lines[i].Quantity
	}
	return n
}

// Clone returns a deep copy so callers can snapshot the cart.
func (c *Cart) Clone() Cart {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

// MergeItem is the cross-boundary shape of a local line submitted to the
// upstream merge operation. Price and name are not trusted across the
// boundary; the server recomputes them from its own catalog.
type MergeItem struct {
	ProductID string `json:"productID"`
	Quantity  int    `json:"quantity"`
}

// MergeItems translates local lines into the upstream merge shape.
func MergeItems(lines []CartLine) []MergeItem {
	items := make([]MergeItem, 0, len(lines))
	for i := range lines {
		items = append(items, MergeItem{
			ProductID: lines[i].ProductID,
			Quantity:  lines[i].Quantity,
		})
	}
	return items
}

// LocalStore is the contract for the anonymous-session cart store.
type LocalStore interface {
	Load(ctx context.Context) ([]CartLine, error)
	Add(ctx context.Context, line CartLine) ([]CartLine, error)
	Increase(ctx context.Context, productID string) ([]CartLine, error)
	Decrease(ctx context.Context, productID string) ([]CartLine, error)
	Remove(ctx context.Context, productID string) ([]CartLine, error)
	Clear(ctx context.Context) error
}

// RemoteCart is the contract for the server-authoritative cart. Every
// mutating operation returns the complete resulting line list; callers
// replace their cached view with it in full, never patch incrementally.
type RemoteCart interface {
	FetchAll(ctx context.Context, token string) ([]CartLine, error)
	Add(ctx context.Context, token, productID string, quantity int) ([]CartLine, error)
	Increase(ctx context.Context, token, productID string) ([]CartLine, error)
	Decrease(ctx context.Context, token, productID string) ([]CartLine, error)
	Remove(ctx context.Context, token, productID string) ([]CartLine, error)
	Clear(ctx context.Context, token string) ([]CartLine, error)
	Merge(ctx context.Context, token string, items []MergeItem) ([]CartLine, error)
}
