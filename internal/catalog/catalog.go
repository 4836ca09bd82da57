// Package catalog reads the upstream product catalog. Responses are
// cached in Redis with a short TTL; the catalog is display data, not
// state this tier owns.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var errNotFound = errors.New("catalog entry not found")

// Product is a catalog entry as the upstream API returns it.
type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	BestSeller  bool     `json:"bestSeller"`
}

// Client fetches products from the upstream API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// List fetches the full product list.
func (c *Client) List(ctx context.Context) ([]Product, error) {
	var result struct {
		Success  *bool     `json:"success"`
		Message  string    `json:"message"`
		Products []Product `json:"products"`
	}
	if err := c.get(ctx, "/latest", &result); err != nil {
		return nil, err
	}
	if result.Success != nil && !*result.Success {
		return nil, fmt.Errorf("catalog list failed: %s", result.Message)
	}
	return result.Products, nil
}

// BestSelling fetches the best-seller subset.
func (c *Client) BestSelling(ctx context.Context) ([]Product, error) {
	var result struct {
		Success  *bool     `json:"success"`
		Message  string    `json:"message"`
		Products []Product `json:"products"`
	}
	if err := c.get(ctx, "/bestselling", &result); err != nil {
		return nil, err
	}
	if result.Success != nil && !*result.Success {
		return nil, fmt.Errorf("catalog bestselling failed: %s", result.Message)
	}
	return result.Products, nil
}

// Get fetches one product by id. The upstream returns the product object
// itself, not an envelope. A missing product is (nil, nil), not an error.
func (c *Client) Get(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.get(ctx, "/single/"+id, &product); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if product.ID == "" {
		return nil, nil
	}
	return &product, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request did not complete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("catalog request failed with status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}
