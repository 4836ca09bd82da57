// Package checkout places orders upstream from the canonical cart and
// handles the external payment redirect round trip.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// OrderItem is one line of an order request.
type OrderItem struct {
	ProductID string  `json:"productID"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Address is the delivery address collected at checkout.
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// Order is the upstream order record.
type Order struct {
	ID            string      `json:"_id"`
	Status        string      `json:"status"`
	Total         float64     `json:"amount"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	Items         []OrderItem `json:"items,omitempty"`
	PlacedAtRaw   string      `json:"createdAt,omitempty"`
}

// Placement is the result of submitting an order. For external payment
// methods the authorization URL carries the redirect to the provider.
type Placement struct {
	Order            *Order `json:"order"`
	Reference        string `json:"paystackReference,omitempty"`
	AuthorizationURL string `json:"authorization_url,omitempty"`
}

// Client talks to the upstream order endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an order API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Place submits a cash-on-delivery order.
func (c *Client) Place(ctx context.Context, token string, items []OrderItem, address Address) (*Placement, error) {
	payload := map[string]any{
		"items":         items,
		"address":       address,
		"paymentMethod": "cod",
	}
	return c.submit(ctx, token, "/place", payload)
}

// InitPaystack creates the order and initializes the external payment in
// one request. The caller redirects the shopper to the returned
// authorization URL.
func (c *Client) InitPaystack(ctx context.Context, token string, items []OrderItem, address Address, amount float64) (*Placement, error) {
	payload := map[string]any{
		"firstName": address.FirstName,
		"lastName":  address.LastName,
		"phone":     address.Phone,
		"country":   address.Country,
		"address":   address,
		"amount":    amount,
		"items":     items,
	}
	return c.submit(ctx, token, "/paystack/init", payload)
}

// GetOrder fetches one order for the confirmation page. A missing order
// is (nil, nil).
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*Order, error) {
	var result struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
		Order   *Order `json:"order"`
	}
	status, err := c.get(ctx, token, "/orders/"+orderID, &result)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status < 200 || status >= 300 || (result.Success != nil && !*result.Success) {
		return nil, fmt.Errorf("order lookup failed with status %d: %s", status, result.Message)
	}
	return result.Order, nil
}

// ListOrders fetches the session user's order history.
func (c *Client) ListOrders(ctx context.Context, token string) ([]Order, error) {
	var result struct {
		Success *bool   `json:"success"`
		Message string  `json:"message"`
		Orders  []Order `json:"orders"`
	}
	status, err := c.get(ctx, token, "/userOrders", &result)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 || (result.Success != nil && !*result.Success) {
		return nil, fmt.Errorf("order history failed with status %d: %s", status, result.Message)
	}
	return result.Orders, nil
}

func (c *Client) submit(ctx context.Context, token, path string, payload any) (*Placement, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order request did not complete: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Placement
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	failed := resp.StatusCode < 200 || resp.StatusCode >= 300 ||
		(result.Success != nil && !*result.Success) || result.Order == nil
	if failed {
		message := result.Message
		if message == "" {
			message = fmt.Sprintf("order placement failed with status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%s", message)
	}

	return &result.Placement, nil
}

func (c *Client) get(ctx context.Context, token, path string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("order request did not complete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode order response: %w", err)
	}
	return resp.StatusCode, nil
}
