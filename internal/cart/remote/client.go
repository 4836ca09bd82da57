// Package remote wraps the authoritative server-side cart API. Every
// mutating operation returns the complete resulting line list; the caller
// replaces its cached view with it in full.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/pkg/logger"
)

// Client talks to the upstream cart endpoints with bearer authentication.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a cart API client with an OTel-instrumented transport.
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

// FetchAll fetches the full cart.
func (c *Client) FetchAll(ctx context.Context, token string) ([]domain.CartLine, error) {
	return c.do(ctx, "fetch", http.MethodGet, "/cart/items", nil, token)
}

// Add adds quantity of a product to the cart.
func (c *Client) Add(ctx context.Context, token, productID string, quantity int) ([]domain.CartLine, error) {
	payload := map[string]any{"productID": productID, "quantity": quantity}
	return c.do(ctx, "add", http.MethodPost, "/cart/add", payload, token)
}

// Increase raises a line's quantity by one.
func (c *Client) Increase(ctx context.Context, token, productID string) ([]domain.CartLine, error) {
	payload := map[string]any{"productID": productID}
	return c.do(ctx, "increase", http.MethodPost, "/cart/increase", payload, token)
}

// Decrease lowers a line's quantity by one. The server applies the same
// floor as the local store: a line at quantity 1 stays at 1.
func (c *Client) Decrease(ctx context.Context, token, productID string) ([]domain.CartLine, error) {
	payload := map[string]any{"productID": productID}
	return c.do(ctx, "decrease", http.MethodPost, "/cart/decrease", payload, token)
}

// Remove deletes a line entirely.
func (c *Client) Remove(ctx context.Context, token, productID string) ([]domain.CartLine, error) {
	payload := map[string]any{"productID": productID}
	return c.do(ctx, "remove", http.MethodPost, "/cart/remove", payload, token)
}

// Clear empties the cart.
func (c *Client) Clear(ctx context.Context, token string) ([]domain.CartLine, error) {
	return c.do(ctx, "clear", http.MethodDelete, "/cart/clear", nil, token)
}

// Merge submits anonymous-session lines in a single batched request and
// returns the post-merge cart.
func (c *Client) Merge(ctx context.Context, token string, items []domain.MergeItem) ([]domain.CartLine, error) {
	payload := map[string]any{"items": items}
	return c.do(ctx, "merge", http.MethodPost, "/cart/merge", payload, token)
}

// cartEnvelope is the upstream response wrapper. Success is a pointer so
// responses without the flag (bare lists) are not read as failures.
type cartEnvelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Items []domain.LineRecord `json:"items"`
	} `json:"data"`
}

func (c *Client) do(ctx context.Context, op, method, path string, payload any, token string) ([]domain.CartLine, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}

	records, remoteErr := decodeCartResponse(op, resp.StatusCode, raw)
	if remoteErr != nil {
		logger.Warn(ctx).
			Str("op", op).
			Int("status", resp.StatusCode).
			Msg("Upstream cart operation failed")
		return nil, remoteErr
	}

	return domain.NormalizeLines(records), nil
}

// decodeCartResponse accepts both upstream response formats: the
// {success, message, data:{items}} envelope and a bare line list.
func decodeCartResponse(op string, status int, raw []byte) ([]domain.LineRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if status < 200 || status >= 300 {
			return nil, &domain.RemoteCartError{Op: op, StatusCode: status}
		}
		var records []domain.LineRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, &domain.RemoteCartError{Op: op, StatusCode: status, Message: "unexpected response format"}
		}
		return records, nil
	}

	var envelope cartEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		if status < 200 || status >= 300 {
			return nil, &domain.RemoteCartError{Op: op, StatusCode: status}
		}
		return nil, &domain.RemoteCartError{Op: op, StatusCode: status, Message: "unexpected response format"}
	}

	failed := status < 200 || status >= 300 ||
		(envelope.Success != nil && !*envelope.Success)
	if failed {
		return nil, &domain.RemoteCartError{Op: op, StatusCode: status, Message: envelope.Message}
	}

	return envelope.Data.Items, nil
}
