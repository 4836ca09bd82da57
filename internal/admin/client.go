// Package admin serves the back-office dashboard. Metrics come from the
// upstream API and are cached in Redis; the cache is invalidated when an
// order placed event arrives so dashboards stay close to live without
// hammering upstream.
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// MetricsQuery selects the slice of dashboard data to fetch.
type MetricsQuery struct {
	TimePeriod   string
	OrdersPage   int
	ProductsPage int
	PageSize     int
}

func (q MetricsQuery) normalize() MetricsQuery {
	if q.TimePeriod == "" {
		q.TimePeriod = "weekly"
	}
	if q.OrdersPage < 1 {
		q.OrdersPage = 1
	}
	if q.ProductsPage < 1 {
		q.ProductsPage = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 5
	}
	return q
}

// Client talks to the upstream dashboard endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a dashboard API client.
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

// DashboardMetrics fetches the full dashboard payload. The payload is
// passed through untouched; its shape belongs to upstream.
func (c *Client) DashboardMetrics(ctx context.Context, token string, query MetricsQuery) (json.RawMessage, error) {
	query = query.normalize()
	params := url.Values{}
	params.Set("timePeriod", query.TimePeriod)
	params.Set("ordersPage", strconv.Itoa(query.OrdersPage))
	params.Set("productsPage", strconv.Itoa(query.ProductsPage))
	params.Set("pageSize", strconv.Itoa(query.PageSize))

	return c.get(ctx, token, "/dashMetrics?"+params.Encode())
}

// Metric fetches a single named metric series.
func (c *Client) Metric(ctx context.Context, token, metricType, timePeriod string) (json.RawMessage, error) {
	if timePeriod == "" {
		timePeriod = "weekly"
	}
	params := url.Values{}
	params.Set("timePeriod", timePeriod)

	return c.get(ctx, token, "/metrics/"+url.PathEscape(metricType)+"?"+params.Encode())
}

func (c *Client) get(ctx context.Context, token, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashboard request did not complete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("dashboard request failed with status %d", resp.StatusCode)
	}

	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard response: %w", err)
	}
	return payload, nil
}
