// Package auth proxies authentication to the upstream API. Token
// issuance and verification live upstream; this tier only forwards
// credentials and holds the issued token in the session.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/punkhazard/creative-furniture/pkg/logger"
)

// Client talks to the upstream authentication endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an auth API client.
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

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request did not complete: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || result.Token == "" {
		message := result.Message
		if message == "" {
			message = "login failed"
		}
		logger.Warn(ctx).
			Int("status", resp.StatusCode).
			Msg("Upstream login rejected")
		return "", fmt.Errorf("%s", message)
	}

	return result.Token, nil
}
