package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Config holds the configuration for connecting to the Trapline API.
type Config struct {
	APIURL string // Base URL, e.g. "http://localhost:8080"
	APIKey string // API key, e.g. "sk_..."
}

// TraplineClient is a pure HTTP client for the Trapline API.
type TraplineClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewTraplineClient creates a new client for the Trapline API.
func NewTraplineClient(cfg Config) *TraplineClient {
	return &TraplineClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiError represents an error response from the API.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doRequest makes an HTTP request to the API and returns the response body.
func (c *TraplineClient) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.APIURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

// SendMessage feeds one scammer message into a honeypot session.
func (c *TraplineClient) SendMessage(ctx context.Context, sessionID, sender, text string, ts time.Time) (json.RawMessage, error) {
	body := map[string]any{
		"sessionId": sessionID,
		"message": map[string]any{
			"sender":    sender,
			"text":      text,
			"timestamp": ts,
		},
	}
	return c.doRequest(ctx, http.MethodPost, "/v1/honeypot/message", nil, body)
}

// GetSession returns the live state of a honeypot session.
func (c *TraplineClient) GetSession(ctx context.Context, sessionID string) (json.RawMessage, error) {
	path := "/v1/honeypot/sessions/" + url.PathEscape(sessionID)
	return c.doRequest(ctx, http.MethodGet, path, nil, nil)
}

// GetReport returns the current intelligence report for a session.
func (c *TraplineClient) GetReport(ctx context.Context, sessionID string) (json.RawMessage, error) {
	path := "/v1/honeypot/sessions/" + url.PathEscape(sessionID) + "/report"
	return c.doRequest(ctx, http.MethodGet, path, nil, nil)
}

// Health returns the server health summary.
func (c *TraplineClient) Health(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/health", nil, nil)
}

// Whoami returns the authenticated key's identity.
func (c *TraplineClient) Whoami(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/auth/me", nil, nil)
}
