package brightdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.brightdata.com"

// TransportError is returned for any failure at the HTTP boundary:
// network errors, timeouts, non-2xx statuses, and undecodable bodies.
type TransportError struct {
	Op     string // "submit search", "poll job", ...
	URL    string
	Status int   // 0 when the request never completed
	Err    error // underlying cause, nil for pure status errors
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client is a Bright Data API client. All outbound calls to the
// scraping gateway go through it.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Tests point this at an
// httptest.Server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a new Bright Data API client
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostJSON sends body as JSON to path (plus optional query parameters)
// and decodes the JSON response into out.
func (c *Client) PostJSON(ctx context.Context, op, path string, query url.Values, body any, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewBuffer(jsonBody))
	if err != nil {
		return &TransportError{Op: op, URL: u, Err: err}
	}
	return c.do(op, req, out)
}

// GetJSON issues a GET to path and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, op, path string, out any) error {
	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &TransportError{Op: op, URL: u, Err: err}
	}
	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	log.Printf("[BrightData] %s: %s %s", op, req.Method, req.URL.Path)

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Op: op, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &TransportError{
			Op:     op,
			URL:    req.URL.String(),
			Status: resp.StatusCode,
			Err:    fmt.Errorf("api error: %s", string(bodyBytes)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, URL: req.URL.String(), Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
