// Package httpjson is the JSON-over-HTTP transport shared by the external
// collaborator adapters.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iho/chitledger/internal/domain"
)

const maxResponseBytes = 1 << 20

// ErrUnavailable marks transport failures and 5xx responses.
var ErrUnavailable = errors.New("collaborator unavailable")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Is lets 5xx responses match ErrUnavailable.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnavailable && e.StatusCode >= http.StatusInternalServerError
}

// Validator is implemented by response types that check required fields.
type Validator interface {
	Validate() error
}

// Option configures a Client.
type Option func(*Client)

// WithBasicAuth sends HTTP basic credentials on every request.
func WithBasicAuth(user, password string) Option {
	return func(c *Client) {
		c.decorate = append(c.decorate, func(r *http.Request) { r.SetBasicAuth(user, password) })
	}
}

// WithBearerToken sends an Authorization bearer token on every request.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		if token == "" {
			return
		}
		c.decorate = append(c.decorate, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
	}
}

// WithHeader sets a fixed header on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.decorate = append(c.decorate, func(r *http.Request) { r.Header.Set(key, value) })
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Client sends JSON requests to one base URL.
type Client struct {
	baseURL  string
	http     *http.Client
	decorate []func(*http.Request)
}

// New creates a Client. timeout bounds each request, including reading the body.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends in as the JSON body (nil for none) and decodes the response into
// out. A body that does not decode, or fails out's Validate, yields
// domain.ErrMalformedResponse.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, d := range c.decorate {
		d(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, ctxErr)
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(data), 256),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
		}
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
