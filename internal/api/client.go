// Package api implements the HTTP transport to the vault server: a
// small form-encoded POST client with exponential-backoff retry, kept
// deliberately dumb about response bodies (XML, raw blob, or bare
// text, depending on endpoint) so internal/api/endpoints.go can parse
// each one on its own terms.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vaultkeep/lpass-go/internal/apierrors"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second
)

// DefaultRetryOn contains the default HTTP status codes that trigger a retry.
var DefaultRetryOn = []int{408, 429, 500, 502, 503, 504}

// Client is the vault server's HTTP transport: every call is a
// POST https://<server>/<endpoint> with an
// application/x-www-form-urlencoded body, per spec §6.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	retryDelay time.Duration
	retryOn    []int
}

// New builds a transport Client rooted at baseURL (scheme + host, no
// trailing slash), configured via [Option] functions.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		retryOn:    DefaultRetryOn,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Option configures the transport Client.
type Option func(*Client)

// WithRetries sets the number of retries.
func WithRetries(retries int) Option {
	return func(c *Client) { c.maxRetries = retries }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
func WithRetryOn(statusCodes []int) Option {
	return func(c *Client) { c.retryOn = statusCodes }
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostForm issues a form-encoded POST to endpoint (e.g. "login.php")
// and returns the raw response body. It retries with exponential
// backoff on the configured status codes and on network-level
// failures. One request-correlation id is generated per PostForm call
// and sent as X-Request-Id on every attempt of that call.
func (c *Client) PostForm(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		body, status, err := c.doPost(ctx, endpoint, params, requestID)
		if err != nil {
			lastErr = &apierrors.NetworkError{Err: err, Endpoint: endpoint, Attempt: attempt}
			continue
		}

		if c.isRetryable(status) && attempt < c.maxRetries {
			lastErr = &apierrors.APIError{StatusCode: status, Endpoint: endpoint, RequestID: requestID}
			continue
		}

		if status >= 400 {
			return nil, &apierrors.APIError{StatusCode: status, Endpoint: endpoint, RequestID: requestID, Body: string(body)}
		}

		return body, nil
	}

	return nil, lastErr
}

func (c *Client) doPost(ctx context.Context, endpoint string, params url.Values, requestID string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Request-Id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

func (c *Client) isRetryable(statusCode int) bool {
	for _, code := range c.retryOn {
		if statusCode == code {
			return true
		}
	}
	return false
}
