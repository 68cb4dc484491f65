package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout  = 30 * time.Second
	requestIDHeader = "X-Request-ID"
)

// TokenSource supplies the bearer token for authenticated requests
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to a TokenSource
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// UnauthorizedHandler is called when the API rejects a request's token
type UnauthorizedHandler func(ctx context.Context)

// Client represents an HTTP client for the AgriMarket API
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHandler
	log            zerolog.Logger
	// timeout bounds each request, whichever HTTP client is in use
	timeout time.Duration

	// expiring guards against re-entrant 401 handling
	expiring sync.Mutex
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTokenSource sets where bearer tokens come from
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) { c.tokens = tokens }
}

// WithUnauthorizedHandler sets the session expiration hook
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

// WithLogger sets the client logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeout bounds every request, including those made through a client
// set with WithHTTPClient
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a new API client. baseURL is the API root, for example
// "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "api").Logger()
	return c
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one API call
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// auth attaches the bearer token when one is available
	auth bool
}

// do performs the request and decodes a 2xx JSON response into out. out may
// be nil, or a *json.RawMessage to receive the body verbatim.
func (c *Client) do(ctx context.Context, r request, out any) error {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(r.path, "/"))
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		jsonData, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	sentToken := false
	if r.auth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
			sentToken = true
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("request_id", requestID).Str("method", r.method).Str("path", r.path).Msg("Request failed")
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("request_id", requestID).
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Request completed")

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Method: r.method,
			Path:   r.path,
			Status: resp.StatusCode,
			Body:   string(respBody),
		}
		if resp.StatusCode == http.StatusUnauthorized && sentToken {
			c.expire(ctx)
			return fmt.Errorf("%w: %w", ErrSessionExpired, apiErr)
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], respBody...)
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// expire runs the unauthorized hook. A hook that itself issues requests
// cannot trigger a second expiry.
func (c *Client) expire(ctx context.Context) {
	if c.onUnauthorized == nil {
		return
	}
	if !c.expiring.TryLock() {
		return
	}
	defer c.expiring.Unlock()

	c.log.Warn().Msg("API rejected the session token")
	c.onUnauthorized(ctx)
}

// IsUnavailable reports whether err means the API could not be reached or
// answered with a server error
func IsUnavailable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return err != nil && !errors.Is(err, ErrSessionExpired)
}
