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
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gregjones/httpcache"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/quitq-dev/quitq/internal/session"
)

// ErrUnauthorized is returned when the backend rejects the credential
var ErrUnauthorized = errors.New("not authorized")

// APIError is a non-2xx response from the QuitQ backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap lets callers match 401/403 responses with errors.Is(err, ErrUnauthorized)
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// CredentialSource supplies the bearer credential for outgoing requests.
// *session.Store satisfies it.
type CredentialSource interface {
	Credential() string
}

// Client represents an HTTP client for the QuitQ API
type Client struct {
	baseURL       string
	httpClient    *http.Client
	catalogClient *http.Client
	log           zerolog.Logger
	maxTries      uint
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The bearer transport is
// layered on top of its transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithCache serves catalog reads (products and categories) through an
// in-memory HTTP cache that honours the backend's Cache-Control headers
func WithCache() Option {
	return func(c *Client) {
		c.catalogClient = &http.Client{}
	}
}

// WithLogger sets the logger used for retries and request tracing
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithMaxTries bounds the attempts made for idempotent reads
func WithMaxTries(n uint) Option {
	return func(c *Client) {
		c.maxTries = n
	}
}

// New creates a new API client rooted at baseURL (for example
// http://localhost:8080/api). Every request carries the credential of creds.
func New(baseURL string, creds CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zerolog.Nop(),
		maxTries:   3,
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	authed := &bearerTransport{base: base, creds: creds}

	c.httpClient = &http.Client{
		Transport:     authed,
		Timeout:       c.httpClient.Timeout,
		CheckRedirect: c.httpClient.CheckRedirect,
		Jar:           c.httpClient.Jar,
	}

	if c.catalogClient != nil {
		cache := httpcache.NewTransport(httpcache.NewMemoryCache())
		cache.Transport = authed
		c.catalogClient = &http.Client{Transport: cache, Timeout: c.httpClient.Timeout}
	} else {
		c.catalogClient = c.httpClient
	}

	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// bearerTransport attaches the current credential and a request ID to every request
type bearerTransport struct {
	base  http.RoundTripper
	creds CredentialSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", ulid.Make().String())
	}

	if t.creds != nil {
		if credential := session.StripBearer(t.creds.Credential()); credential != "" {
			req.Header.Set("Authorization", "Bearer "+credential)
		}
	}

	return t.base.RoundTrip(req)
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends a request with an optional JSON body and decodes a JSON response into out
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.send(ctx, c.httpClient, method, path, query, body, out)
}

func (c *Client) send(ctx context.Context, hc *http.Client, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	// Drain so connections are reused and the cache sees the end of the body
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Bool("cached", resp.Header.Get(httpcache.XFromCache) != "").
		Msg("API request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}

	if out == nil {
		return nil
	}

	// Some endpoints answer with a bare string such as "Registered Successfully"
	if s, ok := out.(*string); ok {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		*s = string(data)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// getJSON performs an idempotent read, retrying transport failures and 5xx
// responses with exponential backoff
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.retryGet(ctx, c.httpClient, path, query, out)
}

// getCatalog is getJSON through the catalog cache when it is enabled
func (c *Client) getCatalog(ctx context.Context, path string, query url.Values, out any) error {
	return c.retryGet(ctx, c.catalogClient, path, query, out)
}

func (c *Client) retryGet(ctx context.Context, hc *http.Client, path string, query url.Values, out any) error {
	operation := func() (struct{}, error) {
		err := c.send(ctx, hc, http.MethodGet, path, query, nil, out)
		if err != nil && !retryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.log.Debug().Err(err).Str("path", path).Dur("retry_in", next).Msg("Retrying API request")
		}),
	)
	return err
}

// retryable reports whether a failed read is worth another attempt: the
// request never got an answer, or the backend failed with a 5xx
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// newAPIError extracts the backend's message from an error response. The
// backend answers with either {"message": "..."} or a plain string.
func newAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error != "":
			msg = payload.Error
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
