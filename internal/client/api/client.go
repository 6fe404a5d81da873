package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/campus/internal/common"
	"github.com/dmitrijs2005/campus/internal/logging"
)

const (
	DefaultTimeout = 10 * time.Second

	maxPayloadBytes = 1 << 20
)

type options struct {
	timeout        time.Duration
	headers        http.Header
	transport      http.RoundTripper
	log            logging.Logger
	metrics        *Metrics
	onUnauthorized func(ctx context.Context)
}

type Option func(*options)

// WithTimeout sets the per-request deadline. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithDefaultHeaders adds headers sent with every request.
func WithDefaultHeaders(h http.Header) Option {
	return func(o *options) {
		for k, vs := range h {
			o.headers[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
		}
	}
}

// WithTransport replaces the underlying round tripper (tests, proxies).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithUnauthorizedHandler registers fn to run after a 401 answer to a request
// that carried a credential.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(o *options) { o.onUnauthorized = fn }
}

type Client struct {
	baseURL        string
	http           *http.Client
	log            logging.Logger
	metrics        *Metrics
	onUnauthorized func(ctx context.Context)
}

// New configures the pipeline: the base URL is resolved once here.
func New(resolver BaseURLResolver, tokens TokenSource, opts ...Option) (*Client, error) {
	o := options{
		timeout:   DefaultTimeout,
		headers:   http.Header{"Accept": {"application/json"}},
		transport: http.DefaultTransport,
		log:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	raw, err := resolver.ResolveBaseURL()
	if err != nil {
		return nil, err
	}
	base, err := validateBaseURL(raw)
	if err != nil {
		return nil, err
	}
	origin, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   o.timeout,
			Transport: &authTransport{base: o.transport, tokens: tokens, headers: o.headers, origin: origin},
		},
		log:            o.log.With("component", "api"),
		metrics:        o.metrics,
		onUnauthorized: o.onUnauthorized,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Ping checks backend liveness.
func (c *Client) Ping(ctx context.Context) error {
	return c.Get(ctx, "/health", nil)
}

// Do sends body (JSON-encoded when non-nil) and decodes a 2xx answer into out
// (skipped when out is nil). Every failure is an *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	err := c.do(ctx, method, path, body, out)
	c.metrics.observe(method, err, time.Since(start))

	if err == nil {
		return nil
	}

	e, _ := AsError(err)
	c.log.Warn(ctx, "request failed",
		"method", method,
		"path", path,
		"kind", e.Kind,
		"status", e.Status,
	)

	if e.Kind == KindUnauthorized && e.authenticated && c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	fail := func(kind Kind, status int, err error) *Error {
		return &Error{Kind: kind, Status: status, Method: method, Path: path, Err: err}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fail(KindUnknown, 0, fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fail(KindUnknown, 0, fmt.Errorf("build request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(kindForTransport(err), 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
		e := fail(kindForStatus(method, resp.StatusCode), resp.StatusCode, nil)
		e.Payload = normalizePayload(raw)
		e.authenticated = resp.Request != nil && resp.Request.Header.Get(common.AuthorizationHeaderName) != ""
		return e
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fail(KindUnknown, resp.StatusCode, errors.New("empty response body"))
		}
		kind := KindUnknown
		if kindForTransport(err) == KindTimeout {
			kind = KindTimeout
		}
		return fail(kind, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
