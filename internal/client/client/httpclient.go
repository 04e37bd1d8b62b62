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
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/salesdesk/internal/common"
	"github.com/dmitrijs2005/salesdesk/internal/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultRefreshTimeout = 15 * time.Second
)

// attempt numbers the tries of one logical request. Only a 401 on the
// first attempt earns a replay.
type attempt int

const (
	firstAttempt  attempt = 1
	replayAttempt attempt = 2
)

// HTTPClient talks to the backend REST API. It attaches the stored access
// token, refreshes it once on 401 and replays the request, and performs a
// hard logout when the session cannot be recovered.
type HTTPClient struct {
	baseURL        *url.URL
	httpClient     *http.Client
	tokens         TokenStore
	log            logging.Logger
	metrics        *metrics
	newRequestID   func() string
	refreshTimeout time.Duration

	refreshes singleflight.Group

	hooksMu sync.RWMutex
	hooks   []func(context.Context)
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-attempt timeout of the underlying *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		c.log = l
	}
}

// WithRegisterer registers the client metrics on reg instead of a private
// registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *HTTPClient) {
		c.metrics = newMetrics(reg)
	}
}

// WithRequestIDGenerator overrides the X-Request-ID source.
func WithRequestIDGenerator(fn func() string) Option {
	return func(c *HTTPClient) {
		c.newRequestID = fn
	}
}

// NewHTTPClient builds a client for the API rooted at baseURL, e.g.
// "https://api.example.com/api".
func NewHTTPClient(baseURL string, tokens TokenStore, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}
	if tokens == nil {
		return nil, errors.New("token store is required")
	}

	c := &HTTPClient{
		baseURL:        u,
		httpClient:     &http.Client{Timeout: defaultTimeout},
		tokens:         tokens,
		log:            logging.Discard(),
		newRequestID:   uuid.NewString,
		refreshTimeout: defaultRefreshTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newMetrics(prometheus.NewRegistry())
	}
	return c, nil
}

// OnAuthExpired registers fn to run after the tokens were cleared because
// the session could not be recovered. Hooks run synchronously on the
// goroutine of the failing request, so they must not block on it.
func (c *HTTPClient) OnAuthExpired(fn func(ctx context.Context)) {
	c.hooksMu.Lock()
	defer c.hooksMu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Request issues an authenticated request and decodes a 2xx JSON body into
// out (which may be nil). Errors are *NetworkError, *APIError or
// ErrAuthenticationExpired; storage failures come back wrapped as is.
func (c *HTTPClient) Request(ctx context.Context, method, path string, body any, query url.Values, out any) error {
	cl := call{method: method, path: path, body: body, query: query, requestID: c.newRequestID()}
	return c.do(ctx, cl, out, firstAttempt)
}

// Public issues a request without a bearer token. A 401 is returned as an
// ordinary *APIError: this path produces tokens, it never refreshes them.
func (c *HTTPClient) Public(ctx context.Context, method, path string, body any, out any) error {
	cl := call{method: method, path: path, body: body, requestID: c.newRequestID()}
	resp, err := c.send(ctx, cl, "")
	if err != nil {
		return err
	}
	return resp.decode(cl, out)
}

func (c *HTTPClient) do(ctx context.Context, cl call, out any, n attempt) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("read access token: %w", err)
	}

	resp, err := c.send(ctx, cl, token)
	if err != nil {
		return err
	}
	if resp.status != http.StatusUnauthorized {
		return resp.decode(cl, out)
	}

	if n == replayAttempt {
		c.expire(ctx, "replayed request rejected", cl.requestID)
		return ErrAuthenticationExpired
	}

	if err := c.refresh(ctx, token); err != nil {
		return err
	}
	return c.do(ctx, cl, out, replayAttempt)
}

// expire performs the hard logout: tokens are dropped and every hook is
// notified. Workspace state is not touched.
func (c *HTTPClient) expire(ctx context.Context, reason, requestID string) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear tokens", "error", err)
	}
	c.log.Warn(ctx, "session expired", "reason", reason, "request_id", requestID)
	c.metrics.expiries.Inc()

	c.hooksMu.RLock()
	hooks := slices.Clone(c.hooks)
	c.hooksMu.RUnlock()

	for _, h := range hooks {
		h(ctx)
	}
}

type call struct {
	method    string
	path      string
	body      any
	query     url.Values
	requestID string
}

type response struct {
	status int
	body   []byte
}

func (c *HTTPClient) send(ctx context.Context, cl call, token string) (*response, error) {
	u := c.baseURL.JoinPath(cl.path)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	var reader io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, cl.requestID)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(cl.method, 0, time.Since(start))
		return nil, &NetworkError{Op: cl.method + " " + cl.path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.observe(cl.method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, &NetworkError{Op: "read " + cl.path, Err: err}
	}

	c.log.Debug(ctx, "api call", "method", cl.method, "path", cl.path, "status", resp.StatusCode, "request_id", cl.requestID)
	return &response{status: resp.StatusCode, body: body}, nil
}

func (r *response) decode(cl call, out any) error {
	if r.status < 200 || r.status > 299 {
		return newAPIError(r.status, r.body)
	}
	if out == nil || len(bytes.TrimSpace(r.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return &NetworkError{Op: "decode " + cl.path, Err: err}
	}
	return nil
}
