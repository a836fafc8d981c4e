package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Checker-Finance/maturity-client/internal/apierr"
	"github.com/Checker-Finance/maturity-client/internal/metrics"
	"github.com/Checker-Finance/maturity-client/internal/navigation"
	"github.com/Checker-Finance/maturity-client/internal/rate"
	"github.com/Checker-Finance/maturity-client/pkg/utils"
)

// DefaultTimeout applies when neither config nor the call sets one.
const DefaultTimeout = 60 * time.Second

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Session supplies the bearer token and forgets it on auth failure.
type Session interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// AuthFailureHandler is told, asynchronously, that the server rejected the
// session. It replaces any direct dependency from the client on the
// auth-state holder.
type AuthFailureHandler interface {
	OnAuthFailure(ctx context.Context, err *apierr.Error)
}

// AuthFailureFunc adapts a function to AuthFailureHandler.
type AuthFailureFunc func(ctx context.Context, err *apierr.Error)

func (f AuthFailureFunc) OnAuthFailure(ctx context.Context, err *apierr.Error) { f(ctx, err) }

// RequestOptions describes one call. Zero values mean defaults.
type RequestOptions struct {
	Method  string
	Body    any
	Headers map[string]string
	Params  Params
	Timeout time.Duration
}

// Client is the single choke point for calls to the assessment API.
type Client struct {
	logger   *zap.Logger
	http     Doer
	baseURL  string
	timeout  time.Duration
	session  Session
	onAuth   AuthFailureHandler
	nav      navigation.Navigator
	rateMgr  *rate.Manager
	asyncRun func(func())
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport, mainly for tests.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithSession sets the credential source.
func WithSession(s Session) Option {
	return func(c *Client) { c.session = s }
}

// WithAuthFailureHandler registers the sign-out callback.
func WithAuthFailureHandler(h AuthFailureHandler) Option {
	return func(c *Client) { c.onAuth = h }
}

// WithNavigator lets the client send the interface layer back to sign-in.
func WithNavigator(n navigation.Navigator) Option {
	return func(c *Client) { c.nav = n }
}

// WithRateLimit gates calls per route group. A nil manager disables it.
func WithRateLimit(m *rate.Manager) Option {
	return func(c *Client) { c.rateMgr = m }
}

// New creates a Client for baseURL. A non-positive timeout uses DefaultTimeout.
func New(logger *zap.Logger, baseURL string, timeout time.Duration, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		logger:   logger,
		http:     &http.Client{},
		baseURL:  baseURL,
		timeout:  timeout,
		asyncRun: func(f func()) { go f() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, path string, opts *RequestOptions) (*Response, error) {
	return c.Request(ctx, path, withMethod(opts, http.MethodGet, nil, false))
}

func (c *Client) Post(ctx context.Context, path string, body any, opts *RequestOptions) (*Response, error) {
	return c.Request(ctx, path, withMethod(opts, http.MethodPost, body, true))
}

func (c *Client) Put(ctx context.Context, path string, body any, opts *RequestOptions) (*Response, error) {
	return c.Request(ctx, path, withMethod(opts, http.MethodPut, body, true))
}

func (c *Client) Patch(ctx context.Context, path string, body any, opts *RequestOptions) (*Response, error) {
	return c.Request(ctx, path, withMethod(opts, http.MethodPatch, body, true))
}

func (c *Client) Delete(ctx context.Context, path string, opts *RequestOptions) (*Response, error) {
	return c.Request(ctx, path, withMethod(opts, http.MethodDelete, nil, false))
}

func withMethod(opts *RequestOptions, method string, body any, setBody bool) RequestOptions {
	var o RequestOptions
	if opts != nil {
		o = *opts
	}
	o.Method = method
	if setBody {
		o.Body = body
	}
	return o
}

// outcome is what the transport goroutine hands back.
type outcome struct {
	resp *http.Response
	body []byte
	err  error
}

// Request performs one call. Failures are returned raw: *HTTPError for a
// non-2xx reply, *apierr.TimeoutError when the deadline fires first, or the
// transport error when no response arrived. A 401/403 additionally clears
// the stored credential, notifies the auth handler and, outside the auth
// pages, navigates to sign-in.
//
// The timeout races the transport call; the losing call is not cancelled and
// its result is dropped when it eventually arrives.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (*Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	route := rate.RouteGroup(path)

	if err := c.rateMgr.Wait(ctx, route); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		resp, err := c.http.Do(req)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		done <- outcome{resp: resp, body: body, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var res outcome
	select {
	case res = <-done:
	case <-timer.C:
		metrics.IncTimeout(route)
		metrics.ObserveRequest(route, method, 0, start)
		c.logger.Warn("api.timeout",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("timeout", timeout))
		return nil, &apierr.TimeoutError{Method: method, Path: path, Limit: timeout}
	case <-ctx.Done():
		metrics.ObserveRequest(route, method, 0, start)
		return nil, ctx.Err()
	}

	if res.err != nil && res.resp == nil {
		metrics.ObserveRequest(route, method, 0, start)
		c.logger.Warn("api.http_failed",
			zap.String("method", method),
			zap.String("url", req.URL.String()),
			zap.Error(res.err))
		return nil, res.err
	}

	status := res.resp.StatusCode
	metrics.ObserveRequest(route, method, status, start)
	if res.err != nil {
		c.logger.Warn("api.read_failed",
			zap.String("url", req.URL.String()),
			zap.Int("status", status),
			zap.Error(res.err))
		return nil, fmt.Errorf("read response body: %w", res.err)
	}

	if status < 200 || status > 299 {
		data, _ := decodeBody(res.resp.Header.Get("Content-Type"), res.body)
		httpErr := &HTTPError{
			Status:     status,
			StatusText: statusText(res.resp),
			Data:       data,
			Headers:    res.resp.Header,
		}
		c.logger.Warn("api.http_error",
			zap.String("method", method),
			zap.String("url", req.URL.String()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)))
		if ce := apierr.Classify(httpErr); ce.Kind == apierr.KindAuth {
			c.handleAuthFailure(ctx, ce)
		}
		return nil, httpErr
	}

	out, err := newResponse(res.resp, res.body)
	if err != nil {
		c.logger.Warn("api.decode_failed",
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return nil, err
	}

	c.logger.Debug("api.http_success",
		zap.String("method", method),
		zap.String("url", req.URL.String()),
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, opts RequestOptions) (*http.Request, error) {
	body, contentType, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, buildURL(c.baseURL, path, opts.Params), body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", jsonContentType)
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.session != nil {
		token, err := c.session.Token(ctx)
		if err != nil {
			c.logger.Warn("api.session_read_failed", zap.Error(err))
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	mergeHeaders(req.Header, opts.Headers)
	return req, nil
}

// handleAuthFailure clears the stored credential, notifies the auth-state
// holder off the caller's goroutine, and sends the user to sign-in unless
// they are already on an auth page.
func (c *Client) handleAuthFailure(ctx context.Context, ce *apierr.Error) {
	metrics.IncAuthFailure()

	var token string
	if c.session != nil {
		token, _ = c.session.Token(ctx)
		if err := c.session.Clear(ctx); err != nil {
			c.logger.Warn("api.session_clear_failed", zap.Error(err))
		}
	}
	c.logger.Warn("api.auth_failure",
		zap.Int("status", ce.StatusCode),
		zap.String("message", ce.Message),
		zap.String("token", utils.MaskToken(token)))

	if c.onAuth != nil {
		handler := c.onAuth
		notifyCtx := context.WithoutCancel(ctx)
		c.asyncRun(func() { handler.OnAuthFailure(notifyCtx, ce) })
	}

	if c.nav != nil && !navigation.IsAuthRoute(c.nav.Location()) {
		c.nav.Navigate(navigation.SignInRoute)
	}
}

// IsHTTPError reports whether err is a non-2xx response with the given status.
func IsHTTPError(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == status
}
