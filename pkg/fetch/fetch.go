// Package fetch is a small JSON-first HTTP client.
//
//	api := fetch.New("https://api.example.com")
//	api.SetHeader("Authorization", "Bearer "+token)
//
//	var users []User
//	if _, err := api.Get(ctx, "/users", fetch.Into(&users)); err != nil {
//	    var se *fetch.StatusError
//	    if errors.As(err, &se) && se.Status == 404 { ... }
//	}
//
// Responses whose content type contains application/json are decoded;
// anything else is returned as a string. Non-2xx responses become a
// *StatusError carrying the decoded body.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/xwui-dev/xwui/pkg/loop"
	"github.com/xwui-dev/xwui/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for request spans.
const defaultTracerName = "xwui/fetch"

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status     int
	StatusText string
	// Data is the decoded response body.
	Data any
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: %d %s", e.Status, e.StatusText)
}

// Client sends requests relative to a base URL. Configure it before use;
// SetBaseURL and SetHeader are not safe to call concurrently with
// requests.
type Client struct {
	baseURL string
	headers http.Header
	http    *http.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics counts requests.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Client) { c.tracer = otel.Tracer(name) }
}

// New creates a client. Requests carry Content-Type: application/json
// unless overridden.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		headers: http.Header{"Content-Type": []string{"application/json"}},
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
		tracer:  otel.Tracer(defaultTracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetBaseURL replaces the base URL.
func (c *Client) SetBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// BaseURL returns the base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// SetHeader sets a default header sent with every request.
func (c *Client) SetHeader(key, value string) *Client {
	c.headers.Set(key, value)
	return c
}

type requestConfig struct {
	headers http.Header
	into    any
}

// RequestOption configures one request.
type RequestOption func(*requestConfig)

// WithHeader sets a header for one request, overriding the defaults.
func WithHeader(key, value string) RequestOption {
	return func(rc *requestConfig) { rc.headers.Set(key, value) }
}

// Into decodes a successful JSON response into dst instead of an any.
func Into(dst any) RequestOption {
	return func(rc *requestConfig) { rc.into = dst }
}

// Request sends method to baseURL+endpoint. A non-nil data is sent as a
// JSON body. The result is the decoded body: a JSON value, a string, or
// the Into destination.
func (c *Client) Request(ctx context.Context, method, endpoint string, data any, opts ...RequestOption) (any, error) {
	rc := requestConfig{headers: http.Header{}}
	for _, opt := range opts {
		opt(&rc)
	}

	url := c.baseURL + endpoint
	ctx, span := c.tracer.Start(ctx, "xwui.fetch "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", url),
		),
	)
	defer span.End()

	start := time.Now()
	result, status, err := c.do(ctx, method, url, data, rc)
	c.metrics.RecordHTTP(method, status, time.Since(start))

	if status > 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("fetch failed", "method", method, "url", url, "error", err)
		return result, err
	}
	span.SetStatus(codes.Ok, "")
	return result, nil
}

func (c *Client) do(ctx context.Context, method, url string, data any, rc requestConfig) (any, int, error) {
	var body io.Reader
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range rc.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")

	if ok && isJSON && rc.into != nil {
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, rc.into); err != nil {
				return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
			}
		}
		return rc.into, resp.StatusCode, nil
	}

	var result any = string(raw)
	if isJSON && len(raw) > 0 {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			if ok {
				return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
			}
		} else {
			result = v
		}
	}

	if !ok {
		return nil, resp.StatusCode, &StatusError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Data:       result,
		}
	}
	return result, resp.StatusCode, nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, opts ...RequestOption) (any, error) {
	return c.Request(ctx, http.MethodGet, endpoint, nil, opts...)
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, data any, opts ...RequestOption) (any, error) {
	return c.Request(ctx, http.MethodPost, endpoint, data, opts...)
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, data any, opts ...RequestOption) (any, error) {
	return c.Request(ctx, http.MethodPut, endpoint, data, opts...)
}

// Patch sends a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, data any, opts ...RequestOption) (any, error) {
	return c.Request(ctx, http.MethodPatch, endpoint, data, opts...)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, opts ...RequestOption) (any, error) {
	return c.Request(ctx, http.MethodDelete, endpoint, nil, opts...)
}

// Async sends the request on a new goroutine and posts done to p with the
// result. done runs on p, so it may touch the document.
func (c *Client) Async(ctx context.Context, p loop.Poster, method, endpoint string, data any, done func(any, error), opts ...RequestOption) {
	go func() {
		result, err := c.Request(ctx, method, endpoint, data, opts...)
		if !p.Post(func() { done(result, err) }) {
			c.logger.Warn("fetch result dropped, loop stopped", "method", method, "endpoint", endpoint)
		}
	}()
}
