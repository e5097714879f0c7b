// Package httpclient provides the outbound HTTP client used to talk to
// external roster APIs.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/stacklok/rust-tracker/internal/logger"
)

const (
	// DefaultTimeout bounds a single request when no timeout is given
	DefaultTimeout = 10 * time.Second
	// DefaultMaxResponseSize caps response bodies
	DefaultMaxResponseSize int64 = 10 * 1024 * 1024
	// UserAgent is sent on every request
	UserAgent = "rust-tracker/1.0"
)

// Client fetches raw response bodies
type Client interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// DefaultClient is a resty backed Client
type DefaultClient struct {
	client          *resty.Client
	maxResponseSize int64
}

var _ Client = (*DefaultClient)(nil)

// Option configures a DefaultClient
type Option func(*DefaultClient)

// WithMaxResponseSize overrides the response body cap
func WithMaxResponseSize(size int64) Option {
	return func(c *DefaultClient) {
		if size > 0 {
			c.maxResponseSize = size
		}
	}
}

// WithHeader adds a header to every request
func WithHeader(key, value string) Option {
	return func(c *DefaultClient) {
		c.client.SetHeader(key, value)
	}
}

// WithTransport replaces the underlying round tripper
func WithTransport(rt http.RoundTripper) Option {
	return func(c *DefaultClient) {
		c.client.SetTransport(rt)
	}
}

// NewDefaultClient creates a client with the given per-request timeout.
// A zero timeout selects DefaultTimeout.
func NewDefaultClient(timeout time.Duration, opts ...Option) *DefaultClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rc := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{})

	c := &DefaultClient{
		client:          rc,
		maxResponseSize: DefaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request and returns the body of a 2xx response
func (c *DefaultClient) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if _, err := url.Parse(rawURL); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	body := resp.RawBody()
	defer func() {
		if body != nil {
			_ = body.Close()
		}
	}()

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, NewHTTPError(resp.StatusCode(), rawURL, http.StatusText(resp.StatusCode()))
	}

	if resp.RawResponse != nil && resp.RawResponse.ContentLength > c.maxResponseSize {
		return nil, c.sizeError(resp.RawResponse.ContentLength)
	}
	if body == nil {
		return []byte{}, nil
	}

	data, err := io.ReadAll(io.LimitReader(body, c.maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > c.maxResponseSize {
		return nil, c.sizeError(int64(len(data)))
	}
	return data, nil
}

func (c *DefaultClient) sizeError(size int64) error {
	return fmt.Errorf("response size (%.2f MB) exceeds maximum allowed size (%.2f MB)",
		float64(size)/(1024*1024), float64(c.maxResponseSize)/(1024*1024))
}

// restyLogger routes resty's internal messages to the tracker logger
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...any) { logger.Errorf(format, v...) }
func (restyLogger) Warnf(format string, v ...any)  { logger.Warnf(format, v...) }
func (restyLogger) Debugf(format string, v ...any) { logger.Debugf(format, v...) }
