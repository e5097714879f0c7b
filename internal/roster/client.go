package roster

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/rust-tracker/internal/httpclient"
	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/names"
	"github.com/stacklok/rust-tracker/internal/otel"
)

const (
	// DefaultBaseURL is the public BattleMetrics API
	DefaultBaseURL = "https://api.battlemetrics.com"
	// DefaultMaxPages bounds pagination
	DefaultMaxPages = 50
	// DefaultPageAttempts is how many times a single page is tried
	DefaultPageAttempts = 3
	// PageSize is the page size requested from the API
	PageSize = 100

	// TracerName is the instrumentation name of roster spans
	TracerName = "github.com/stacklok/rust-tracker/roster"
)

// Client is the BattleMetrics implementation of Fetcher
type Client struct {
	http         httpclient.Client
	baseURL      string
	maxPages     int
	pageAttempts uint
	retryBase    time.Duration
	normalize    names.Normalizer
	tracer       trace.Tracer
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithMaxPages overrides the pagination cap
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithPageAttempts sets how many times one page is tried before giving up
func WithPageAttempts(n uint, base time.Duration) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageAttempts = n
		}
		if base > 0 {
			c.retryBase = base
		}
	}
}

// WithNormalizer sets the name normalizer
func WithNormalizer(n names.Normalizer) Option {
	return func(c *Client) {
		if n != nil {
			c.normalize = n
		}
	}
}

// WithTracer enables spans around roster fetches
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// NewClient creates a roster client on top of an HTTP client. The HTTP client
// carries the per-request timeout.
func NewClient(httpClient httpclient.Client, opts ...Option) *Client {
	c := &Client{
		http:         httpClient,
		baseURL:      DefaultBaseURL,
		maxPages:     DefaultMaxPages,
		pageAttempts: DefaultPageAttempts,
		retryBase:    500 * time.Millisecond,
		normalize:    names.Normalize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// firstPageURL builds the online-players query for a server
func (c *Client) firstPageURL(sourceID string) string {
	return fmt.Sprintf("%s/players?filter[servers]=%s&filter[online]=true&page[size]=%d",
		c.baseURL, url.QueryEscape(sourceID), PageSize)
}

// FetchOnlineRoster follows links.next until it is absent or the page cap is
// hit. A failure after the first page yields a partial roster and no error.
func (c *Client) FetchOnlineRoster(ctx context.Context, sourceID string) (*Roster, error) {
	ctx, span := otel.StartSpan(ctx, c.tracer, "roster.FetchOnlineRoster",
		trace.WithAttributes(otel.AttrRosterSource.String(sourceID)))
	defer span.End()

	r := NewRoster(sourceID)
	next := c.firstPageURL(sourceID)

	for next != "" {
		if r.Pages >= c.maxPages {
			logger.Warnf("Roster for source %s exceeded %d pages, stopping", sourceID, c.maxPages)
			r.Complete = false
			break
		}

		body, err := c.fetchPage(ctx, next)
		if err != nil {
			if r.Pages == 0 {
				err = fmt.Errorf("%w: source %s: %w", ErrRosterUnavailable, sourceID, err)
				otel.RecordError(span, err)
				return nil, err
			}
			logger.Warnf("Roster page %d for source %s failed, using partial roster: %v", r.Pages+1, sourceID, err)
			r.Complete = false
			break
		}

		parsed := gjson.ParseBytes(body)
		for _, n := range parsed.Get("data.#.attributes.name").Array() {
			if name := c.normalize(n.String()); name != "" {
				r.Names[name] = struct{}{}
			}
		}
		r.Pages++
		next = parsed.Get("links.next").String()
	}

	span.SetAttributes(
		otel.AttrRosterPages.Int(r.Pages),
		otel.AttrResultCount.Int(r.Len()),
	)
	logger.Debugf("Fetched roster for source %s: %d players across %d pages (complete=%t)",
		sourceID, r.Len(), r.Pages, r.Complete)
	return r, nil
}

// fetchPage gets one page, retrying transient failures with exponential backoff
func (c *Client) fetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryBase

	return backoff.Retry(ctx, func() ([]byte, error) {
		body, err := c.http.Get(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil || !retryable(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		if !gjson.ValidBytes(body) {
			return nil, backoff.Permanent(fmt.Errorf("invalid JSON in roster page"))
		}
		return body, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(c.pageAttempts))
}

// retryable reports whether a page error may succeed on retry. Transport
// errors and timeouts are retried, client errors other than 429 are not.
func retryable(err error) bool {
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
