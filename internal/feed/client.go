// Package feed fetches element sets from public orbit data services.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-orbits/internal/logging"
	"github.com/litescript/ls-orbits/internal/metrics"
	"github.com/litescript/ls-orbits/internal/version"
)

const (
	// DefaultTimeout bounds a single HTTP attempt.
	DefaultTimeout = 30 * time.Second

	// DefaultRetries is the number of retries after the first attempt.
	DefaultRetries = 3

	// maxBody caps how much of a response is read.
	maxBody = 8 << 20
)

// ErrNotFound is returned when the upstream has no record for the request.
var ErrNotFound = errors.New("not found")

// StatusError is an unexpected HTTP response.
type StatusError struct {
	Feed string
	Code int
	Body string // First bytes of the response, for diagnostics
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Feed, e.Code)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Feed, e.Code, e.Body)
}

// Client is the HTTP plumbing shared by the feed clients.
type Client struct {
	name      string
	baseURL   string
	userAgent string
	timeout   time.Duration
	retries   int
	limiter   *rate.Limiter
	base      *http.Client
	http      *retryablehttp.Client
	logger    *logging.Logger
	metrics   *metrics.Collector
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service root, mainly for tests and mirrors.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.retries = n
	}
}

// WithRateLimit throttles outgoing requests to r per second with the given
// burst.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(r, burst)
	}
}

// WithHTTPClient sets the underlying HTTP client used for each attempt.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.base = hc
	}
}

// WithLogger sets the logger for request and retry messages.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMetrics records request counts and latency.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func newClient(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:      name,
		baseURL:   baseURL,
		userAgent: fmt.Sprintf("ls-orbits/%s (orbit viewer)", version.Version),
		timeout:   DefaultTimeout,
		retries:   DefaultRetries,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.base == nil {
		c.base = &http.Client{Timeout: c.timeout}
	}
	if c.retries < 0 {
		c.retries = 0
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = c.base
	rc.RetryMax = c.retries
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 10 * time.Second
	rc.Logger = retryLogger{c.logger.With("feed", name)}
	// Hand back the last response once retries are spent so the status is
	// reported as a StatusError.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.http = rc
	return c
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// getJSON fetches baseURL+path and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limit wait: %w", c.name, err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.name, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveFeed(c.name, 0, time.Since(start))
		return fmt.Errorf("%s: fetch %s: %w", c.name, redact(path), redactError(err))
	}
	defer resp.Body.Close()
	c.metrics.ObserveFeed(c.name, resp.StatusCode, time.Since(start))
	c.logger.Debug("%s GET %s -> %d in %v", c.name, redact(path), resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", c.name, redact(path), ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return &StatusError{Feed: c.name, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(v); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	return nil
}

// redact drops the query string so API keys never reach logs or errors.
func redact(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

// redactError strips the query from URLs carried by transport errors.
func redactError(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	return &url.Error{Op: ue.Op, URL: redact(ue.URL), Err: ue.Err}
}

// retryLogger adapts logging.Logger to retryablehttp.LeveledLogger.
type retryLogger struct {
	l *logging.Logger
}

func (r retryLogger) Error(msg string, kv ...interface{}) { r.l.Error("%s%s", msg, pairs(kv)) }
func (r retryLogger) Warn(msg string, kv ...interface{})  { r.l.Warn("%s%s", msg, pairs(kv)) }
func (r retryLogger) Info(msg string, kv ...interface{})  { r.l.Debug("%s%s", msg, pairs(kv)) }
func (r retryLogger) Debug(msg string, kv ...interface{}) { r.l.Debug("%s%s", msg, pairs(kv)) }

func pairs(kv []interface{}) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		v := fmt.Sprint(kv[i+1])
		// Request URLs may carry an api_key.
		if strings.Contains(v, "?") {
			v = redact(v)
		}
		fmt.Fprintf(&b, " %v=%s", kv[i], v)
	}
	return b.String()
}
