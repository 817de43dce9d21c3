// Package youtube talks to youtube.com: it downloads watch pages for the
// heat-map locator and proxies searches to the Data API v3.
package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/ytpeaks/pkg/logger"
	"github.com/okian/ytpeaks/pkg/metrics"
)

// Defaults for outbound calls.
const (
	DefaultWatchURL     = "https://www.youtube.com/watch"
	DefaultTimeout      = 15 * time.Second
	DefaultMaxBodyBytes = 16 << 20

	targetWatchPage = "watch_page"
)

// PageFetcher downloads watch pages with a plain GET.
type PageFetcher struct {
	client   *http.Client
	watchURL string
	timeout  time.Duration
	maxBody  int64
	log      logger.Logger
}

// PageOption configures a PageFetcher.
type PageOption func(*PageFetcher)

// WithWatchURL sets the page URL the video id is appended to as ?v=.
func WithWatchURL(u string) PageOption {
	return func(f *PageFetcher) {
		if u != "" {
			f.watchURL = u
		}
	}
}

// WithTimeout bounds a single fetch.
func WithTimeout(d time.Duration) PageOption {
	return func(f *PageFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMaxBodyBytes caps how much of the page is read.
func WithMaxBodyBytes(n int64) PageOption {
	return func(f *PageFetcher) {
		if n > 0 {
			f.maxBody = n
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) PageOption {
	return func(f *PageFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithPageLogger sets the fetcher's logger.
func WithPageLogger(l logger.Logger) PageOption {
	return func(f *PageFetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// NewPageFetcher constructs a PageFetcher.
func NewPageFetcher(opts ...PageOption) *PageFetcher {
	f := &PageFetcher{
		client:   http.DefaultClient,
		watchURL: DefaultWatchURL,
		timeout:  DefaultTimeout,
		maxBody:  DefaultMaxBodyBytes,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchWatchPage returns the HTML of the watch page for id. Every failure
// wraps ErrFetch; a non-2xx answer also wraps ErrUpstreamStatus. Bodies
// larger than the cap are silently truncated.
func (f *PageFetcher) FetchWatchPage(ctx context.Context, id string) ([]byte, error) {
	u, err := url.Parse(f.watchURL)
	if err != nil {
		return nil, fmt.Errorf("%w: watch url: %w", ErrFetch, err)
	}
	q := u.Query()
	q.Set("v", id)
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	body, err := f.get(ctx, u.String())
	latency := float64(time.Since(start).Nanoseconds()) / 1e6
	if err != nil {
		metrics.RecordUpstreamCall(targetWatchPage, metrics.UpstreamError, latency)
		f.log.Warn(ctx, "watch page fetch failed",
			logger.String("video_id", id),
			logger.Error(err))
		return nil, err
	}
	metrics.RecordUpstreamCall(targetWatchPage, metrics.UpstreamOK, latency)
	f.log.Debug(ctx, "watch page fetched",
		logger.String("video_id", id),
		logger.Int("bytes", len(body)),
		logger.Float64("latency_ms", latency))
	return body, nil
}

func (f *PageFetcher) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %w: %d", ErrFetch, ErrUpstreamStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetch, err)
	}
	return body, nil
}
