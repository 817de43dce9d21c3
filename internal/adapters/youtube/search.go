package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/ytpeaks/pkg/logger"
	"github.com/okian/ytpeaks/pkg/metrics"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// Search orders accepted by the Data API.
const (
	OrderRelevance = "relevance"
	OrderDate      = "date"
	OrderViewCount = "viewCount"
	OrderRating    = "rating"
)

// MaxSearchResults is the largest page the Data API returns.
const MaxSearchResults = 50

const (
	targetChannelLookup = "channel_lookup"
	targetVideoSearch   = "video_search"
)

// Video is one reshaped search result.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
}

// VideoQuery selects videos either by free text or by channel.
type VideoQuery struct {
	Query      string
	ChannelID  string
	Order      string
	MaxResults int
}

// ValidOrder reports whether order is one the Data API accepts.
func ValidOrder(order string) bool {
	switch order {
	case OrderRelevance, OrderDate, OrderViewCount, OrderRating:
		return true
	}
	return false
}

// SearchClient proxies searches to the YouTube Data API v3.
type SearchClient struct {
	svc      *yt.Service
	endpoint string
	timeout  time.Duration
	log      logger.Logger
}

// SearchOption configures a SearchClient.
type SearchOption func(*SearchClient)

// WithEndpoint overrides the Data API base URL.
func WithEndpoint(u string) SearchOption {
	return func(c *SearchClient) {
		if u == "" {
			return
		}
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		c.endpoint = u
	}
}

// WithSearchTimeout bounds a single Data API call.
func WithSearchTimeout(d time.Duration) SearchOption {
	return func(c *SearchClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSearchLogger sets the client's logger.
func WithSearchLogger(l logger.Logger) SearchOption {
	return func(c *SearchClient) {
		if l != nil {
			c.log = l
		}
	}
}

// NewSearchClient builds a Data API client authenticated with apiKey. An
// empty key yields an unauthenticated client whose calls the API rejects.
func NewSearchClient(ctx context.Context, apiKey string, opts ...SearchOption) (*SearchClient, error) {
	c := &SearchClient{
		timeout: DefaultTimeout,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	var clientOpts []option.ClientOption
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	} else {
		clientOpts = append(clientOpts, option.WithoutAuthentication())
	}
	if c.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(c.endpoint))
	}

	svc, err := yt.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: new service: %w", ErrSearch, err)
	}
	c.svc = svc
	return c, nil
}

// ResolveChannel looks a channel up by name. found is false when the API
// returns no channel.
func (c *SearchClient) ResolveChannel(ctx context.Context, name string) (channelID string, found bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.svc.Search.List([]string{"snippet"}).
		Type("channel").
		Q(name).
		Context(ctx).
		Do()
	c.record(targetChannelLookup, start, err)
	if err != nil {
		c.log.Warn(ctx, "channel lookup failed", logger.String("channel", name), logger.Error(err))
		return "", false, fmt.Errorf("%w: channel lookup: %w", ErrSearch, err)
	}

	for _, item := range resp.Items {
		if item.Id != nil && item.Id.ChannelId != "" {
			return item.Id.ChannelId, true, nil
		}
	}
	return "", false, nil
}

// SearchVideos runs one video search. Items without a video id are dropped.
func (c *SearchClient) SearchVideos(ctx context.Context, q VideoQuery) ([]Video, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	order := q.Order
	if !ValidOrder(order) {
		order = OrderRelevance
	}
	limit := q.MaxResults
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}

	call := c.svc.Search.List([]string{"snippet"}).
		Type("video").
		Order(order).
		MaxResults(int64(limit))
	if q.ChannelID != "" {
		call = call.ChannelId(q.ChannelID)
	} else {
		call = call.Q(q.Query)
	}

	start := time.Now()
	resp, err := call.Context(ctx).Do()
	c.record(targetVideoSearch, start, err)
	if err != nil {
		c.log.Warn(ctx, "video search failed", logger.String("order", order), logger.Error(err))
		return nil, fmt.Errorf("%w: video search: %w", ErrSearch, err)
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if v, ok := toVideo(item); ok {
			videos = append(videos, v)
		}
	}
	return videos, nil
}

func (c *SearchClient) record(target string, start time.Time, err error) {
	outcome := metrics.UpstreamOK
	if err != nil {
		outcome = metrics.UpstreamError
	}
	metrics.RecordUpstreamCall(target, outcome, float64(time.Since(start).Nanoseconds())/1e6)
}

func toVideo(item *yt.SearchResult) (Video, bool) {
	if item == nil || item.Id == nil || item.Id.VideoId == "" {
		return Video{}, false
	}
	v := Video{ID: item.Id.VideoId}
	if s := item.Snippet; s != nil {
		v.Title = s.Title
		v.ChannelTitle = s.ChannelTitle
		v.PublishedAt = s.PublishedAt
		if s.Thumbnails != nil && s.Thumbnails.Medium != nil {
			v.Thumbnail = s.Thumbnails.Medium.Url
		}
	}
	return v, true
}
