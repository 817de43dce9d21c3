// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/ytpeaks/internal/adapters/youtube"
	"github.com/okian/ytpeaks/internal/domain/heatmap"
	"github.com/okian/ytpeaks/internal/domain/moments"
	"github.com/okian/ytpeaks/internal/domain/videoid"
	"github.com/okian/ytpeaks/pkg/logger"
	"github.com/okian/ytpeaks/pkg/metrics"
)

// Search types accepted by Search.
const (
	SearchTypeKeyword = "keyword"
	SearchTypeChannel = "channel"
)

// PageFetcher downloads a video's watch page.
type PageFetcher interface {
	FetchWatchPage(ctx context.Context, id string) ([]byte, error)
}

// Searcher proxies searches to the video platform.
type Searcher interface {
	ResolveChannel(ctx context.Context, name string) (channelID string, found bool, err error)
	SearchVideos(ctx context.Context, q youtube.VideoQuery) ([]youtube.Video, error)
}

// AnalyzeResult is the outcome of one analysis. Message is empty on success
// and holds a localized error otherwise.
type AnalyzeResult struct {
	VideoID string
	Moments []moments.Formatted
	Outcome string
	Message string
	Err     error
}

// OK reports whether the analysis succeeded.
func (r AnalyzeResult) OK() bool { return r.Message == "" }

// SearchQuery is a search request as received from the client.
type SearchQuery struct {
	Query string
	Type  string
	Order string
}

// SearchResult is the outcome of one search. Message is empty on success.
type SearchResult struct {
	Videos  []youtube.Video
	Type    string
	Outcome string
	Message string
	Err     error
}

// OK reports whether the search succeeded.
func (r SearchResult) OK() bool { return r.Message == "" }

// Service implements the API dependencies for heat-map analysis and search.
type Service struct {
	fetcher   PageFetcher
	searcher  Searcher
	selector  *moments.Selector
	formatter *moments.Formatter
	messages  Messages
	searchMax int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPageFetcher sets the watch page source.
func WithPageFetcher(f PageFetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithSearcher sets the search backend.
func WithSearcher(sr Searcher) Option {
	return func(s *Service) {
		if sr != nil {
			s.searcher = sr
		}
	}
}

// WithSelector sets the moment selector.
func WithSelector(sel *moments.Selector) Option {
	return func(s *Service) {
		if sel != nil {
			s.selector = sel
		}
	}
}

// WithFormatter sets the moment formatter.
func WithFormatter(f *moments.Formatter) Option {
	return func(s *Service) {
		if f != nil {
			s.formatter = f
		}
	}
}

// WithLocale selects the message catalogue.
func WithLocale(locale string) Option {
	return func(s *Service) {
		s.messages = MessagesFor(locale)
	}
}

// WithSearchMaxResults sets the page size requested per search.
func WithSearchMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 && n <= youtube.MaxSearchResults {
			s.searchMax = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		fetcher:   youtube.NewPageFetcher(),
		selector:  moments.NewSelector(),
		formatter: moments.NewFormatter(),
		messages:  MessagesFor("ar"),
		searchMax: youtube.MaxSearchResults,
		logger:    logger.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Analyze extracts the most watched moments of the video behind rawURL.
// It never fails with an error; every failure is a localized message.
func (s *Service) Analyze(ctx context.Context, rawURL string) AnalyzeResult {
	start := time.Now()

	id, ok := videoid.Extract(rawURL)
	if !ok {
		s.logger.Info(ctx, "no video id in url", logger.String("url", rawURL))
		return s.analyzeFailed(metrics.OutcomeInvalidURL, s.messages.InvalidURL, ErrInvalidURL)
	}
	log := s.logger.With(logger.String("video_id", id))

	html, err := s.fetcher.FetchWatchPage(ctx, id)
	if err != nil {
		log.Warn(ctx, "watch page unavailable", logger.Error(err))
		return s.analyzeFailed(metrics.OutcomeFetchFailed, s.messages.FetchFailed, err)
	}

	payload, err := heatmap.Locate(html)
	if err != nil {
		reason := heatmap.Reason(err)
		metrics.RecordHeatmapMiss(reason)
		log.Warn(ctx, "heat-map not found", logger.String("reason", reason))
		return s.analyzeFailed(metrics.OutcomeNoMarkers, s.messages.NoMarkers, err)
	}
	metrics.RecordHeatmapMarkers(len(payload.Markers))

	selected := s.selector.Select(payload.Markers)
	metrics.RecordMomentsSelected(len(selected))
	metrics.RecordAnalyzeOutcome(metrics.OutcomeOK)

	log.Info(ctx, "video analyzed",
		logger.Int("markers", len(payload.Markers)),
		logger.Int("moments", len(selected)),
		logger.Duration("took", time.Since(start)))

	return AnalyzeResult{
		VideoID: id,
		Moments: s.formatter.Format(selected),
		Outcome: metrics.OutcomeOK,
	}
}

func (s *Service) analyzeFailed(outcome, msg string, err error) AnalyzeResult {
	metrics.RecordAnalyzeOutcome(outcome)
	return AnalyzeResult{Outcome: outcome, Message: msg, Err: err}
}

// Search runs a keyword or channel search. Unknown types fall back to
// keyword and unknown orders to relevance.
func (s *Service) Search(ctx context.Context, q SearchQuery) SearchResult {
	typ := q.Type
	if typ != SearchTypeChannel {
		typ = SearchTypeKeyword
	}
	order := q.Order
	if !youtube.ValidOrder(order) {
		order = youtube.OrderRelevance
	}

	if q.Query == "" {
		return s.searchFailed(typ, metrics.SearchEmptyQuery, s.messages.EmptyQuery, ErrEmptyQuery)
	}
	if s.searcher == nil {
		return s.searchFailed(typ, metrics.SearchFailed, s.messages.SearchFailed, ErrNoSearcher)
	}

	vq := youtube.VideoQuery{Order: order, MaxResults: s.searchMax}
	if typ == SearchTypeChannel {
		channelID, found, err := s.searcher.ResolveChannel(ctx, q.Query)
		if err != nil {
			s.logger.Warn(ctx, "channel lookup failed", logger.String("channel", q.Query), logger.Error(err))
			return s.searchFailed(typ, metrics.SearchFailed, s.messages.SearchFailed, err)
		}
		if !found {
			s.logger.Info(ctx, "channel not found", logger.String("channel", q.Query))
			return s.searchFailed(typ, metrics.SearchChannelNotFound, s.messages.ChannelNotFound,
				fmt.Errorf("%w: %q", ErrChannelNotFound, q.Query))
		}
		vq.ChannelID = channelID
	} else {
		vq.Query = q.Query
	}

	videos, err := s.searcher.SearchVideos(ctx, vq)
	if err != nil {
		s.logger.Warn(ctx, "video search failed", logger.String("type", typ), logger.Error(err))
		return s.searchFailed(typ, metrics.SearchFailed, s.messages.SearchFailed, err)
	}
	if videos == nil {
		videos = []youtube.Video{}
	}

	metrics.RecordSearch(typ, metrics.SearchOK)
	metrics.RecordSearchResults(len(videos))
	s.logger.Debug(ctx, "search done",
		logger.String("type", typ),
		logger.String("order", order),
		logger.Int("results", len(videos)))

	return SearchResult{Videos: videos, Type: typ, Outcome: metrics.SearchOK}
}

func (s *Service) searchFailed(typ, outcome, msg string, err error) SearchResult {
	metrics.RecordSearch(typ, outcome)
	return SearchResult{Type: typ, Outcome: outcome, Message: msg, Err: err}
}
