// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional .env file, an optional YAML file and
//   YTPEAKS_* environment variables, in that order.
package config

import (
	"time"
)

// Supported message locales.
const (
	LocaleArabic  = "ar"
	LocaleEnglish = "en"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// YouTubeAPIKey is the Data API v3 credential used by /search.
	YouTubeAPIKey string `koanf:"youtube_api_key"`

	// YouTubeAPIEndpoint overrides the Data API base URL. Empty uses the
	// client library default.
	YouTubeAPIEndpoint string `koanf:"youtube_api_endpoint"`

	// WatchURL is the page fetched to read a video's heat-map.
	WatchURL string `koanf:"watch_url"`

	// FetchTimeoutMS bounds every outbound call.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// MaxMoments caps the number of moments returned by /analyze.
	MaxMoments int `koanf:"max_moments"`

	// ProximitySeconds is the minimum gap between two returned moments.
	ProximitySeconds float64 `koanf:"proximity_seconds"`

	// ViewsFactor converts a normalized intensity to an estimated view count.
	ViewsFactor float64 `koanf:"views_factor"`

	// SearchMaxResults is the page size requested from the search API.
	SearchMaxResults int `koanf:"search_max_results"`

	// Locale selects the language of user-facing error messages.
	Locale string `koanf:"locale"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":8080",
		WatchURL:         "https://www.youtube.com/watch",
		FetchTimeoutMS:   15_000,
		MaxMoments:       10,
		ProximitySeconds: 15,
		ViewsFactor:      100_000,
		SearchMaxResults: 50,
		Locale:           LocaleArabic,
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}
