package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names read directly by the loader.
const (
	envPrefix     = "YTPEAKS_"
	envConfigPath = envPrefix + "CONFIG"
	envDotenvPath = envPrefix + "DOTENV"
	defaultDotenv = ".env"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. .env file (YTPEAKS_DOTENV, default ".env"); fills unset env vars only
//  3. file (YAML) if YTPEAKS_CONFIG is set
//  4. env (prefix YTPEAKS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	dotenv := os.Getenv(envDotenvPath)
	if dotenv == "" {
		dotenv = defaultDotenv
	}
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, dotenv, err)
	}

	k := koanf.New(".")

	if path := os.Getenv(envConfigPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Map env keys like YTPEAKS_MAX_MOMENTS -> max_moments (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WatchURL == "":
		return fmt.Errorf("%w: watch_url must not be empty", ErrInvalidConfig)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	case c.MaxMoments <= 0:
		return fmt.Errorf("%w: max_moments must be positive", ErrInvalidConfig)
	case c.ProximitySeconds < 0:
		return fmt.Errorf("%w: proximity_seconds must not be negative", ErrInvalidConfig)
	case c.ViewsFactor <= 0:
		return fmt.Errorf("%w: views_factor must be positive", ErrInvalidConfig)
	case c.SearchMaxResults < 1 || c.SearchMaxResults > 50:
		return fmt.Errorf("%w: search_max_results must be within 1..50", ErrInvalidConfig)
	case c.Locale != LocaleArabic && c.Locale != LocaleEnglish:
		return fmt.Errorf("%w: unsupported locale %q", ErrInvalidConfig, c.Locale)
	}
	return nil
}
