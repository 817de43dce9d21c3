package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/ytpeaks/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

// isolate points the loader at files that do not exist so the developer's
// environment does not leak into the test.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("YTPEAKS_DOTENV", filepath.Join(dir, "missing.env"))
	t.Setenv("YTPEAKS_CONFIG", "")
	for _, key := range []string{
		"YTPEAKS_ADDR", "YTPEAKS_LOG_LEVEL", "YTPEAKS_LOG_FORMAT", "YTPEAKS_YOUTUBE_API_KEY",
		"YTPEAKS_YOUTUBE_API_ENDPOINT", "YTPEAKS_WATCH_URL", "YTPEAKS_FETCH_TIMEOUT_MS",
		"YTPEAKS_MAX_MOMENTS", "YTPEAKS_PROXIMITY_SECONDS", "YTPEAKS_VIEWS_FACTOR",
		"YTPEAKS_SEARCH_MAX_RESULTS", "YTPEAKS_LOCALE",
	} {
		if v, ok := os.LookupEnv(key); ok {
			t.Setenv(key, v)
			_ = os.Unsetenv(key)
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestConfigLoader_Defaults(t *testing.T) {
	isolate(t)

	convey.Convey("Given no file and no environment", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then the defaults are returned", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg, convey.ShouldResemble, config.New())
		})
	})
}

func TestConfigLoader_Env(t *testing.T) {
	isolate(t)
	t.Setenv("YTPEAKS_ADDR", ":9000")
	t.Setenv("YTPEAKS_MAX_MOMENTS", "5")
	t.Setenv("YTPEAKS_PROXIMITY_SECONDS", "7.5")
	t.Setenv("YTPEAKS_LOCALE", "en")
	t.Setenv("YTPEAKS_YOUTUBE_API_KEY", "k-123")

	convey.Convey("Given YTPEAKS_* variables", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then they override defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9000")
			convey.So(cfg.MaxMoments, convey.ShouldEqual, 5)
			convey.So(cfg.ProximitySeconds, convey.ShouldEqual, 7.5)
			convey.So(cfg.Locale, convey.ShouldEqual, config.LocaleEnglish)
			convey.So(cfg.YouTubeAPIKey, convey.ShouldEqual, "k-123")
			convey.So(cfg.FetchTimeoutMS, convey.ShouldEqual, 15_000)
		})
	})
}

func TestConfigLoader_FileAndEnv(t *testing.T) {
	isolate(t)
	path := writeFile(t, "config.yaml", `
addr: ":9090"
max_moments: 3
views_factor: 1000
log_format: json
`)
	t.Setenv("YTPEAKS_CONFIG", path)
	t.Setenv("YTPEAKS_ADDR", ":7070")

	convey.Convey("Given a YAML file and an env override", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then env wins over the file and the file over defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			convey.So(cfg.MaxMoments, convey.ShouldEqual, 3)
			convey.So(cfg.ViewsFactor, convey.ShouldEqual, 1000)
			convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			convey.So(cfg.SearchMaxResults, convey.ShouldEqual, 50)
		})
	})
}

func TestConfigLoader_Dotenv(t *testing.T) {
	isolate(t)
	path := writeFile(t, "test.env", "YTPEAKS_YOUTUBE_API_KEY=from-dotenv\nYTPEAKS_SEARCH_MAX_RESULTS=20\n")
	t.Setenv("YTPEAKS_DOTENV", path)
	t.Setenv("YTPEAKS_SEARCH_MAX_RESULTS", "25")
	t.Cleanup(func() { _ = os.Unsetenv("YTPEAKS_YOUTUBE_API_KEY") })

	convey.Convey("Given a .env file", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then it fills unset variables without overriding set ones", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.YouTubeAPIKey, convey.ShouldEqual, "from-dotenv")
			convey.So(cfg.SearchMaxResults, convey.ShouldEqual, 25)
		})
	})
}

func TestConfigLoader_Errors(t *testing.T) {
	convey.Convey("Given broken inputs", t, func() {
		convey.Convey("When the YAML file is invalid", func() {
			isolate(t)
			t.Setenv("YTPEAKS_CONFIG", writeFile(t, "bad.yaml", `invalid: yaml: content: [`))

			cfg, err := config.Load(context.Background())

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the YAML file does not exist", func() {
			isolate(t)
			t.Setenv("YTPEAKS_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(context.Background())

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the address is blanked", func() {
			isolate(t)
			t.Setenv("YTPEAKS_ADDR", "")

			cfg, err := config.Load(context.Background())

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the locale is unsupported", func() {
			isolate(t)
			t.Setenv("YTPEAKS_LOCALE", "de")

			_, err := config.Load(context.Background())

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
