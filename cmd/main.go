package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/ytpeaks/internal/adapters/http/api"
	"github.com/okian/ytpeaks/internal/adapters/http/site"
	"github.com/okian/ytpeaks/internal/adapters/http/swagger"
	"github.com/okian/ytpeaks/internal/adapters/youtube"
	app "github.com/okian/ytpeaks/internal/app"
	"github.com/okian/ytpeaks/internal/config"
	"github.com/okian/ytpeaks/internal/domain/moments"
	"github.com/okian/ytpeaks/pkg/logger"
	"github.com/okian/ytpeaks/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := logger.Init(); err != nil {
		// Logger isn't available yet.
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Get().Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	if err := logger.InitWithFormat(cfg.LogFormat); err != nil {
		logger.Get().Warn(ctx, "invalid log_format; keeping text", logger.String("log_format", cfg.LogFormat), logger.Error(err))
	}
	defer func() { _ = logger.Sync() }()
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	handler, err := newHandler(ctx, cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build handler", logger.Error(err))
		os.Exit(1)
	}

	go startSystemMetricsUpdater(ctx)

	// A channel search makes two outbound calls, each bounded by fetch_timeout.
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      2*cfg.FetchTimeout() + readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("locale", cfg.Locale))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(shutdownCtx, "server stopped")
}

// newHandler builds the service from cfg and registers every route.
func newHandler(ctx context.Context, cfg *config.Config, log logger.Logger) (http.Handler, error) {
	fetcher := youtube.NewPageFetcher(
		youtube.WithWatchURL(cfg.WatchURL),
		youtube.WithTimeout(cfg.FetchTimeout()),
		youtube.WithPageLogger(log.Named("watch_page")),
	)

	if cfg.YouTubeAPIKey == "" {
		log.Warn(ctx, "youtube_api_key is empty; searches will be rejected upstream")
	}
	searcher, err := youtube.NewSearchClient(ctx, cfg.YouTubeAPIKey,
		youtube.WithEndpoint(cfg.YouTubeAPIEndpoint),
		youtube.WithSearchTimeout(cfg.FetchTimeout()),
		youtube.WithSearchLogger(log.Named("search")),
	)
	if err != nil {
		return nil, err
	}

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithPageFetcher(fetcher),
		app.WithSearcher(searcher),
		app.WithSelector(moments.NewSelector(
			moments.WithMaxMoments(cfg.MaxMoments),
			moments.WithProximity(cfg.ProximitySeconds),
		)),
		app.WithFormatter(moments.NewFormatter(moments.WithViewsFactor(cfg.ViewsFactor))),
		app.WithLocale(cfg.Locale),
		app.WithSearchMaxResults(cfg.SearchMaxResults),
	)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, log.Named("api")).Register(ctx, mux)
	site.Register(ctx, mux)

	return mux, nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Average GC pause since start.
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
