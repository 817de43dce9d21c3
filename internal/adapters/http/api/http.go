// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/ytpeaks/internal/app"
	"github.com/okian/ytpeaks/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Analyze returns the most watched moments of the video behind url.
	Analyze(ctx context.Context, url string) service.AnalyzeResult

	// Search proxies a keyword or channel search.
	Search(ctx context.Context, q service.SearchQuery) service.SearchResult
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	analyzeHandler *AnalyzeHandler
	searchHandler  *SearchHandler
	log            logger.Logger
}

// NewServer creates a new API server with all handlers. A nil logger
// discards handler logs.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		analyzeHandler: NewAnalyzeHandler(deps, log),
		searchHandler:  NewSearchHandler(deps, log),
		log:            log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/analyze", RequestIDMiddleware(MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze")))
	mux.HandleFunc("/search", RequestIDMiddleware(MetricsMiddleware(s.searchHandler.HandleSearch, "search")))

	s.log.Debug(ctx, "api routes registered")
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
