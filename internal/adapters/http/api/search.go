package api

import (
	"net/http"

	service "github.com/okian/ytpeaks/internal/app"
	"github.com/okian/ytpeaks/pkg/logger"
)

// SearchHandler handles search requests.
type SearchHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps Dependencies, log logger.Logger) *SearchHandler {
	return &SearchHandler{deps: deps, log: log}
}

// HandleSearch handles GET /search?query=&type=&order= requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	ctx := r.Context()
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	res := h.deps.Search(ctx, service.SearchQuery{
		Query: q.Get("query"),
		Type:  q.Get("type"),
		Order: q.Get("order"),
	})

	var body any = res.Videos
	if !res.OK() {
		h.log.Info(ctx, "search failed",
			logger.String("outcome", res.Outcome),
			logger.Error(Wrap(op, res.Err)))
		body = errorResponse{Error: res.Message}
	}
	if err := writeJSON(w, http.StatusOK, body); err != nil {
		h.log.Warn(ctx, "write search reply", logger.Error(WrapKind(op, ErrEncodeReply, err)))
	}
}
