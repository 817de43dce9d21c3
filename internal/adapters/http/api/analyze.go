package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/ytpeaks/internal/domain/moments"
	"github.com/okian/ytpeaks/pkg/logger"
)

// maxAnalyzeBody caps the POST /analyze request body.
const maxAnalyzeBody = 64 << 10

// analyzeRequest mirrors the OpenAPI schema for POST /analyze.
type analyzeRequest struct {
	URL string `json:"url"`
}

type analyzeResponse struct {
	VideoID    string              `json:"video_id"`
	Timestamps []moments.Formatted `json:"most_watched_timestamps"`
}

// AnalyzeHandler handles analyze requests.
type AnalyzeHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps Dependencies, log logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps, log: log}
}

// HandleAnalyze handles POST /analyze requests. Domain failures are
// answered with 200 and an error message.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	ctx := r.Context()
	if r.Method != http.MethodPost {
		h.log.Debug(ctx, "method not routed", logger.String("method", r.Method), logger.Error(NewKind(op, ErrNotFound)))
		http.NotFound(w, r)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnalyzeBody)).Decode(&req); err != nil {
		// An unreadable body is analyzed as an empty URL.
		h.log.Debug(ctx, "analyze body ignored", logger.Error(WrapKind(op, ErrBadRequest, err)))
		req.URL = ""
	}

	res := h.deps.Analyze(ctx, req.URL)
	var body any
	if res.OK() {
		body = analyzeResponse{VideoID: res.VideoID, Timestamps: res.Moments}
	} else {
		h.log.Info(ctx, "analyze failed",
			logger.String("outcome", res.Outcome),
			logger.Error(WrapKind(op, ErrDomain, res.Err)))
		body = errorResponse{Error: res.Message}
	}
	if err := writeJSON(w, http.StatusOK, body); err != nil {
		h.log.Warn(ctx, "write analyze reply", logger.Error(WrapKind(op, ErrEncodeReply, err)))
	}
}
