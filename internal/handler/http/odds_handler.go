package http

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/sporttery-odds-service/internal/report"
	"github.com/cypherlabdev/sporttery-odds-service/internal/service"
)

const (
	maxBodyBytes = 1 << 20
	xlsxMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// OddsHandler handles HTTP requests for matches, odds histories and exports
type OddsHandler struct {
	matches   *service.MatchService
	exports   *service.ExportService
	outputDir string
	logger    zerolog.Logger
}

// NewOddsHandler creates a new odds HTTP handler
func NewOddsHandler(
	matches *service.MatchService,
	exports *service.ExportService,
	outputDir string,
	logger zerolog.Logger,
) *OddsHandler {
	return &OddsHandler{
		matches:   matches,
		exports:   exports,
		outputDir: outputDir,
		logger:    logger.With().Str("component", "odds_handler").Logger(),
	}
}

// RegisterRoutes registers HTTP routes with the provided router
func (h *OddsHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/matches", h.handleGetMatches).Methods(http.MethodGet)
	api.HandleFunc("/matches/{match_id}/odds", h.handleGetMatchOdds).Methods(http.MethodGet)
	api.HandleFunc("/matches/{match_id}/diff", h.handleGetDiff).Methods(http.MethodGet)
	api.HandleFunc("/export", h.handleExport).Methods(http.MethodPost)
	api.HandleFunc("/share", h.handleShare).Methods(http.MethodPost)

	router.HandleFunc("/download/{filename}", h.handleDownload).Methods(http.MethodGet)
	router.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.handleReady).Methods(http.MethodGet)
}

// handleGetMatches handles GET /api/matches?date=YYYY-MM-DD
func (h *OddsHandler) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			h.errorResponse(w, http.StatusBadRequest, "invalid date: expected YYYY-MM-DD")
			return
		}
	}

	matches, err := h.matches.GetMatches(r.Context(), date)
	if err != nil {
		h.logger.Error().Err(err).Str("date", date).Msg("failed to list matches")
		h.errorResponse(w, http.StatusBadGateway, "failed to fetch matches")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(matches),
		"matches": matches,
	})
}

// handleGetMatchOdds handles GET /api/matches/{match_id}/odds
func (h *OddsHandler) handleGetMatchOdds(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["match_id"]

	detail, err := h.matches.GetMatchDetail(r.Context(), matchID)
	if err != nil {
		h.serviceError(w, err, matchID, "failed to fetch match odds")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"match":   detail,
	})
}

// handleGetDiff handles GET /api/matches/{match_id}/diff
func (h *OddsHandler) handleGetDiff(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["match_id"]

	rows, err := h.exports.DiffAnalysis(r.Context(), matchID)
	if err != nil {
		h.serviceError(w, err, matchID, "failed to compute odds diff")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"match_id": matchID,
		"count":    len(rows),
		"rows":     rows,
	})
}

// ExportRequest is the body of POST /api/export
type ExportRequest struct {
	MatchIDs []string `json:"match_ids"`
}

// handleExport handles POST /api/export
func (h *OddsHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.exports.Export(r.Context(), req.MatchIDs)
	if err != nil {
		h.serviceError(w, err, "", "failed to export matches")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"filename":     result.Filename,
		"download_url": "/download/" + url.PathEscape(result.Filename),
		"match_count":  result.MatchCount,
	})
}

// ShareRequest is the body of POST /api/share
type ShareRequest struct {
	Date     string   `json:"date"`
	MatchIDs []string `json:"match_ids"`
}

// handleShare handles POST /api/share
func (h *OddsHandler) handleShare(w http.ResponseWriter, r *http.Request) {
	var req ShareRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text, err := h.exports.ShareText(r.Context(), req.Date, req.MatchIDs)
	if err != nil {
		h.serviceError(w, err, "", "failed to build share text")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"text":    text,
	})
}

// handleDownload handles GET /download/{filename}
func (h *OddsHandler) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]

	path, err := report.ResolveDownload(h.outputDir, name)
	switch {
	case errors.Is(err, report.ErrInvalidFilename):
		h.errorResponse(w, http.StatusBadRequest, "invalid filename")
		return
	case errors.Is(err, report.ErrReportNotFound):
		h.errorResponse(w, http.StatusNotFound, "file not found")
		return
	case err != nil:
		h.logger.Error().Err(err).Str("filename", name).Msg("failed to resolve download")
		h.errorResponse(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeFile(w, r, path)
}

// handleHealth handles GET /health
func (h *OddsHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "healthy",
	})
}

// handleReady handles GET /ready
func (h *OddsHandler) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := h.matches.Ping(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("cache not ready")
		h.errorResponse(w, http.StatusServiceUnavailable, "cache unavailable")
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "ready",
	})
}

func (h *OddsHandler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// serviceError maps service errors to status codes
func (h *OddsHandler) serviceError(w http.ResponseWriter, err error, matchID, message string) {
	switch {
	case errors.Is(err, service.ErrNoMatchesSelected):
		h.errorResponse(w, http.StatusBadRequest, "no matches selected")
	case errors.Is(err, service.ErrMatchNotFound):
		h.errorResponse(w, http.StatusNotFound, "match not found")
	case errors.Is(err, service.ErrNoMatchesFound):
		h.errorResponse(w, http.StatusNotFound, "no matches found")
	default:
		h.logger.Error().Err(err).Str("match_id", matchID).Msg(message)
		h.errorResponse(w, http.StatusInternalServerError, message)
	}
}

// jsonResponse writes a JSON response
func (h *OddsHandler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes a JSON error response
func (h *OddsHandler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
