package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cypherlabdev/sporttery-odds-service/internal/cache"
	"github.com/cypherlabdev/sporttery-odds-service/internal/metrics"
	"github.com/cypherlabdev/sporttery-odds-service/internal/mocks"
	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
	"github.com/cypherlabdev/sporttery-odds-service/internal/report"
	"github.com/cypherlabdev/sporttery-odds-service/internal/service"
	"github.com/cypherlabdev/sporttery-odds-service/pkg/alignment"
)

// testHandlerSetup is a helper struct to hold test dependencies
type testHandlerSetup struct {
	provider  *mocks.MockProvider
	cache     *mocks.MockCache
	outputDir string
	router    http.Handler
}

// setupTestHandler wires the handler to real services backed by mocks
func setupTestHandler(t *testing.T) *testHandlerSetup {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Name().Return("mock").AnyTimes()
	mockCache := mocks.NewMockCache(ctrl)
	mockCache.EXPECT().GetMatches(gomock.Any(), gomock.Any()).Return(nil, cache.ErrCacheMiss).AnyTimes()
	mockCache.EXPECT().SetMatches(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().GetOddsHistory(gomock.Any(), gomock.Any()).Return(nil, cache.ErrCacheMiss).AnyTimes()
	mockCache.EXPECT().SetOddsHistory(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	outputDir := t.TempDir()

	matches := service.NewMatchService(provider, mockCache, nil, m, 2, zerolog.Nop())
	exports := service.NewExportService(
		matches,
		alignment.NewAligner(alignment.DefaultParams(), zerolog.Nop()),
		report.NewAssembler(report.Config{OutputDir: outputDir, FilenamePrefix: "report"}, zerolog.Nop()),
		m,
		zerolog.Nop(),
	)
	handler := NewOddsHandler(matches, exports, outputDir, zerolog.Nop())

	return &testHandlerSetup{
		provider:  provider,
		cache:     mockCache,
		outputDir: outputDir,
		router:    NewRouter(handler, registry, []string{"*"}),
	}
}

func (s *testHandlerSetup) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var payload map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func (s *testHandlerSetup) expectMatch(id string) {
	m := models.Match{
		MatchID:   id,
		MatchTime: "2026-02-27 19:30:00",
		League:    "英超",
		HomeTeam:  "曼城",
		AwayTeam:  "利物浦",
		HadOdds: models.MoneylineOdds{
			Win:  decimal.RequireFromString("2.10"),
			Draw: decimal.RequireFromString("3.45"),
			Lose: decimal.RequireFromString("3.30"),
		},
	}
	history := &models.OddsHistory{
		MatchID: id,
		Moneyline: []models.OddsObservation{
			{UpdateDate: "2026-02-27", UpdateTime: "09:00:00", Kind: models.Moneyline,
				Win: decimal.RequireFromString("2.15"), Draw: decimal.RequireFromString("3.40"), Lose: decimal.RequireFromString("3.25")},
			{UpdateDate: "2026-02-27", UpdateTime: "10:30:00", Kind: models.Moneyline,
				Win: decimal.RequireFromString("2.05"), Draw: decimal.RequireFromString("3.45"), Lose: decimal.RequireFromString("3.40")},
		},
		HandicapLine: []models.OddsObservation{
			{UpdateDate: "2026-02-27", UpdateTime: "09:00:00", Kind: models.HandicapLine, Handicap: decimal.NewFromInt(-1),
				Win: decimal.RequireFromString("3.00"), Draw: decimal.RequireFromString("3.60"), Lose: decimal.RequireFromString("2.10")},
		},
	}
	s.provider.EXPECT().GetMatchOdds(gomock.Any(), id).Return(&m, nil).AnyTimes()
	s.provider.EXPECT().GetOddsHistory(gomock.Any(), id).Return(history, nil).AnyTimes()
}

func TestHandleGetMatches(t *testing.T) {
	setup := setupTestHandler(t)
	setup.provider.EXPECT().GetMatches(gomock.Any(), "2026-02-27").Return([]models.Match{
		{MatchID: "20260227002", MatchTime: "2026-02-27 21:00:00"},
		{MatchID: "20260227001", MatchTime: "2026-02-27 18:00:00"},
	}, nil)

	rec, body := setup.do(t, http.MethodGet, "/api/matches?date=2026-02-27", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])

	matches := body["matches"].([]interface{})
	require.Len(t, matches, 2)
	assert.Equal(t, "20260227001", matches[0].(map[string]interface{})["match_id"])
}

func TestHandleGetMatches_InvalidDate(t *testing.T) {
	setup := setupTestHandler(t)

	rec, body := setup.do(t, http.MethodGet, "/api/matches?date=27-02-2026", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "invalid date")
}

func TestHandleGetMatches_ProviderError(t *testing.T) {
	setup := setupTestHandler(t)
	setup.provider.EXPECT().GetMatches(gomock.Any(), "").Return(nil, errors.New("gateway unavailable"))

	rec, body := setup.do(t, http.MethodGet, "/api/matches", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestHandleGetMatchOdds(t *testing.T) {
	setup := setupTestHandler(t)
	setup.expectMatch("20260227001")

	rec, body := setup.do(t, http.MethodGet, "/api/matches/20260227001/odds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	match := body["match"].(map[string]interface{})
	assert.Equal(t, "20260227001", match["match_id"])
	assert.Len(t, match["had_history"], 2)
	assert.Len(t, match["hhad_history"], 1)
}

func TestHandleGetMatchOdds_NotFound(t *testing.T) {
	setup := setupTestHandler(t)
	setup.provider.EXPECT().GetMatchOdds(gomock.Any(), "nope").Return(nil, service.ErrMatchNotFound)

	rec, body := setup.do(t, http.MethodGet, "/api/matches/nope/odds", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "match not found", body["error"])
}

func TestHandleGetDiff(t *testing.T) {
	setup := setupTestHandler(t)
	setup.expectMatch("20260227001")

	rec, body := setup.do(t, http.MethodGet, "/api/matches/20260227001/diff", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "20260227001", body["match_id"])
	assert.Equal(t, float64(2), body["count"])

	rows := body["rows"].([]interface{})
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "-0.10", first["win_diff"])
	assert.Equal(t, "负", first["win_sign"])
	assert.Equal(t, true, first["is_negative"])
}

func TestHandleExport(t *testing.T) {
	setup := setupTestHandler(t)
	setup.expectMatch("20260227001")

	rec, body := setup.do(t, http.MethodPost, "/api/export", `{"match_ids":["20260227001"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["match_count"])

	filename := body["filename"].(string)
	assert.Equal(t, "/download/"+filename, body["download_url"])
	_, err := os.Stat(filepath.Join(setup.outputDir, filename))
	assert.NoError(t, err)

	// the exported workbook can be downloaded
	dl, _ := setup.do(t, http.MethodGet, "/download/"+filename, "")
	assert.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, xlsxMIME, dl.Header().Get("Content-Type"))
	assert.Contains(t, dl.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, dl.Body.Len())
}

func TestHandleExport_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(s *testHandlerSetup)
		wantStatus int
		wantError  string
	}{
		{
			name:       "malformed body",
			body:       `{"match_ids":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "no ids",
			body:       `{"match_ids":[]}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "no matches selected",
		},
		{
			name: "unknown ids",
			body: `{"match_ids":["x","y"]}`,
			setupMocks: func(s *testHandlerSetup) {
				s.provider.EXPECT().GetMatchOdds(gomock.Any(), gomock.Any()).Return(nil, service.ErrMatchNotFound).Times(2)
			},
			wantStatus: http.StatusNotFound,
			wantError:  "no matches found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := setupTestHandler(t)
			if tt.setupMocks != nil {
				tt.setupMocks(setup)
			}

			rec, body := setup.do(t, http.MethodPost, "/api/export", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestHandleShare(t *testing.T) {
	setup := setupTestHandler(t)
	setup.expectMatch("20260227001")

	rec, body := setup.do(t, http.MethodPost, "/api/share", `{"date":"2026-02-27","match_ids":["20260227001"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body["text"], "日期: 2026-02-27 | 场次: 1场")
}

func TestHandleDownload(t *testing.T) {
	setup := setupTestHandler(t)
	require.NoError(t, os.WriteFile(filepath.Join(setup.outputDir, "report_1.xlsx"), []byte("xlsx"), 0o644))

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"existing file", "/download/report_1.xlsx", http.StatusOK},
		{"missing file", "/download/report_2.xlsx", http.StatusNotFound},
		{"wrong extension", "/download/config.yaml", http.StatusBadRequest},
		{"hidden file", "/download/.env.xlsx", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := setup.do(t, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleHealth(t *testing.T) {
	setup := setupTestHandler(t)

	rec, body := setup.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestHandleReady(t *testing.T) {
	setup := setupTestHandler(t)
	gomock.InOrder(
		setup.cache.EXPECT().Ping(gomock.Any()).Return(nil),
		setup.cache.EXPECT().Ping(gomock.Any()).Return(errors.New("redis down")),
	)

	rec, body := setup.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])

	rec, body = setup.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestMetricsEndpoint(t *testing.T) {
	setup := setupTestHandler(t)
	setup.provider.EXPECT().GetMatches(gomock.Any(), "").Return(nil, nil)
	setup.do(t, http.MethodGet, "/api/matches", "")

	rec, _ := setup.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sporttery_cache_lookups_total")
}

func TestMethodNotAllowed(t *testing.T) {
	setup := setupTestHandler(t)

	rec, _ := setup.do(t, http.MethodGet, "/api/export", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	setup := setupTestHandler(t)

	req := httptest.NewRequestWithContext(context.Background(), http.MethodOptions, "/api/export", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	setup.router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
