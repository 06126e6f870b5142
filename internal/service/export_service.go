package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/sporttery-odds-service/internal/metrics"
	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
	"github.com/cypherlabdev/sporttery-odds-service/internal/report"
	"github.com/cypherlabdev/sporttery-odds-service/pkg/alignment"
)

// ExportResult describes a written workbook
type ExportResult struct {
	Filename   string   `json:"filename"`
	MatchCount int      `json:"match_count"`
	MatchIDs   []string `json:"match_ids"`
}

// ExportService runs the odds alignment for selected matches and renders the results
type ExportService struct {
	matches   *MatchService
	aligner   *alignment.Aligner
	assembler *report.Assembler
	labels    alignment.Labels
	metrics   *metrics.Metrics
	now       func() time.Time
	logger    zerolog.Logger
}

// NewExportService creates a new export service
func NewExportService(
	matches *MatchService,
	aligner *alignment.Aligner,
	assembler *report.Assembler,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ExportService {
	return &ExportService{
		matches:   matches,
		aligner:   aligner,
		assembler: assembler,
		labels:    alignment.DefaultLabels,
		metrics:   m,
		now:       time.Now,
		logger:    logger.With().Str("component", "export_service").Logger(),
	}
}

// Export writes the workbook of the selected matches
func (s *ExportService) Export(ctx context.Context, matchIDs []string) (result *ExportResult, err error) {
	ids := cleanIDs(matchIDs)
	if len(ids) == 0 {
		return nil, ErrNoMatchesSelected
	}

	start := time.Now()
	defer func() { s.metrics.ObserveExport(start, err) }()

	reports, err := s.reports(ctx, ids)
	if err != nil {
		return nil, err
	}

	name, err := s.assembler.Write(reports)
	if err != nil {
		return nil, err
	}

	result = &ExportResult{
		Filename:   name,
		MatchCount: len(reports),
		MatchIDs:   make([]string, 0, len(reports)),
	}
	for _, r := range reports {
		result.MatchIDs = append(result.MatchIDs, r.Detail.MatchID)
	}

	s.logger.Info().
		Str("filename", name).
		Int("requested", len(ids)).
		Int("exported", len(reports)).
		Dur("duration", time.Since(start)).
		Msg("exported matches")

	return result, nil
}

// DiffAnalysis returns the formatted delta rows of one match
func (s *ExportService) DiffAnalysis(ctx context.Context, matchID string) ([]alignment.FormattedRow, error) {
	detail, err := s.matches.GetMatchDetail(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return alignment.FormatAll(s.align(detail), s.labels), nil
}

// ShareText renders the plain-text summary of the selected matches. An empty
// date is rendered as today.
func (s *ExportService) ShareText(ctx context.Context, date string, matchIDs []string) (string, error) {
	ids := cleanIDs(matchIDs)
	if len(ids) == 0 {
		return "", ErrNoMatchesSelected
	}
	if date == "" {
		date = s.now().Format(time.DateOnly)
	}

	reports, err := s.reports(ctx, ids)
	if err != nil {
		return "", err
	}
	return report.ShareText(date, reports, s.labels), nil
}

func (s *ExportService) reports(ctx context.Context, ids []string) ([]report.MatchReport, error) {
	details, err := s.matches.GetMatchesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrNoMatchesFound
	}

	// each match is aligned on its own histories only
	reports := make([]report.MatchReport, len(details))
	for i, d := range details {
		reports[i] = report.MatchReport{Detail: d, Rows: s.align(d)}
	}
	return reports, nil
}

func (s *ExportService) align(d *models.MatchDetail) []alignment.Row {
	rows := s.aligner.Align(d.Moneyline, d.HandicapLine)

	counts := map[string]int{
		string(alignment.OriginHandicap):     0,
		string(alignment.OriginSweep):        0,
		string(alignment.OriginHandicapOnly): 0,
	}
	for _, r := range rows {
		counts[string(r.Origin)]++
	}
	s.metrics.ObserveAlignmentRows(counts)

	return rows
}

// cleanIDs trims ids and drops blanks
func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
