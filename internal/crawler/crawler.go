package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
	"github.com/cypherlabdev/sporttery-odds-service/internal/service"
)

// Publisher ships crawled histories to the server
type Publisher interface {
	Publish(ctx context.Context, date string, histories []models.OddsHistory) ([]string, error)
}

// Record is one match of the JSON dump
type Record struct {
	Match   models.Match       `json:"match"`
	History models.OddsHistory `json:"history"`
}

// Result summarizes a crawl run
type Result struct {
	Date         string   `json:"date"`
	MatchCount   int      `json:"match_count"`
	HistoryCount int      `json:"history_count"`
	Archived     int      `json:"archived"`
	BatchIDs     []string `json:"batch_ids,omitempty"`
	OutputFile   string   `json:"output_file"`
}

// Config holds crawler settings
type Config struct {
	Concurrency int
	OutputDir   string
}

// Crawler fetches the odds histories of one match day. archive and publisher
// are optional.
type Crawler struct {
	provider    service.Provider
	archive     service.HistoryArchive
	publisher   Publisher
	concurrency int
	outputDir   string
	logger      zerolog.Logger
}

// New creates a new crawler
func New(
	provider service.Provider,
	archive service.HistoryArchive,
	publisher Publisher,
	config Config,
	logger zerolog.Logger,
) *Crawler {
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.OutputDir == "" {
		config.OutputDir = "output"
	}

	return &Crawler{
		provider:    provider,
		archive:     archive,
		publisher:   publisher,
		concurrency: config.Concurrency,
		outputDir:   config.OutputDir,
		logger:      logger.With().Str("component", "crawler").Logger(),
	}
}

// Run crawls date (YYYY-MM-DD). Matches whose history cannot be fetched are
// skipped; archive failures are logged; a publish failure fails the run after
// the JSON dump has been written.
func (c *Crawler) Run(ctx context.Context, date string) (*Result, error) {
	matches, err := c.provider.GetMatches(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	c.logger.Info().Str("date", date).Int("match_count", len(matches)).Msg("crawling odds histories")

	records := c.fetch(ctx, matches)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	histories := make([]models.OddsHistory, 0, len(records))
	for _, r := range records {
		histories = append(histories, r.History)
	}

	result := &Result{
		Date:         date,
		MatchCount:   len(matches),
		HistoryCount: len(histories),
		Archived:     c.save(ctx, histories),
	}

	path, err := c.dump(date, records)
	if err != nil {
		return nil, err
	}
	result.OutputFile = path

	if c.publisher != nil && len(histories) > 0 {
		ids, err := c.publisher.Publish(ctx, date, histories)
		if err != nil {
			return result, err
		}
		result.BatchIDs = ids
	}

	c.logger.Info().
		Str("date", date).
		Int("history_count", result.HistoryCount).
		Int("archived", result.Archived).
		Int("batch_count", len(result.BatchIDs)).
		Str("output_file", path).
		Msg("crawl complete")

	return result, nil
}

// fetch loads histories concurrently, keeping match order and dropping
// matches without observations.
func (c *Crawler) fetch(ctx context.Context, matches []models.Match) []Record {
	slots := make([]*Record, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, m := range matches {
		g.Go(func() error {
			h, err := c.provider.GetOddsHistory(gctx, m.MatchID)
			if err != nil {
				c.logger.Warn().Err(err).Str("match_id", m.MatchID).Msg("failed to fetch odds history")
				return nil
			}
			if h.IsEmpty() {
				c.logger.Debug().Str("match_id", m.MatchID).Msg("no odds history")
				return nil
			}
			slots[i] = &Record{Match: m, History: *h}
			return nil
		})
	}
	_ = g.Wait()

	records := make([]Record, 0, len(matches))
	for _, r := range slots {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records
}

func (c *Crawler) save(ctx context.Context, histories []models.OddsHistory) int {
	if c.archive == nil {
		return 0
	}

	saved := 0
	for i := range histories {
		if err := c.archive.SaveHistory(ctx, &histories[i]); err != nil {
			c.logger.Warn().Err(err).Str("match_id", histories[i].MatchID).Msg("failed to archive odds history")
			continue
		}
		saved++
	}
	return saved
}

func (c *Crawler) dump(date string, records []Record) (string, error) {
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal odds histories: %w", err)
	}

	path := filepath.Join(c.outputDir, DumpFilename(date))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write odds histories: %w", err)
	}
	return path, nil
}

// DumpFilename returns odds_history_YYYYMMDD.json for a YYYY-MM-DD date
func DumpFilename(date string) string {
	return fmt.Sprintf("odds_history_%s.json", strings.ReplaceAll(date, "-", ""))
}
