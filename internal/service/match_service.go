package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cypherlabdev/sporttery-odds-service/internal/cache"
	"github.com/cypherlabdev/sporttery-odds-service/internal/metrics"
	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
)

const defaultConcurrency = 4

// MatchService serves match lists and odds histories with a cache-first strategy
type MatchService struct {
	provider    Provider
	cache       Cache
	archive     HistoryArchive
	metrics     *metrics.Metrics
	concurrency int
	logger      zerolog.Logger
}

// NewMatchService creates a new match service. archive may be nil.
func NewMatchService(
	provider Provider,
	cache Cache,
	archive HistoryArchive,
	m *metrics.Metrics,
	concurrency int,
	logger zerolog.Logger,
) *MatchService {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &MatchService{
		provider:    provider,
		cache:       cache,
		archive:     archive,
		metrics:     m,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "match_service").Logger(),
	}
}

// GetMatches lists the matches of date (currently selling when empty) sorted by match time
func (s *MatchService) GetMatches(ctx context.Context, date string) ([]models.Match, error) {
	key := cache.MatchesKey(date)

	cached, err := s.cache.GetMatches(ctx, key)
	s.metrics.ObserveCacheLookup("matches", err == nil)
	if err == nil {
		s.logger.Debug().Str("key", key).Int("count", len(cached)).Msg("cache hit for matches")
		return cached, nil
	}
	s.logCacheError(err, "matches", key)

	matches, err := s.provider.GetMatches(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches: %w", err)
	}
	if matches == nil {
		matches = []models.Match{}
	}
	slices.SortStableFunc(matches, func(a, b models.Match) int {
		return strings.Compare(a.MatchTime, b.MatchTime)
	})

	if err := s.cache.SetMatches(ctx, key, matches); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to cache matches")
	}

	s.logger.Info().
		Str("date", date).
		Str("provider", s.provider.Name()).
		Int("count", len(matches)).
		Msg("fetched matches")

	return matches, nil
}

// GetMatchDetail returns a match's current odds together with its odds history
func (s *MatchService) GetMatchDetail(ctx context.Context, matchID string) (*models.MatchDetail, error) {
	match, err := s.provider.GetMatchOdds(ctx, matchID)
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch match odds: %w", err)
	}

	history, err := s.GetOddsHistory(ctx, matchID)
	if err != nil {
		return nil, err
	}

	return models.NewMatchDetail(*match, history), nil
}

// GetOddsHistory looks a match's history up in the cache, then the provider,
// then the archive. Only non-empty histories are cached.
func (s *MatchService) GetOddsHistory(ctx context.Context, matchID string) (*models.OddsHistory, error) {
	cached, err := s.cache.GetOddsHistory(ctx, matchID)
	s.metrics.ObserveCacheLookup("history", err == nil)
	if err == nil && cached != nil {
		s.logger.Debug().Str("match_id", matchID).Msg("cache hit for odds history")
		return cached, nil
	}
	if err != nil {
		s.logCacheError(err, "history", matchID)
	}

	history, err := s.provider.GetOddsHistory(ctx, matchID)
	if err != nil {
		s.logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to fetch odds history")
		history = nil
	}

	if history.IsEmpty() && s.archive != nil {
		archived, err := s.archive.LoadHistory(ctx, matchID)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to load archived odds history")
		case !archived.IsEmpty():
			s.logger.Debug().Str("match_id", matchID).Msg("using archived odds history")
			history = archived
		}
	}

	if history.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return models.EmptyHistory(matchID), nil
	}

	if err := s.cache.SetOddsHistory(ctx, history); err != nil {
		s.logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to cache odds history")
	}

	return history, nil
}

// GetMatchesByIDs loads the details of ids with bounded concurrency. The
// result keeps the order of ids; unknown or failing ids are skipped.
func (s *MatchService) GetMatchesByIDs(ctx context.Context, ids []string) ([]*models.MatchDetail, error) {
	details := make([]*models.MatchDetail, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			detail, err := s.GetMatchDetail(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn().Err(err).Str("match_id", id).Msg("skipping match")
				return nil
			}
			details[i] = detail
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}

	found := make([]*models.MatchDetail, 0, len(ids))
	for _, d := range details {
		if d != nil {
			found = append(found, d)
		}
	}
	return found, nil
}

// Ping checks the cache backend
func (s *MatchService) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

func (s *MatchService) logCacheError(err error, kind, key string) {
	if errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Debug().Str("kind", kind).Str("key", key).Msg("cache miss")
		return
	}
	s.logger.Warn().Err(err).Str("kind", kind).Str("key", key).Msg("cache error, falling back to provider")
}
