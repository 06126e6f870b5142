package cache

import (
	"context"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
)

// NopCache stores nothing and misses on every lookup. It stands in for Redis
// when caching is disabled.
type NopCache struct{}

func (NopCache) SetMatches(context.Context, string, []models.Match) error { return nil }

func (NopCache) GetMatches(context.Context, string) ([]models.Match, error) {
	return nil, ErrCacheMiss
}

func (NopCache) SetOddsHistory(context.Context, *models.OddsHistory) error { return nil }

func (NopCache) GetOddsHistory(context.Context, string) (*models.OddsHistory, error) {
	return nil, ErrCacheMiss
}

func (NopCache) SetOddsHistoryBatch(context.Context, []models.OddsHistory) error { return nil }

func (NopCache) Ping(context.Context) error { return nil }

func (NopCache) Close() error { return nil }
