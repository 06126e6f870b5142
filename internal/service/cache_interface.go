package service

import (
	"context"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
)

// Cache is an interface that abstracts cache operations
// This allows for easier testing and mocking
type Cache interface {
	SetMatches(ctx context.Context, key string, matches []models.Match) error
	GetMatches(ctx context.Context, key string) ([]models.Match, error)
	SetOddsHistory(ctx context.Context, history *models.OddsHistory) error
	GetOddsHistory(ctx context.Context, matchID string) (*models.OddsHistory, error)
	SetOddsHistoryBatch(ctx context.Context, histories []models.OddsHistory) error
	Ping(ctx context.Context) error
	Close() error
}

// HistoryArchive is durable storage for crawled odds histories
type HistoryArchive interface {
	SaveHistory(ctx context.Context, history *models.OddsHistory) error
	LoadHistory(ctx context.Context, matchID string) (*models.OddsHistory, error)
}
