package service

import (
	"context"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
)

// Provider is an interface that abstracts an upstream odds data source
// This allows for easier testing and mocking
type Provider interface {
	Name() string
	// GetMatches lists matches for date (YYYY-MM-DD). An empty date means the
	// matches currently on sale, or recent results when nothing is on sale.
	GetMatches(ctx context.Context, date string) ([]models.Match, error)
	// GetMatchOdds returns ErrMatchNotFound for unknown ids
	GetMatchOdds(ctx context.Context, matchID string) (*models.Match, error)
	// GetOddsHistory returns both series in ascending timestamp order
	GetOddsHistory(ctx context.Context, matchID string) (*models.OddsHistory, error)
}
