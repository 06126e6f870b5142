package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
)

// ErrCacheMiss is returned when a key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// sellingKey stands in for the date of the "currently selling" match list
const sellingKey = "selling"

// RedisCache caches match lists and odds histories in Redis
type RedisCache struct {
	client     *redis.Client
	ttl        time.Duration
	historyTTL time.Duration
	logger     zerolog.Logger
}

// RedisCacheConfig holds Redis cache configuration
type RedisCacheConfig struct {
	Addr       string // e.g., "localhost:6379"
	Password   string
	DB         int
	TTL        time.Duration // match lists, e.g., 5 * time.Minute
	HistoryTTL time.Duration // odds histories, e.g., 2 * time.Minute
}

// NewRedisCache creates a new Redis cache
func NewRedisCache(config RedisCacheConfig, logger zerolog.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	historyTTL := config.HistoryTTL
	if historyTTL <= 0 {
		historyTTL = config.TTL
	}

	return &RedisCache{
		client:     client,
		ttl:        config.TTL,
		historyTTL: historyTTL,
		logger:     logger.With().Str("component", "redis_cache").Logger(),
	}
}

// MatchesKey returns the cache key of a match list for date. An empty date
// is the currently selling list.
func MatchesKey(date string) string {
	if date == "" {
		date = sellingKey
	}
	return "matches:" + date
}

// HistoryKey returns the cache key of a match's odds history
func HistoryKey(matchID string) string {
	return "history:" + matchID
}

// SetMatches caches a match list under key
func (c *RedisCache) SetMatches(ctx context.Context, key string, matches []models.Match) error {
	data, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in Redis: %w", err)
	}

	c.logger.Debug().
		Str("key", key).
		Int("count", len(matches)).
		Dur("ttl", c.ttl).
		Msg("cached match list")

	return nil
}

// GetMatches retrieves a cached match list
func (c *RedisCache) GetMatches(ctx context.Context, key string) ([]models.Match, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	} else if err != nil {
		return nil, fmt.Errorf("failed to get from Redis: %w", err)
	}

	var matches []models.Match
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal matches: %w", err)
	}

	return matches, nil
}

// SetOddsHistory caches one match's odds history
func (c *RedisCache) SetOddsHistory(ctx context.Context, history *models.OddsHistory) error {
	key := HistoryKey(history.MatchID)

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal odds history: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.historyTTL).Err(); err != nil {
		return fmt.Errorf("failed to set in Redis: %w", err)
	}

	c.logger.Debug().
		Str("key", key).
		Dur("ttl", c.historyTTL).
		Msg("cached odds history")

	return nil
}

// GetOddsHistory retrieves a cached odds history
func (c *RedisCache) GetOddsHistory(ctx context.Context, matchID string) (*models.OddsHistory, error) {
	data, err := c.client.Get(ctx, HistoryKey(matchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	} else if err != nil {
		return nil, fmt.Errorf("failed to get from Redis: %w", err)
	}

	var history models.OddsHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal odds history: %w", err)
	}

	return &history, nil
}

// SetOddsHistoryBatch caches multiple odds histories
func (c *RedisCache) SetOddsHistoryBatch(ctx context.Context, histories []models.OddsHistory) error {
	if len(histories) == 0 {
		return nil
	}

	// Use pipeline for batch operations
	pipe := c.client.Pipeline()

	for i := range histories {
		data, err := json.Marshal(&histories[i])
		if err != nil {
			c.logger.Error().Err(err).Str("match_id", histories[i].MatchID).Msg("failed to marshal odds history")
			continue
		}
		pipe.Set(ctx, HistoryKey(histories[i].MatchID), data, c.historyTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute pipeline: %w", err)
	}

	c.logger.Info().
		Int("count", len(histories)).
		Msg("cached batch of odds histories")

	return nil
}

// Ping checks Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
