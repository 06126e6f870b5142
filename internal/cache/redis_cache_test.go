package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
)

// testRedisCacheSetup is a helper struct to hold test dependencies
type testRedisCacheSetup struct {
	cache     *RedisCache
	miniRedis *miniredis.Miniredis
	ctx       context.Context
}

// setupTestRedisCache creates a test cache with miniredis
func setupTestRedisCache(t *testing.T) *testRedisCacheSetup {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	config := RedisCacheConfig{
		Addr:       mr.Addr(),
		TTL:        5 * time.Minute,
		HistoryTTL: 2 * time.Minute,
	}

	return &testRedisCacheSetup{
		cache:     NewRedisCache(config, zerolog.Nop()),
		miniRedis: mr,
		ctx:       context.Background(),
	}
}

// cleanup cleans up test resources
func (s *testRedisCacheSetup) cleanup() {
	s.cache.Close()
	s.miniRedis.Close()
}

func testMatches() []models.Match {
	return []models.Match{
		{
			MatchID:   "2031001",
			MatchTime: "2026-02-27 19:30:00",
			League:    "英超",
			HomeTeam:  "曼城",
			AwayTeam:  "利物浦",
			Status:    models.StatusSelling,
			HadOdds: models.MoneylineOdds{
				Win:  decimal.RequireFromString("2.15"),
				Draw: decimal.RequireFromString("3.40"),
				Lose: decimal.RequireFromString("3.25"),
			},
			HhadOdds: models.HandicapOdds{Handicap: decimal.NewFromInt(-1)},
		},
		{MatchID: "2031002", MatchTime: "2026-02-27 21:00:00", League: "西甲"},
	}
}

func testHistory(matchID string) *models.OddsHistory {
	return &models.OddsHistory{
		MatchID: matchID,
		Moneyline: []models.OddsObservation{
			{UpdateDate: "2026-02-27", UpdateTime: "10:00:00", Kind: models.Moneyline, Win: decimal.RequireFromString("2.00"), Draw: decimal.RequireFromString("3.00"), Lose: decimal.RequireFromString("3.50")},
			{UpdateDate: "2026-02-27", UpdateTime: "10:05:00", Kind: models.Moneyline, Win: decimal.RequireFromString("2.10"), Draw: decimal.RequireFromString("3.00"), Lose: decimal.RequireFromString("3.40")},
		},
		HandicapLine: []models.OddsObservation{
			{UpdateDate: "2026-02-27", UpdateTime: "10:00:00", Kind: models.HandicapLine, Handicap: decimal.NewFromInt(-1), Draw: decimal.RequireFromString("3.10")},
		},
		FetchedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// TestNewRedisCache tests cache creation
func TestNewRedisCache(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	assert.NotNil(t, setup.cache)
	assert.NotNil(t, setup.cache.client)
	assert.Equal(t, 5*time.Minute, setup.cache.ttl)
	assert.Equal(t, 2*time.Minute, setup.cache.historyTTL)
}

// TestNewRedisCache_HistoryTTLDefaultsToTTL tests the history TTL fallback
func TestNewRedisCache_HistoryTTLDefaultsToTTL(t *testing.T) {
	cache := NewRedisCache(RedisCacheConfig{Addr: "localhost:6379", TTL: time.Minute}, zerolog.Nop())
	defer cache.Close()

	assert.Equal(t, time.Minute, cache.historyTTL)
}

// TestKeys tests cache key construction
func TestKeys(t *testing.T) {
	assert.Equal(t, "matches:selling", MatchesKey(""))
	assert.Equal(t, "matches:2026-02-27", MatchesKey("2026-02-27"))
	assert.Equal(t, "history:2031001", HistoryKey("2031001"))
}

// TestSetMatches_Success tests match list caching and retrieval
func TestSetMatches_Success(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	key := MatchesKey("2026-02-27")
	err := setup.cache.SetMatches(setup.ctx, key, testMatches())
	require.NoError(t, err)

	matches, err := setup.cache.GetMatches(setup.ctx, key)

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "2031001", matches[0].MatchID)
	assert.Equal(t, "曼城", matches[0].HomeTeam)
	assert.True(t, decimal.RequireFromString("2.15").Equal(matches[0].HadOdds.Win))
	assert.True(t, decimal.NewFromInt(-1).Equal(matches[0].HhadOdds.Handicap))
}

// TestGetMatches_NotFound tests retrieval of an absent list
func TestGetMatches_NotFound(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	matches, err := setup.cache.GetMatches(setup.ctx, MatchesKey(""))

	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, matches)
}

// TestGetMatches_Corrupted tests retrieval of an undecodable value
func TestGetMatches_Corrupted(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	require.NoError(t, setup.miniRedis.Set(MatchesKey(""), "not json"))

	matches, err := setup.cache.GetMatches(setup.ctx, MatchesKey(""))

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, matches)
}

// TestSetMatches_ContextCanceled tests set operation with canceled context
func TestSetMatches_ContextCanceled(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := setup.cache.SetMatches(ctx, MatchesKey(""), testMatches())

	assert.Error(t, err)
}

// TestSetOddsHistory_Success tests history caching and retrieval
func TestSetOddsHistory_Success(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	original := testHistory("2031001")
	require.NoError(t, setup.cache.SetOddsHistory(setup.ctx, original))

	history, err := setup.cache.GetOddsHistory(setup.ctx, "2031001")

	require.NoError(t, err)
	assert.Equal(t, "2031001", history.MatchID)
	require.Len(t, history.Moneyline, 2)
	require.Len(t, history.HandicapLine, 1)
	assert.Equal(t, "10:05:00", history.Moneyline[1].UpdateTime)
	assert.True(t, original.Moneyline[1].Lose.Equal(history.Moneyline[1].Lose))
	assert.Equal(t, models.HandicapLine, history.HandicapLine[0].Kind)
	assert.True(t, original.FetchedAt.Equal(history.FetchedAt))
}

// TestGetOddsHistory_ExpiredKey tests retrieval of expired history
func TestGetOddsHistory_ExpiredKey(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	require.NoError(t, setup.cache.SetOddsHistory(setup.ctx, testHistory("2031001")))

	// Histories expire sooner than match lists
	setup.miniRedis.FastForward(3 * time.Minute)

	history, err := setup.cache.GetOddsHistory(setup.ctx, "2031001")

	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, history)
}

// TestCache_TTLRespected tests that each kind carries its own TTL
func TestCache_TTLRespected(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	require.NoError(t, setup.cache.SetMatches(setup.ctx, MatchesKey(""), testMatches()))
	require.NoError(t, setup.cache.SetOddsHistory(setup.ctx, testHistory("2031001")))

	matchesTTL := setup.miniRedis.TTL(MatchesKey(""))
	historyTTL := setup.miniRedis.TTL(HistoryKey("2031001"))

	assert.True(t, matchesTTL > 2*time.Minute)
	assert.True(t, matchesTTL <= 5*time.Minute)
	assert.True(t, historyTTL > 0)
	assert.True(t, historyTTL <= 2*time.Minute)
}

// TestSetOddsHistoryBatch_Success tests pipelined batch caching
func TestSetOddsHistoryBatch_Success(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	batch := []models.OddsHistory{*testHistory("1"), *testHistory("2"), *testHistory("3")}

	err := setup.cache.SetOddsHistoryBatch(setup.ctx, batch)
	require.NoError(t, err)

	for _, id := range []string{"1", "2", "3"} {
		history, err := setup.cache.GetOddsHistory(setup.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, history.MatchID)
		assert.Len(t, history.Moneyline, 2)
	}
}

// TestSetOddsHistoryBatch_EmptyList tests batch caching with nothing to store
func TestSetOddsHistoryBatch_EmptyList(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	assert.NoError(t, setup.cache.SetOddsHistoryBatch(setup.ctx, []models.OddsHistory{}))
	assert.NoError(t, setup.cache.SetOddsHistoryBatch(setup.ctx, nil))
	assert.Empty(t, setup.miniRedis.Keys())
}

// TestPing_Success tests successful ping
func TestPing_Success(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	assert.NoError(t, setup.cache.Ping(setup.ctx))
}

// TestPing_RedisDown tests ping when Redis is down
func TestPing_RedisDown(t *testing.T) {
	setup := setupTestRedisCache(t)

	// Close Redis before ping
	setup.miniRedis.Close()

	err := setup.cache.Ping(setup.ctx)

	assert.Error(t, err)

	// Don't call cleanup() since we already closed Redis
	setup.cache.Close()
}

// TestGetOddsHistory_RedisDown tests that a dead Redis is an error, not a miss
func TestGetOddsHistory_RedisDown(t *testing.T) {
	setup := setupTestRedisCache(t)
	setup.miniRedis.Close()
	defer setup.cache.Close()

	history, err := setup.cache.GetOddsHistory(setup.ctx, "2031001")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, history)
}

// TestCache_ConcurrentAccess tests thread safety
func TestCache_ConcurrentAccess(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	history := testHistory("2031001")
	require.NoError(t, setup.cache.SetOddsHistory(setup.ctx, history))

	done := make(chan bool)

	// Writers
	for i := 0; i < 5; i++ {
		go func() {
			assert.NoError(t, setup.cache.SetOddsHistory(setup.ctx, history))
			done <- true
		}()
	}

	// Readers
	for i := 0; i < 5; i++ {
		go func() {
			retrieved, err := setup.cache.GetOddsHistory(setup.ctx, "2031001")
			assert.NoError(t, err)
			assert.NotNil(t, retrieved)
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

// TestNopCache tests the disabled cache
func TestNopCache(t *testing.T) {
	var c NopCache
	ctx := context.Background()

	assert.NoError(t, c.SetMatches(ctx, MatchesKey(""), testMatches()))
	_, err := c.GetMatches(ctx, MatchesKey(""))
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, c.SetOddsHistory(ctx, testHistory("1")))
	_, err = c.GetOddsHistory(ctx, "1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, c.SetOddsHistoryBatch(ctx, []models.OddsHistory{*testHistory("1")}))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}
