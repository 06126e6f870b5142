package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cypherlabdev/sporttery-odds-service/internal/mocks"
	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
)

// testKafkaConsumerSetup is a helper struct to hold test dependencies
type testKafkaConsumerSetup struct {
	mockCache *mocks.MockCache
	consumer  *KafkaConsumer
	config    KafkaConsumerConfig
	ctrl      *gomock.Controller
}

// setupTestKafkaConsumer creates a test consumer with mocked dependencies
func setupTestKafkaConsumer(t *testing.T) *testKafkaConsumerSetup {
	ctrl := gomock.NewController(t)
	mockCache := mocks.NewMockCache(ctrl)

	config := KafkaConsumerConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "odds_history",
		GroupID: "test-group",
	}

	return &testKafkaConsumerSetup{
		mockCache: mockCache,
		consumer:  NewKafkaConsumer(config, mockCache, zerolog.Nop()),
		config:    config,
		ctrl:      ctrl,
	}
}

// cleanup cleans up test resources
func (s *testKafkaConsumerSetup) cleanup() {
	s.consumer.Close()
	s.ctrl.Finish()
}

func sampleHistory(matchID string) models.OddsHistory {
	return models.OddsHistory{
		MatchID: matchID,
		Moneyline: []models.OddsObservation{
			{
				UpdateDate: "2026-02-27",
				UpdateTime: "09:00:00",
				Kind:       models.Moneyline,
				Win:        decimal.RequireFromString("2.15"),
				Draw:       decimal.RequireFromString("3.40"),
				Lose:       decimal.RequireFromString("3.25"),
			},
		},
		HandicapLine: []models.OddsObservation{},
		FetchedAt:    time.Date(2026, 2, 27, 9, 5, 0, 0, time.UTC),
	}
}

func encode(t *testing.T, msg models.OddsHistoryMessage) kafka.Message {
	t.Helper()
	value, err := json.Marshal(msg)
	require.NoError(t, err)
	return kafka.Message{Key: []byte(msg.BatchID), Value: value}
}

// TestNewKafkaConsumer tests consumer creation
func TestNewKafkaConsumer(t *testing.T) {
	setup := setupTestKafkaConsumer(t)
	defer setup.cleanup()

	assert.NotNil(t, setup.consumer.reader)
	assert.NotNil(t, setup.consumer.cache)

	readerConfig := setup.consumer.reader.Config()
	assert.Equal(t, setup.config.Brokers, readerConfig.Brokers)
	assert.Equal(t, setup.config.Topic, readerConfig.Topic)
	assert.Equal(t, setup.config.GroupID, readerConfig.GroupID)
	assert.Equal(t, 1000, readerConfig.MinBytes)     // 1KB
	assert.Equal(t, 10000000, readerConfig.MaxBytes) // 10MB
	assert.Equal(t, time.Second, readerConfig.CommitInterval)
}

func TestProcessMessage(t *testing.T) {
	tests := []struct {
		name       string
		message    func(t *testing.T) kafka.Message
		setupMocks func(c *mocks.MockCache)
		wantErr    string
	}{
		{
			name: "caches every history",
			message: func(t *testing.T) kafka.Message {
				return encode(t, models.OddsHistoryMessage{
					Histories: []models.OddsHistory{sampleHistory("m1"), sampleHistory("m2")},
					Date:      "2026-02-27",
					BatchID:   "batch-1",
				})
			},
			setupMocks: func(c *mocks.MockCache) {
				c.EXPECT().SetOddsHistoryBatch(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, histories []models.OddsHistory) error {
						if assert.Len(t, histories, 2) {
							assert.Equal(t, "m1", histories[0].MatchID)
							assert.Equal(t, "m2", histories[1].MatchID)
							assert.True(t, histories[0].Moneyline[0].Win.Equal(decimal.RequireFromString("2.15")))
						}
						return nil
					})
			},
		},
		{
			name: "skips empty and anonymous histories",
			message: func(t *testing.T) kafka.Message {
				anonymous := sampleHistory("")
				return encode(t, models.OddsHistoryMessage{
					Histories: []models.OddsHistory{*models.EmptyHistory("m1"), anonymous, sampleHistory("m3")},
					BatchID:   "batch-2",
				})
			},
			setupMocks: func(c *mocks.MockCache) {
				c.EXPECT().SetOddsHistoryBatch(gomock.Any(), gomock.Len(1)).Return(nil)
			},
		},
		{
			name: "empty batch touches nothing",
			message: func(t *testing.T) kafka.Message {
				return encode(t, models.OddsHistoryMessage{Histories: []models.OddsHistory{}, BatchID: "batch-empty"})
			},
			setupMocks: func(c *mocks.MockCache) {},
		},
		{
			name: "invalid json",
			message: func(t *testing.T) kafka.Message {
				return kafka.Message{Value: []byte("{not json")}
			},
			setupMocks: func(c *mocks.MockCache) {},
			wantErr:    "failed to unmarshal message",
		},
		{
			name: "cache failure",
			message: func(t *testing.T) kafka.Message {
				return encode(t, models.OddsHistoryMessage{Histories: []models.OddsHistory{sampleHistory("m1")}, BatchID: "batch-3"})
			},
			setupMocks: func(c *mocks.MockCache) {
				c.EXPECT().SetOddsHistoryBatch(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
			},
			wantErr: "failed to cache odds histories",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := setupTestKafkaConsumer(t)
			defer setup.cleanup()
			tt.setupMocks(setup.mockCache)

			err := setup.consumer.processMessage(context.Background(), tt.message(t))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// TestKafkaConsumerConfig tests different configurations
func TestKafkaConsumerConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := mocks.NewMockCache(ctrl)

	tests := []struct {
		name   string
		config KafkaConsumerConfig
	}{
		{
			name: "Single broker",
			config: KafkaConsumerConfig{
				Brokers: []string{"localhost:9092"},
				Topic:   "odds_history",
				GroupID: "test-group",
			},
		},
		{
			name: "Multiple brokers",
			config: KafkaConsumerConfig{
				Brokers: []string{"broker1:9092", "broker2:9092", "broker3:9092"},
				Topic:   "odds_history",
				GroupID: "test-group",
			},
		},
		{
			name: "Different topic",
			config: KafkaConsumerConfig{
				Brokers: []string{"localhost:9092"},
				Topic:   "odds_history_v2",
				GroupID: "test-group",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consumer := NewKafkaConsumer(tt.config, mockCache, zerolog.Nop())

			assert.Equal(t, tt.config.Topic, consumer.reader.Config().Topic)
			assert.Equal(t, tt.config.GroupID, consumer.reader.Config().GroupID)
			assert.Equal(t, tt.config.Brokers, consumer.reader.Config().Brokers)

			consumer.Close()
		})
	}
}

// TestKafkaConsumer_Close tests consumer closing
func TestKafkaConsumer_Close(t *testing.T) {
	setup := setupTestKafkaConsumer(t)

	assert.NoError(t, setup.consumer.Close())
}

// TestKafkaConsumer_ContextCancellation tests context cancellation handling
func TestKafkaConsumer_ContextCancellation(t *testing.T) {
	setup := setupTestKafkaConsumer(t)
	defer setup.cleanup()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- setup.consumer.Start(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Consumer did not stop within timeout")
	}
}
