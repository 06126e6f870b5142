package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
	"github.com/cypherlabdev/sporttery-odds-service/internal/service"
)

// KafkaConsumer consumes crawled odds histories from Kafka and warms the cache with them
type KafkaConsumer struct {
	reader *kafka.Reader
	cache  service.Cache
	logger zerolog.Logger
}

// KafkaConsumerConfig holds Kafka consumer configuration
type KafkaConsumerConfig struct {
	Brokers []string // e.g., ["localhost:9092"]
	Topic   string   // e.g., "odds_history"
	GroupID string   // e.g., "sporttery-odds"
}

// NewKafkaConsumer creates a new Kafka consumer
func NewKafkaConsumer(
	config KafkaConsumerConfig,
	cache service.Cache,
	logger zerolog.Logger,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Brokers,
		Topic:          config.Topic,
		GroupID:        config.GroupID,
		MinBytes:       1e3,  // 1KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &KafkaConsumer{
		reader: reader,
		cache:  cache,
		logger: logger.With().Str("component", "kafka_consumer").Logger(),
	}
}

// Start begins consuming messages from Kafka
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("topic", c.reader.Config().Topic).
		Str("group_id", c.reader.Config().GroupID).
		Msg("started consuming from Kafka")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("stopping Kafka consumer")
			return nil

		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				c.logger.Error().Err(err).Msg("failed to fetch message")
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.logger.Error().
					Err(err).
					Int64("offset", msg.Offset).
					Str("key", string(msg.Key)).
					Msg("failed to process message")
				// left uncommitted so the batch is redelivered
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error().Err(err).Msg("failed to commit message")
			}
		}
	}
}

// processMessage stores the histories of one message in the cache
func (c *KafkaConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var historyMsg models.OddsHistoryMessage
	if err := json.Unmarshal(msg.Value, &historyMsg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	histories := make([]models.OddsHistory, 0, len(historyMsg.Histories))
	for _, h := range historyMsg.Histories {
		if h.MatchID == "" || h.IsEmpty() {
			continue
		}
		histories = append(histories, h)
	}

	c.logger.Debug().
		Int("history_count", len(historyMsg.Histories)).
		Str("batch_id", historyMsg.BatchID).
		Str("date", historyMsg.Date).
		Msg("processing odds history batch")

	if len(histories) == 0 {
		return nil
	}

	if err := c.cache.SetOddsHistoryBatch(ctx, histories); err != nil {
		return fmt.Errorf("failed to cache odds histories: %w", err)
	}

	c.logger.Info().
		Int("input_count", len(historyMsg.Histories)).
		Int("cached_count", len(histories)).
		Str("batch_id", historyMsg.BatchID).
		Msg("cached odds history batch")

	return nil
}

// Close closes the Kafka reader
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
