package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
)

// historiesPerMessage keeps messages well under the broker's default 1MB limit
const historiesPerMessage = 50

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// HistoryProducer publishes crawled odds histories for the server's consumer
type HistoryProducer struct {
	writer messageWriter
	topic  string
	now    func() time.Time
	logger zerolog.Logger
}

// HistoryProducerConfig holds Kafka producer configuration
type HistoryProducerConfig struct {
	Brokers []string
	Topic   string
}

// NewHistoryProducer creates a new history producer
func NewHistoryProducer(config HistoryProducerConfig, logger zerolog.Logger) *HistoryProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
	}

	return &HistoryProducer{
		writer: writer,
		topic:  config.Topic,
		now:    time.Now,
		logger: logger.With().Str("component", "history_producer").Logger(),
	}
}

// Publish sends histories in batches keyed by a fresh batch id and returns
// the batch ids in send order.
func (p *HistoryProducer) Publish(ctx context.Context, date string, histories []models.OddsHistory) ([]string, error) {
	if len(histories) == 0 {
		return nil, nil
	}

	msgs := make([]kafka.Message, 0, len(histories)/historiesPerMessage+1)
	batchIDs := make([]string, 0, cap(msgs))
	for start := 0; start < len(histories); start += historiesPerMessage {
		end := min(start+historiesPerMessage, len(histories))

		batch := models.OddsHistoryMessage{
			Histories: histories[start:end],
			Date:      date,
			Timestamp: p.now().UTC(),
			BatchID:   uuid.NewString(),
		}
		value, err := json.Marshal(batch)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal history batch: %w", err)
		}

		msgs = append(msgs, kafka.Message{Key: []byte(batch.BatchID), Value: value})
		batchIDs = append(batchIDs, batch.BatchID)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return nil, fmt.Errorf("failed to publish odds histories: %w", err)
	}

	p.logger.Info().
		Str("topic", p.topic).
		Str("date", date).
		Int("history_count", len(histories)).
		Int("message_count", len(msgs)).
		Msg("published odds histories")

	return batchIDs, nil
}

// Close flushes and closes the Kafka writer
func (p *HistoryProducer) Close() error {
	return p.writer.Close()
}
