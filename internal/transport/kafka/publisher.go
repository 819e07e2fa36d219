// Package kafka publishes search analytics events.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/retaildex/internal/domain/search/event"
)

// Config holds producer settings.
type Config struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	Async        bool
}

// messageWriter is the subset of *kafka.Writer used by Publisher (ISP).
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes JSON-encoded search events to a topic.
type Publisher struct {
	writer messageWriter
	logger *zap.Logger
}

// NewPublisher creates a Publisher. Messages are keyed by normalized query text.
func NewPublisher(cfg Config, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    batchSize,
		BatchTimeout: batchTimeout,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireOne,
		Async:        cfg.Async,
	}
	return &Publisher{
		writer: w,
		logger: logger.With(zap.String("component", "kafka-publisher"), zap.String("topic", cfg.Topic)),
	}
}

// PublishSearch implements search.EventPublisher.
func (p *Publisher) PublishSearch(ctx context.Context, e event.Search) error {
	msg, err := searchMessage(e)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish search event", zap.Error(err))
		return fmt.Errorf("publish search event: %w", err)
	}
	p.logger.Debug("search event published", zap.Int("value_size", len(msg.Value)))
	return nil
}

// Close flushes pending writes.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func searchMessage(e event.Search) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal search event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strings.ToLower(strings.TrimSpace(e.Query))),
		Value: value,
		Time:  e.Timestamp,
	}, nil
}
