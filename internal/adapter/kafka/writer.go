package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

// Publisher writes render pass summaries to a Kafka topic.
// It implements dashboard.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the render summary topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes one summary and writes it synchronously.
func (p *Publisher) Publish(ctx context.Context, summary domain.RenderSummary) error {
	msg, err := serializeToMessage(summary)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write render summary: %w", err)
	}
	p.logger.Debug("render summary published", "pass_id", summary.PassID, "topic", p.writer.Topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a RenderSummary into a Kafka message keyed by
// pass ID.
func serializeToMessage(summary domain.RenderSummary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize render summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.PassID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "driver", Value: []byte(summary.Driver)},
			{Key: "rendered_at", Value: []byte(summary.RenderedAt.Format(time.RFC3339))},
		},
	}, nil
}
