// Package kafka fans exceeded spill events out to an alerts topic for
// downstream notification consumers. The Firestore record stays the source
// of truth; this path is best-effort.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ush214/project-guardian/internal/domain"
)

// Publisher produces alert messages to the configured Kafka topic.
// It implements pipeline.AlertPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the alerts topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishAlert serializes and publishes one exceeded event. The message key
// is the deterministic event ID, so compacted topics retain one message per
// event identity.
func (p *Publisher) PublishAlert(ctx context.Context, wreckPath string, event domain.SpillEvent) error {
	msg, err := alertMessage(wreckPath, event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes and closes the producer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// alertEnvelope is the wire form of one alert.
type alertEnvelope struct {
	WreckPath string            `json:"wreckPath"`
	Event     domain.SpillEvent `json:"event"`
}

func alertMessage(wreckPath string, event domain.SpillEvent) (kafkago.Message, error) {
	data, err := json.Marshal(alertEnvelope{WreckPath: wreckPath, Event: event})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "severity", Value: []byte(event.Severity)},
			{Key: "created_at_ms", Value: []byte(strconv.FormatInt(event.CreatedAtMs, 10))},
		},
	}, nil
}
