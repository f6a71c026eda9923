// Package kafka publishes anomaly alerts to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

// Publisher produces alert messages to a Kafka topic. It implements
// pipeline.AlertSink.
type Publisher struct {
	writer *kafkago.Writer
	runID  string
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the alert topic. runID tags every
// message so downstream consumers can group alerts by simulation run.
func NewPublisher(brokers []string, topic, runID string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, runID: runID, logger: logger}
}

// PublishAlerts serializes and publishes the alerts in a single WriteMessages
// call. Messages are keyed by sensor ID so each sensor's alerts stay ordered
// within a partition.
func (p *Publisher) PublishAlerts(ctx context.Context, alerts []domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(alerts))
	for i := range alerts {
		msg, err := p.serializeToMessage(alerts[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an Alert into a Kafka message.
func (p *Publisher) serializeToMessage(alert domain.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.SensorID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "rule_name", Value: []byte(alert.RuleName)},
			{Key: "severity", Value: []byte(alert.Severity)},
			{Key: "run_id", Value: []byte(p.runID)},
			{Key: "detected_at", Value: []byte(alert.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
