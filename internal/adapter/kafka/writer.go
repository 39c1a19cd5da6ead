package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/nonprofit-etl/internal/config"
	"github.com/couchcryptid/nonprofit-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes normalized records to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer messageWriter
	source string
	now    func() time.Time
	logger *slog.Logger
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewWriter creates a Kafka producer for the configured topic. source names
// the input file and is attached to every message as a header.
func NewWriter(cfg *config.Config, source string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, source: source, now: time.Now, logger: logger}
}

// Load serializes and publishes all records in a single WriteMessages call.
func (w *Writer) Load(ctx context.Context, records []domain.Nonprofit) error {
	if len(records) == 0 {
		return nil
	}
	processedAt := w.now().UTC()
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], w.source, processedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish records: %w", err)
	}
	w.logger.Info("records published", "count", len(msgs))
	return nil
}

// Name identifies the loader in logs.
func (w *Writer) Name() string {
	return "kafka"
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a record into a Kafka message keyed by its EIN
// (or name), so updates to one organization land on one partition.
func serializeToMessage(record domain.Nonprofit, source string, processedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize nonprofit: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(record.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source_file", Value: []byte(source)},
			{Key: "processed_at", Value: []byte(processedAt.Format(time.RFC3339))},
		},
	}, nil
}
