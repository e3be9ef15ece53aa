package kafka

import (
	"context"
	"time"

	"github.com/navipath/navigation-platform/internal/util"
	"github.com/segmentio/kafka-go"
)

type ProducerConfig struct {
	Brokers      []string
	MaxAttempts  int           // default 3
	WriteTimeout time.Duration // default 10s
	BatchTimeout time.Duration // default 10ms (low latency, relay publishes one at a time)
}

// Producer is a thin wrapper around segmentio/kafka-go Writer. It holds no
// business state; topic is chosen per publish so one writer serves the relay.
type Producer struct {
	w *kafka.Writer
}

func NewProducerFromConfig(c ProducerConfig) *Producer {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	wt := c.WriteTimeout
	if wt <= 0 {
		wt = 10 * time.Second
	}
	bt := c.BatchTimeout
	if bt <= 0 {
		bt = 10 * time.Millisecond
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  attempts,
		WriteTimeout: wt,
		BatchTimeout: bt,
	}

	return &Producer{w: w}
}

// Publish sends one message with a fresh ULID key (not content-derived, so it
// cannot serve broker-side dedup) and the standard envelope headers.
func (p *Producer) Publish(ctx context.Context, topic string, payload []byte) error {
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(util.New()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-version", Value: []byte("1.0")},
			{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	})
}

func (p *Producer) Close() error { return p.w.Close() }
