package outbox

import (
	"context"
	"time"

	"github.com/navipath/navigation-platform/internal/kafka"
	"github.com/navipath/navigation-platform/internal/metrics"
	"github.com/navipath/navigation-platform/internal/model"
	"github.com/navipath/navigation-platform/internal/repository"
	"go.uber.org/zap"
)

// Store is the slice of the outbox repository the relay needs.
type Store interface {
	FetchUnprocessed(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, ids []string, at time.Time) error
}

// Publisher sends one payload to a topic, acknowledged.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

var _ Store = (repository.OutboxRepository)(nil)

// Relay drains unprocessed outbox rows into the broker. Delivery is
// at-least-once: a crash between broker ack and MarkProcessed resends the
// event on the next cycle. Run exactly one relay instance per service; the
// poll takes no lock, so concurrent relays multiply duplicate publishes.
type Relay struct {
	store Store
	pub   Publisher
	log   *zap.Logger

	// Behavior
	PollInterval time.Duration // default 5s
	BatchSize    int           // default 10
}

func NewRelay(store Store, pub Publisher, log *zap.Logger) *Relay {
	return &Relay{
		store:        store,
		pub:          pub,
		log:          log,
		PollInterval: 5 * time.Second,
		BatchSize:    10,
	}
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r.PollInterval <= 0 {
		r.PollInterval = 5 * time.Second
	}
	if r.BatchSize <= 0 {
		r.BatchSize = 10
	}

	ticker := time.NewTicker(r.PollInterval)
	defer ticker.Stop()

	for {
		if err := r.runCycle(ctx); err != nil {
			r.log.Error("outbox cycle failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runCycle publishes one batch. Each record is handled independently: a
// publish failure leaves that row unprocessed for the next cycle and never
// blocks the rest of the batch. Successes are marked processed in one update
// at the end.
func (r *Relay) runCycle(ctx context.Context) error {
	events, err := r.store.FetchUnprocessed(ctx, r.BatchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	published := make([]string, 0, len(events))
	for _, ev := range events {
		topic, err := kafka.TopicFor(ev.EventType)
		if err != nil {
			// configuration error; the row stays pending until the mapping is fixed
			metrics.OutboxPublishedTotal.WithLabelValues(ev.EventType, "error").Inc()
			r.log.Error("unmapped outbox event type",
				zap.String("event_id", ev.ID),
				zap.String("event_type", ev.EventType),
			)
			continue
		}

		if err := r.pub.Publish(ctx, topic, ev.Payload); err != nil {
			metrics.OutboxPublishedTotal.WithLabelValues(ev.EventType, "error").Inc()
			r.log.Error("outbox publish failed",
				zap.String("event_id", ev.ID),
				zap.String("topic", topic),
				zap.Error(err),
			)
			continue
		}

		metrics.OutboxPublishedTotal.WithLabelValues(ev.EventType, "ok").Inc()
		published = append(published, ev.ID)
	}

	if len(published) == 0 {
		return nil
	}
	return r.store.MarkProcessed(ctx, published, time.Now().UTC())
}
