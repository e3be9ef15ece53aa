package worker

import (
	"context"
	"time"

	"github.com/navipath/navigation-platform/internal/kafka"
	"github.com/navipath/navigation-platform/internal/metrics"
	"go.uber.org/zap"
)

// Consumer is the slice of the kafka consumer the loop needs.
type Consumer interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
	Close() error
}

// Loop is one per-service consumer loop: fetch, dispatch, commit. Messages
// are processed one at a time in poll order. The commit discipline is
// commit-after-dispatch, applied uniformly: dispatch errors are logged and
// the offset is committed anyway so one bad message cannot stall the topic.
// Combined with redelivery after a crash before commit this is at-least-once,
// never exactly-once.
type Loop struct {
	consumer Consumer
	disp     *Dispatcher
	log      *zap.Logger

	// FetchErrSleep is the pause after a failed fetch before retrying.
	FetchErrSleep time.Duration
}

func NewLoop(consumer Consumer, disp *Dispatcher, log *zap.Logger) *Loop {
	return &Loop{
		consumer:      consumer,
		disp:          disp,
		log:           log,
		FetchErrSleep: 200 * time.Millisecond,
	}
}

// Run blocks until ctx is cancelled, then closes the reader. A single
// malformed or failing message never crashes the loop.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		if err := l.consumer.Close(); err != nil {
			l.log.Error("consumer close failed", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		m, err := l.consumer.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.log.Error("fetch failed", zap.Error(err))
			time.Sleep(l.FetchErrSleep)
			continue
		}

		l.processOne(ctx, m)
	}
}

func (l *Loop) processOne(ctx context.Context, m kafka.Message) {
	if err := l.disp.Dispatch(ctx, m.Topic, m.Value); err != nil {
		metrics.EventsConsumedTotal.WithLabelValues(m.Topic, "error").Inc()
		l.log.Error("dispatch failed",
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.Error(err),
		)
	} else {
		metrics.EventsConsumedTotal.WithLabelValues(m.Topic, "ok").Inc()
	}

	// Always commit; a message that failed to apply is logged, not retried.
	if err := l.consumer.Commit(ctx, m); err != nil {
		l.log.Error("commit failed",
			zap.String("topic", m.Topic),
			zap.Int64("offset", m.Offset),
			zap.Error(err),
		)
	}
}
