package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/navipath/navigation-platform/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedConsumer feeds a fixed set of messages and cancels the loop's
// context when the script runs out.
type scriptedConsumer struct {
	messages  []kafka.Message
	cancel    context.CancelFunc
	committed []kafka.Message
	closed    bool
}

func (c *scriptedConsumer) Fetch(ctx context.Context) (kafka.Message, error) {
	if len(c.messages) == 0 {
		c.cancel()
		return kafka.Message{}, ctx.Err()
	}
	m := c.messages[0]
	c.messages = c.messages[1:]
	return m, nil
}

func (c *scriptedConsumer) Commit(ctx context.Context, m kafka.Message) error {
	c.committed = append(c.committed, m)
	return nil
}

func (c *scriptedConsumer) Close() error {
	c.closed = true
	return nil
}

func TestLoopCommitsAfterDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := &scriptedConsumer{
		cancel: cancel,
		messages: []kafka.Message{
			{Topic: "journey-created", Offset: 1, Value: []byte(`{"ok":true}`)},
			{Topic: "journey-created", Offset: 2, Value: []byte(`{"ok":true}`)},
		},
	}

	var handled int
	disp := NewDispatcher()
	disp.Register("journey-created", func(ctx context.Context, payload []byte) error {
		handled++
		return nil
	})

	err := NewLoop(consumer, disp, zap.NewNop()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 2, handled)
	assert.Len(t, consumer.committed, 2)
	assert.True(t, consumer.closed)
}

func TestLoopCommitsFailedMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := &scriptedConsumer{
		cancel: cancel,
		messages: []kafka.Message{
			{Topic: "journey-created", Offset: 7, Value: []byte(`broken`)},
			{Topic: "journey-created", Offset: 8, Value: []byte(`{"ok":true}`)},
		},
	}

	var payloads [][]byte
	disp := NewDispatcher()
	disp.Register("journey-created", func(ctx context.Context, payload []byte) error {
		payloads = append(payloads, payload)
		if string(payload) == "broken" {
			return errors.New("cannot apply")
		}
		return nil
	})

	err := NewLoop(consumer, disp, zap.NewNop()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// the failing message is committed too, so it never stalls the topic
	assert.Len(t, payloads, 2)
	require.Len(t, consumer.committed, 2)
	assert.Equal(t, int64(7), consumer.committed[0].Offset)
	assert.Equal(t, int64(8), consumer.committed[1].Offset)
}

func TestLoopCommitsUnroutableMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := &scriptedConsumer{
		cancel:   cancel,
		messages: []kafka.Message{{Topic: "unknown-topic", Offset: 1}},
	}

	err := NewLoop(consumer, NewDispatcher(), zap.NewNop()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, consumer.committed, 1)
}
