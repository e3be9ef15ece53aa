package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRoutesByTopic(t *testing.T) {
	var got []byte
	d := NewDispatcher()
	d.Register("journey-created", func(ctx context.Context, payload []byte) error {
		got = payload
		return nil
	})

	err := d.Dispatch(context.Background(), "journey-created", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)
}

func TestDispatcherUnregisteredTopic(t *testing.T) {
	d := NewDispatcher()
	err := d.Dispatch(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestDispatcherPropagatesHandlerError(t *testing.T) {
	want := errors.New("boom")
	d := NewDispatcher()
	d.Register("t", func(ctx context.Context, payload []byte) error { return want })

	assert.ErrorIs(t, d.Dispatch(context.Background(), "t", nil), want)
}
