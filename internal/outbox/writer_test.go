package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingRepo struct {
	inserted []model.OutboxEvent
}

func (r *capturingRepo) Insert(ctx context.Context, tx *sqlx.Tx, ev model.OutboxEvent) error {
	r.inserted = append(r.inserted, ev)
	return nil
}

func (r *capturingRepo) FetchUnprocessed(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	return nil, nil
}

func (r *capturingRepo) MarkProcessed(ctx context.Context, ids []string, at time.Time) error {
	return nil
}

func TestWriterAppend(t *testing.T) {
	repo := &capturingRepo{}
	w := NewWriter(repo)

	ev := model.UserCreatedEvent{
		UserID: "01HUSER00000000000000000000",
		Email:  "alice@example.com",
		Status: "active",
	}
	require.NoError(t, w.Append(context.Background(), nil, model.UserCreatedEventType, ev))

	require.Len(t, repo.inserted, 1)
	row := repo.inserted[0]
	assert.Len(t, row.ID, 26)
	assert.Equal(t, model.UserCreatedEventType, row.EventType)
	assert.False(t, row.IsProcessed)
	assert.Nil(t, row.ProcessedAt)
	assert.WithinDuration(t, time.Now().UTC(), row.CreatedAt, time.Minute)

	var decoded model.UserCreatedEvent
	require.NoError(t, json.Unmarshal(row.Payload, &decoded))
	assert.Equal(t, ev.UserID, decoded.UserID)
	assert.Equal(t, ev.Email, decoded.Email)
}

func TestWriterAppendDistinctIDs(t *testing.T) {
	repo := &capturingRepo{}
	w := NewWriter(repo)

	ev := model.UserCreatedEvent{UserID: "u1"}
	require.NoError(t, w.Append(context.Background(), nil, model.UserCreatedEventType, ev))
	require.NoError(t, w.Append(context.Background(), nil, model.UserCreatedEventType, ev))

	require.Len(t, repo.inserted, 2)
	assert.NotEqual(t, repo.inserted[0].ID, repo.inserted[1].ID)
}
