package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestOutboxInsertWithOwnTransaction(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewOutboxRepository(dbx)

	now := time.Now().UTC()
	ev := model.OutboxEvent{
		ID:        "01HOUTBOX000000000000000000",
		EventType: model.JourneyCreatedEventType,
		Payload:   []byte(`{"journeyId":"J1"}`),
		CreatedAt: now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(ev.ID, ev.EventType, ev.Payload, ev.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Insert(context.Background(), nil, ev))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxInsertJoinsCallerTransaction(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewOutboxRepository(dbx)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := dbx.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	ev := model.OutboxEvent{ID: "01A", EventType: model.UserCreatedEventType, Payload: []byte(`{}`), CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Insert(context.Background(), tx, ev))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxFetchUnprocessed(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewOutboxRepository(dbx)

	created := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "event_type", "payload", "is_processed", "created_at", "processed_at"}).
		AddRow("01A", model.JourneyCreatedEventType, []byte(`{"n":1}`), false, created, nil).
		AddRow("01B", model.UserCreatedEventType, []byte(`{"n":2}`), false, created.Add(time.Second), nil)

	mock.ExpectQuery("FROM outbox_events").
		WithArgs(10).
		WillReturnRows(rows)

	got, err := repo.FetchUnprocessed(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "01A", got[0].ID)
	assert.False(t, got[0].IsProcessed)
	assert.Nil(t, got[0].ProcessedAt)
	assert.Equal(t, model.UserCreatedEventType, got[1].EventType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxMarkProcessedBatch(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewOutboxRepository(dbx)

	at := time.Now().UTC()
	mock.ExpectExec("UPDATE outbox_events SET is_processed = 1").
		WithArgs(at, "01A", "01B").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.MarkProcessed(context.Background(), []string{"01A", "01B"}, at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxMarkProcessedEmpty(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewOutboxRepository(dbx)

	// no ids, no round trip
	require.NoError(t, repo.MarkProcessed(context.Background(), nil, time.Now().UTC()))
	require.NoError(t, mock.ExpectationsWereMet())
}
