package journeys

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/outbox"
	"github.com/navipath/navigation-platform/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	dbx := sqlx.NewDb(db, "sqlmock")
	svc := New(dbx,
		repository.NewJourneysRepository(dbx),
		outbox.NewWriter(repository.NewOutboxRepository(dbx)),
		zap.NewNop(),
	)
	return svc, mock
}

func TestCreateCommitsJourneyAndOutboxTogether(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO journeys").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	start := time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)
	id, err := svc.Create(context.Background(), "alice", start, nil, 8.0)
	require.NoError(t, err)
	assert.Len(t, id, 26)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRollsBackWhenOutboxFails(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO journeys").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), "alice", time.Now().UTC(), nil, 8.0)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsNonPositiveDistance(t *testing.T) {
	svc, mock := newTestService(t)

	_, err := svc.Create(context.Background(), "alice", time.Now().UTC(), nil, 0)
	assert.ErrorIs(t, err, ErrInvalidDistance)

	_, err = svc.Create(context.Background(), "alice", time.Now().UTC(), nil, -3)
	assert.ErrorIs(t, err, ErrInvalidDistance)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleDailyGoalAchievedMarksJourney(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec("UPDATE journeys").
		WithArgs("J3", "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	payload := []byte(`{"userId":"alice","achievementDate":"2025-03-09","totalDistanceKm":21,"triggeringJourneyId":"J3"}`)
	require.NoError(t, svc.HandleDailyGoalAchieved(context.Background(), payload))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleDailyGoalAchievedReplay(t *testing.T) {
	svc, mock := newTestService(t)

	// the flag rewrite matches the row again on redelivery
	payload := []byte(`{"userId":"alice","triggeringJourneyId":"J3"}`)
	for i := 0; i < 2; i++ {
		mock.ExpectExec("UPDATE journeys").
			WithArgs("J3", "alice").
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, svc.HandleDailyGoalAchieved(context.Background(), payload))
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleDailyGoalAchievedUnknownJourney(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec("UPDATE journeys").
		WithArgs("J404", "alice").
		WillReturnResult(sqlmock.NewResult(0, 0))

	payload := []byte(`{"userId":"alice","triggeringJourneyId":"J404"}`)
	err := svc.HandleDailyGoalAchieved(context.Background(), payload)
	assert.ErrorIs(t, err, ErrJourneyNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleDailyGoalAchievedBadPayload(t *testing.T) {
	svc, mock := newTestService(t)

	require.NoError(t, svc.HandleDailyGoalAchieved(context.Background(), []byte(`garbage`)))
	require.NoError(t, mock.ExpectationsWereMet())
}
