package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAchievementsExistsForUserAndDate(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewAchievementsRepository(dbx)

	date := time.Date(2025, 3, 9, 13, 45, 0, 0, time.UTC)

	// the date argument is the bare calendar day, not a timestamp
	mock.ExpectQuery("SELECT 1 FROM daily_goal_achievements").
		WithArgs("alice", "2025-03-09").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsForUserAndDate(context.Background(), "alice", date)
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAchievementsExistsForUserAndDateMiss(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewAchievementsRepository(dbx)

	mock.ExpectQuery("SELECT 1 FROM daily_goal_achievements").
		WithArgs("bob", "2025-03-09").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err := repo.ExistsForUserAndDate(context.Background(), "bob", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAchievementsListByUser(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewAchievementsRepository(dbx)

	rows := sqlmock.NewRows([]string{"id", "user_id", "achievement_date", "total_distance_km", "triggering_journey_id", "created_at"}).
		AddRow(int64(2), "alice", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), 24.5, "J9", time.Now()).
		AddRow(int64(1), "alice", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), 21.0, "J3", time.Now())

	mock.ExpectQuery("FROM daily_goal_achievements").
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "J9", got[0].TriggeringJourneyID)
	assert.InDelta(t, 21.0, got[1].TotalDistanceKm, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}
