package users

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/model"
	"github.com/navipath/navigation-platform/internal/outbox"
	"github.com/navipath/navigation-platform/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	dbx := sqlx.NewDb(db, "sqlmock")
	svc := New(dbx,
		repository.NewUsersRepository(dbx),
		outbox.NewWriter(repository.NewOutboxRepository(dbx)),
	)
	return svc, mock
}

func userRow(id string, status model.UserStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "status", "role", "created_at", "updated_at"}).
		AddRow(id, "alice@example.com", status.String(), "member", time.Now(), time.Now())
}

func TestCreateCommitsUserAndOutboxTogether(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := svc.Create(context.Background(), "alice@example.com", "member")
	require.NoError(t, err)
	assert.Len(t, id, 26)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStatusEmitsEvent(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("FROM users").
		WithArgs("u1").
		WillReturnRows(userRow("u1", model.UserStatusActive))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET status").
		WithArgs("suspended", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.ChangeStatus(context.Background(), "u1", model.UserStatusSuspended, "abuse", "admin1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStatusNoOpWhenUnchanged(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("FROM users").
		WithArgs("u1").
		WillReturnRows(userRow("u1", model.UserStatusActive))

	// same status: no transaction, no event
	err := svc.ChangeStatus(context.Background(), "u1", model.UserStatusActive, "", "admin1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStatusUnknownUser(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("FROM users").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "status", "role", "created_at", "updated_at"}))

	err := svc.ChangeStatus(context.Background(), "ghost", model.UserStatusSuspended, "", "admin1")
	assert.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStatusRejectsInvalidStatus(t *testing.T) {
	svc, mock := newTestService(t)

	err := svc.ChangeStatus(context.Background(), "u1", model.UserStatus("frozen"), "", "admin1")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	require.NoError(t, mock.ExpectationsWereMet())
}
