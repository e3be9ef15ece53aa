package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/model"
	"github.com/navipath/navigation-platform/internal/outbox"
	"github.com/navipath/navigation-platform/internal/repository"
	"github.com/navipath/navigation-platform/internal/util"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidStatus = errors.New("invalid user status")
)

// Service owns the users table and emits user lifecycle events through the
// outbox, in the same transaction as the row change.
type Service struct {
	db     *sqlx.DB
	users  repository.UsersRepository
	outbox *outbox.Writer
}

func New(db *sqlx.DB, usersRepo repository.UsersRepository, ob *outbox.Writer) *Service {
	return &Service{db: db, users: usersRepo, outbox: ob}
}

// Create inserts a user and appends UserCreated atomically. Returns the
// generated user ID.
func (s *Service) Create(ctx context.Context, email, role string) (string, error) {
	id := util.New()
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.users.Insert(ctx, tx, model.User{
		ID:     id,
		Email:  email,
		Status: model.UserStatusActive,
		Role:   role,
	}); err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}

	if err := s.outbox.Append(ctx, tx, model.UserCreatedEventType, model.UserCreatedEvent{
		UserID:    id,
		Email:     email,
		Status:    model.UserStatusActive.String(),
		Role:      role,
		CreatedAt: now,
	}); err != nil {
		return "", fmt.Errorf("append user-created: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// ChangeStatus updates the user's status and appends UserStatusChanged
// atomically.
func (s *Service) ChangeStatus(ctx context.Context, userID string, newStatus model.UserStatus, reason, adminUserID string) error {
	if !newStatus.Valid() {
		return ErrInvalidStatus
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return ErrUserNotFound
	}
	if u.Status == newStatus {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	affected, err := s.users.UpdateStatus(ctx, tx, userID, newStatus)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	if err := s.outbox.Append(ctx, tx, model.UserStatusChangedEventType, model.UserStatusChangedEvent{
		UserID:      userID,
		Email:       u.Email,
		OldStatus:   u.Status.String(),
		NewStatus:   newStatus.String(),
		Reason:      reason,
		AdminUserID: adminUserID,
		ChangedAt:   time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("append user-status-changed: %w", err)
	}

	return tx.Commit()
}
