package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/model"
)

// UsersRepository defines persistence for the users table (owning side).
type UsersRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, u model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateStatus(ctx context.Context, tx *sqlx.Tx, id string, status model.UserStatus) (int64, error)
}

type UsersRepositoryImpl struct {
	db *sqlx.DB
}

func NewUsersRepository(db *sqlx.DB) *UsersRepositoryImpl {
	return &UsersRepositoryImpl{db: db}
}

var _ UsersRepository = (*UsersRepositoryImpl)(nil)

func (r *UsersRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}
	t, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}
	return t.Commit()
}

func (r *UsersRepositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, u model.User) error {
	const q = `
		INSERT INTO users (id, email, status, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q, u.ID, u.Email, u.Status.String(), u.Role)
		return err
	})
}

func (r *UsersRepositoryImpl) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `
		SELECT id, email, status, role, created_at, updated_at
		  FROM users
		 WHERE id = ? LIMIT 1
	`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UsersRepositoryImpl) UpdateStatus(ctx context.Context, tx *sqlx.Tx, id string, status model.UserStatus) (int64, error) {
	var affected int64
	err := r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE users SET status = ?, updated_at = NOW() WHERE id = ?
		`, status.String(), id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}
