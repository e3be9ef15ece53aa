package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/model"
)

// ProfilesRepository maintains the journey-side user read model. Upsert by
// user id makes replayed user events naturally idempotent.
type ProfilesRepository interface {
	Upsert(ctx context.Context, p model.UserProfile) error
	GetByUserID(ctx context.Context, userID string) (*model.UserProfile, error)
}

type ProfilesRepositoryImpl struct {
	db *sqlx.DB
}

func NewProfilesRepository(db *sqlx.DB) *ProfilesRepositoryImpl {
	return &ProfilesRepositoryImpl{db: db}
}

var _ ProfilesRepository = (*ProfilesRepositoryImpl)(nil)

func (r *ProfilesRepositoryImpl) Upsert(ctx context.Context, p model.UserProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_profiles (user_id, email, status, updated_at)
		VALUES (?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE
		    email = IF(VALUES(email) = '', email, VALUES(email)),
		    status = VALUES(status),
		    updated_at = NOW()
	`, p.UserID, p.Email, p.Status.String())
	return err
}

func (r *ProfilesRepositoryImpl) GetByUserID(ctx context.Context, userID string) (*model.UserProfile, error) {
	var p model.UserProfile
	err := r.db.GetContext(ctx, &p, `
		SELECT user_id, email, status, updated_at
		  FROM user_profiles
		 WHERE user_id = ? LIMIT 1
	`, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
