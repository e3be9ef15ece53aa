package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/model"
)

// JourneysRepository defines persistence for the journeys table.
type JourneysRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, j model.Journey) error
	GetByID(ctx context.Context, id string) (*model.Journey, error)
	// MarkDailyGoalAchieved sets the flag for (journey, user) and reports how
	// many rows matched. Rewriting an already-set flag matches the same row,
	// so replays are idempotent.
	MarkDailyGoalAchieved(ctx context.Context, journeyID, userID string) (int64, error)
}

type JourneysRepositoryImpl struct {
	db *sqlx.DB
}

func NewJourneysRepository(db *sqlx.DB) *JourneysRepositoryImpl {
	return &JourneysRepositoryImpl{db: db}
}

var _ JourneysRepository = (*JourneysRepositoryImpl)(nil)

func (r *JourneysRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
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

func (r *JourneysRepositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, j model.Journey) error {
	const q = `
		INSERT INTO journeys
		    (id, user_id, start_time, end_time, distance_km, is_daily_goal_achieved, created_at, updated_at)
		VALUES
		    (?,  ?,       ?,          ?,        ?,           0,                      NOW(),      NOW())
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q,
			j.ID, j.UserID, j.StartTime, j.EndTime, j.DistanceKm,
		)
		return err
	})
}

func (r *JourneysRepositoryImpl) GetByID(ctx context.Context, id string) (*model.Journey, error) {
	var j model.Journey
	err := r.db.GetContext(ctx, &j, `
		SELECT id, user_id, start_time, end_time, distance_km, is_daily_goal_achieved, created_at, updated_at
		  FROM journeys
		 WHERE id = ? LIMIT 1
	`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JourneysRepositoryImpl) MarkDailyGoalAchieved(ctx context.Context, journeyID, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE journeys
		   SET is_daily_goal_achieved = 1, updated_at = NOW()
		 WHERE id = ? AND user_id = ?
	`, journeyID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
