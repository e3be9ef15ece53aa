package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/model"
)

// AchievementsRepository defines persistence for daily_goal_achievements.
// The unique index on (user_id, achievement_date) is the hard guard against
// duplicate achievements; ExistsForUserAndDate is only the cheap pre-check.
type AchievementsRepository interface {
	ExistsForUserAndDate(ctx context.Context, userID string, date time.Time) (bool, error)
	Insert(ctx context.Context, tx *sqlx.Tx, a model.DailyGoalAchievement) error
	ListByUser(ctx context.Context, userID string) ([]model.DailyGoalAchievement, error)
}

type AchievementsRepositoryImpl struct {
	db *sqlx.DB
}

func NewAchievementsRepository(db *sqlx.DB) *AchievementsRepositoryImpl {
	return &AchievementsRepositoryImpl{db: db}
}

var _ AchievementsRepository = (*AchievementsRepositoryImpl)(nil)

func (r *AchievementsRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
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

func (r *AchievementsRepositoryImpl) ExistsForUserAndDate(ctx context.Context, userID string, date time.Time) (bool, error) {
	var one int
	err := r.db.QueryRowxContext(ctx, `
		SELECT 1 FROM daily_goal_achievements
		 WHERE user_id = ? AND achievement_date = ? LIMIT 1
	`, userID, date.Format("2006-01-02")).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *AchievementsRepositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, a model.DailyGoalAchievement) error {
	const q = `
		INSERT INTO daily_goal_achievements
		    (user_id, achievement_date, total_distance_km, triggering_journey_id, created_at)
		VALUES
		    (?, ?, ?, ?, ?)
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q,
			a.UserID, a.AchievementDate.Format("2006-01-02"), a.TotalDistanceKm, a.TriggeringJourneyID, a.CreatedAt,
		)
		return err
	})
}

func (r *AchievementsRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]model.DailyGoalAchievement, error) {
	var rows []model.DailyGoalAchievement
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, achievement_date, total_distance_km, triggering_journey_id, created_at
		  FROM daily_goal_achievements
		 WHERE user_id = ?
		 ORDER BY achievement_date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
