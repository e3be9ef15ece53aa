package reward

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/metrics"
	"github.com/navipath/navigation-platform/internal/model"
	"go.uber.org/zap"
)

// TotalsCache accumulates the per-user-per-day distance.
type TotalsCache interface {
	Add(ctx context.Context, userID string, day time.Time, km float64) (float64, error)
}

// Achievements is the slice of the achievements repository the accumulator needs.
type Achievements interface {
	ExistsForUserAndDate(ctx context.Context, userID string, date time.Time) (bool, error)
	Insert(ctx context.Context, tx *sqlx.Tx, a model.DailyGoalAchievement) error
}

// OutboxAppender appends an event inside the given transaction.
type OutboxAppender interface {
	Append(ctx context.Context, tx *sqlx.Tx, eventType string, event any) error
}

// Accumulator consumes journey-created events, maintains the daily distance
// total, and creates at most one achievement per user per day.
//
// The cached total and the achievement row live in different stores, so a
// redelivered journey inflates the total; the existence check plus the unique
// index on (user_id, achievement_date) still prevent a second achievement.
type Accumulator struct {
	db           *sqlx.DB
	cache        TotalsCache
	achievements Achievements
	outbox       OutboxAppender
	log          *zap.Logger

	ThresholdKm float64 // default 20
}

func NewAccumulator(db *sqlx.DB, cache TotalsCache, achievements Achievements, outbox OutboxAppender, log *zap.Logger) *Accumulator {
	return &Accumulator{
		db:           db,
		cache:        cache,
		achievements: achievements,
		outbox:       outbox,
		log:          log,
		ThresholdKm:  20,
	}
}

// HandleJourneyCreated is the dispatcher handler for the journey-created topic.
func (a *Accumulator) HandleJourneyCreated(ctx context.Context, payload []byte) error {
	var ev model.JourneyCreatedEvent
	if err := json.Unmarshal(payload, &ev); err != nil || ev.JourneyID == "" {
		// poison message: dropped, no DLQ
		a.log.Warn("bad journey-created payload, skipping", zap.Error(err))
		return nil
	}

	day := dayOf(ev.StartTime)

	total, err := a.cache.Add(ctx, ev.UserID, day, ev.DistanceKm)
	if err != nil {
		return fmt.Errorf("accumulate daily total: %w", err)
	}

	a.log.Debug("daily total updated",
		zap.String("user_id", ev.UserID),
		zap.String("journey_id", ev.JourneyID),
		zap.Float64("total_km", total),
	)

	if total < a.ThresholdKm {
		return nil
	}

	return a.createAchievementOnce(ctx, ev, day, total)
}

// createAchievementOnce inserts the achievement and the downstream event in
// one transaction, guarded by the existence pre-check. First crossing only:
// once a row exists for the day, later journeys update the cache and nothing
// else. A concurrent delivery racing past the pre-check hits the unique index
// and surfaces as a plain persistence error.
func (a *Accumulator) createAchievementOnce(ctx context.Context, ev model.JourneyCreatedEvent, day time.Time, total float64) error {
	exists, err := a.achievements.ExistsForUserAndDate(ctx, ev.UserID, day)
	if err != nil {
		return fmt.Errorf("achievement existence check: %w", err)
	}
	if exists {
		return nil
	}

	now := time.Now().UTC()

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := a.achievements.Insert(ctx, tx, model.DailyGoalAchievement{
		UserID:              ev.UserID,
		AchievementDate:     day,
		TotalDistanceKm:     total,
		TriggeringJourneyID: ev.JourneyID,
		CreatedAt:           now,
	}); err != nil {
		return fmt.Errorf("insert achievement: %w", err)
	}

	if err := a.outbox.Append(ctx, tx, model.DailyGoalAchievedEventType, model.DailyGoalAchievedEvent{
		UserID:              ev.UserID,
		AchievementDate:     day.Format("2006-01-02"),
		TotalDistanceKm:     total,
		TriggeringJourneyID: ev.JourneyID,
		AchievedAt:          now,
	}); err != nil {
		return fmt.Errorf("append daily-goal-achieved: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	metrics.AchievementsTotal.Inc()
	a.log.Info("daily goal achieved",
		zap.String("user_id", ev.UserID),
		zap.String("journey_id", ev.JourneyID),
		zap.Float64("total_km", total),
	)
	return nil
}

// dayOf truncates a journey start time to its UTC calendar day.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
