package model

import "time"

// DailyGoalAchievement records the first crossing of the daily distance
// threshold for a user. At most one row exists per (user_id, achievement_date);
// the unique index is the backstop against duplicate delivery.
type DailyGoalAchievement struct {
	ID                  int64     `db:"id" json:"id"`
	UserID              string    `db:"user_id" json:"userId"`
	AchievementDate     time.Time `db:"achievement_date" json:"achievementDate"` // calendar day, no time component
	TotalDistanceKm     float64   `db:"total_distance_km" json:"totalDistanceKm"`
	TriggeringJourneyID string    `db:"triggering_journey_id" json:"triggeringJourneyId"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
}
