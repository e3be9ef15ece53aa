package model

import "time"

// Journey is the DB entity persisted in the journeys table.
type Journey struct {
	ID                  string     `db:"id" json:"id"` // ULID
	UserID              string     `db:"user_id" json:"userId"`
	StartTime           time.Time  `db:"start_time" json:"startTime"`
	EndTime             *time.Time `db:"end_time" json:"endTime,omitempty"`
	DistanceKm          float64    `db:"distance_km" json:"distanceKm"`
	IsDailyGoalAchieved bool       `db:"is_daily_goal_achieved" json:"isDailyGoalAchieved"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
}
