package model

import "time"

// Event type tags stored in outbox_events.event_type and resolved to topics.
const (
	JourneyCreatedEventType    = "JourneyCreatedEvent"
	DailyGoalAchievedEventType = "DailyGoalAchievedEvent"
	UserCreatedEventType       = "UserCreatedEvent"
	UserStatusChangedEventType = "UserStatusChangedEvent"
)

// JourneyCreatedEvent is the payload published when a journey is recorded.
type JourneyCreatedEvent struct {
	JourneyID  string     `json:"journeyId"`
	UserID     string     `json:"userId"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	DistanceKm float64    `json:"distanceKm"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// DailyGoalAchievedEvent is published when a user first crosses the daily
// distance threshold.
type DailyGoalAchievedEvent struct {
	UserID              string    `json:"userId"`
	AchievementDate     string    `json:"achievementDate"` // "2006-01-02"
	TotalDistanceKm     float64   `json:"totalDistanceKm"`
	TriggeringJourneyID string    `json:"triggeringJourneyId"`
	AchievedAt          time.Time `json:"achievedAt"`
}

type UserCreatedEvent struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserStatusChangedEvent struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email,omitempty"`
	OldStatus   string    `json:"oldStatus"`
	NewStatus   string    `json:"newStatus"`
	Reason      string    `json:"reason"`
	AdminUserID string    `json:"adminUserId"`
	ChangedAt   time.Time `json:"changedAt"`
}
