package kafka

import (
	"fmt"

	"github.com/navipath/navigation-platform/internal/model"
)

// Topic names owned by the platform.
const (
	TopicJourneyCreated    = "journey-created"
	TopicDailyGoalAchieved = "daily-goal-achieved"
	TopicUserCreated       = "user-created-events"
	TopicUserStatusChanged = "user-status-changed-events"
)

// topicsMapping resolves an outbox event_type tag to its destination topic.
var topicsMapping = map[string]string{
	model.JourneyCreatedEventType:    TopicJourneyCreated,
	model.DailyGoalAchievedEventType: TopicDailyGoalAchieved,
	model.UserCreatedEventType:       TopicUserCreated,
	model.UserStatusChangedEventType: TopicUserStatusChanged,
}

// TopicFor returns the topic for an event type tag. An unmapped tag is a
// configuration error, not a transient failure.
func TopicFor(eventType string) (string, error) {
	t, ok := topicsMapping[eventType]
	if !ok {
		return "", fmt.Errorf("no topic mapping for event type %q", eventType)
	}
	return t, nil
}
