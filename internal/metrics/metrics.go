package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	OutboxPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navp_outbox_published_total",
			Help: "Outbox relay publish attempts by event type and result",
		},
		[]string{"event_type", "result"}, // ok|error
	)

	EventsConsumedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navp_events_consumed_total",
			Help: "Consumed broker messages by topic and result",
		},
		[]string{"topic", "result"}, // ok|dropped|error
	)

	AchievementsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "navp_daily_goal_achievements_total",
			Help: "Daily goal achievements created",
		},
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		OutboxPublishedTotal,
		EventsConsumedTotal,
		AchievementsTotal,
	)
}
