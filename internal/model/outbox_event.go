package model

import "time"

type OutboxEvent struct {
	ID          string     `db:"id"`         // ULID
	EventType   string     `db:"event_type"` // e.g. "JourneyCreatedEvent", used for topic resolution
	Payload     []byte     `db:"payload"`
	IsProcessed bool       `db:"is_processed"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
