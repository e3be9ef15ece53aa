package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/model"
	"github.com/navipath/navigation-platform/internal/repository"
	"github.com/navipath/navigation-platform/internal/util"
)

// Writer appends events to the outbox inside the caller's transaction. It
// never talks to the broker: either the business rows and the outbox row
// commit together, or neither does.
type Writer struct {
	repo repository.OutboxRepository
}

func NewWriter(repo repository.OutboxRepository) *Writer {
	return &Writer{repo: repo}
}

// Append serializes event and inserts an unprocessed outbox row tagged with
// eventType. Must be called before the surrounding tx commits; failures
// propagate so the caller rolls back.
func (w *Writer) Append(ctx context.Context, tx *sqlx.Tx, eventType string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}

	ev := model.OutboxEvent{
		ID:        util.New(),
		EventType: eventType,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	if err := w.repo.Insert(ctx, tx, ev); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}
