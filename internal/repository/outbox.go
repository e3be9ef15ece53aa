package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/model"
)

// OutboxRepository defines persistence methods for the outbox_events table.
type OutboxRepository interface {
	// Insert writes a single outbox event. If tx is nil, it will open/commit
	// an internal transaction; otherwise it uses the given tx.
	Insert(ctx context.Context, tx *sqlx.Tx, ev model.OutboxEvent) error
	// FetchUnprocessed returns up to limit unprocessed events, oldest first.
	FetchUnprocessed(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	// MarkProcessed flips is_processed and stamps processed_at for the given
	// ids in one statement.
	MarkProcessed(ctx context.Context, ids []string, at time.Time) error
}

// OutboxRepositoryImpl is a sqlx-backed implementation.
type OutboxRepositoryImpl struct {
	db *sqlx.DB
}

// NewOutboxRepository constructs an OutboxRepositoryImpl.
func NewOutboxRepository(db *sqlx.DB) *OutboxRepositoryImpl {
	return &OutboxRepositoryImpl{db: db}
}

var _ OutboxRepository = (*OutboxRepositoryImpl)(nil)

// withTx runs fn in the provided tx, or starts a new transaction when tx is nil.
func (r *OutboxRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
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

// Insert adds an event row with is_processed=false. Callers pass their
// business transaction so the row commits (or rolls back) with the state
// change that produced it.
func (r *OutboxRepositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, ev model.OutboxEvent) error {
	const q = `
		INSERT INTO outbox_events (id, event_type, payload, is_processed, created_at)
		VALUES (?, ?, ?, 0, ?)
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q, ev.ID, ev.EventType, ev.Payload, ev.CreatedAt)

		return err
	})
}

// FetchUnprocessed selects the oldest pending events. Ordering is best-effort:
// writer transactions may commit out of created_at order.
func (r *OutboxRepositoryImpl) FetchUnprocessed(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	const q = `
		SELECT id, event_type, payload, is_processed, created_at, processed_at
		  FROM outbox_events
		 WHERE is_processed = 0
		 ORDER BY created_at ASC
		 LIMIT ?
	`
	var evs []model.OutboxEvent
	if err := r.db.SelectContext(ctx, &evs, q, limit); err != nil {
		return nil, err
	}
	return evs, nil
}

// MarkProcessed commits all successful publishes of one relay cycle as a batch.
func (r *OutboxRepositoryImpl) MarkProcessed(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	const base = `UPDATE outbox_events SET is_processed = 1, processed_at = ? WHERE id IN (?)`
	query, args, err := sqlx.In(base, at, ids)
	if err != nil {
		return err
	}
	query = r.db.Rebind(query)

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
