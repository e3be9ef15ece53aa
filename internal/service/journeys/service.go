package journeys

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/model"
	"github.com/navipath/navigation-platform/internal/outbox"
	"github.com/navipath/navigation-platform/internal/repository"
	"github.com/navipath/navigation-platform/internal/util"
	"go.uber.org/zap"
)

var (
	ErrInvalidDistance = errors.New("distance must be positive")
	ErrJourneyNotFound = errors.New("journey not found")
)

// Service owns the journeys table. Create atomically persists the journey row
// and the JourneyCreated outbox event; HandleDailyGoalAchieved is the
// consumer-side command for the reward loop's downstream event.
type Service struct {
	db       *sqlx.DB
	journeys repository.JourneysRepository
	outbox   *outbox.Writer
	log      *zap.Logger
}

func New(db *sqlx.DB, journeysRepo repository.JourneysRepository, ob *outbox.Writer, log *zap.Logger) *Service {
	return &Service{
		db:       db,
		journeys: journeysRepo,
		outbox:   ob,
		log:      log,
	}
}

// Create generates a ULID and writes `journeys` and `outbox_events` within a
// single transaction. Returns the generated journey ID.
func (s *Service) Create(ctx context.Context, userID string, startTime time.Time, endTime *time.Time, distanceKm float64) (string, error) {
	if distanceKm <= 0 {
		return "", ErrInvalidDistance
	}

	id := util.New()
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.journeys.Insert(ctx, tx, model.Journey{
		ID:         id,
		UserID:     userID,
		StartTime:  startTime,
		EndTime:    endTime,
		DistanceKm: distanceKm,
	}); err != nil {
		return "", fmt.Errorf("insert journey: %w", err)
	}

	if err := s.outbox.Append(ctx, tx, model.JourneyCreatedEventType, model.JourneyCreatedEvent{
		JourneyID:  id,
		UserID:     userID,
		StartTime:  startTime,
		EndTime:    endTime,
		DistanceKm: distanceKm,
		CreatedAt:  now,
	}); err != nil {
		return "", fmt.Errorf("append journey-created: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Journey, error) {
	return s.journeys.GetByID(ctx, id)
}

// HandleDailyGoalAchieved marks the triggering journey. The update is a plain
// flag rewrite keyed by (journey, user), so replays are idempotent; a missing
// journey is a data error that is logged upstream, not retried.
func (s *Service) HandleDailyGoalAchieved(ctx context.Context, payload []byte) error {
	var ev model.DailyGoalAchievedEvent
	if err := json.Unmarshal(payload, &ev); err != nil || ev.TriggeringJourneyID == "" {
		s.log.Warn("bad daily-goal-achieved payload, skipping", zap.Error(err))
		return nil
	}

	affected, err := s.journeys.MarkDailyGoalAchieved(ctx, ev.TriggeringJourneyID, ev.UserID)
	if err != nil {
		return fmt.Errorf("mark daily goal achieved: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrJourneyNotFound, ev.TriggeringJourneyID)
	}

	s.log.Info("journey marked as daily goal trigger",
		zap.String("journey_id", ev.TriggeringJourneyID),
		zap.String("user_id", ev.UserID),
	)
	return nil
}
