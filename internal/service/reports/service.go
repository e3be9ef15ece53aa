package reports

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/navipath/navigation-platform/internal/model"
	"github.com/navipath/navigation-platform/internal/repository"
	"go.uber.org/zap"
)

// Service archives journey events into ClickHouse and serves distance
// reports. The archive is append-only; redelivered events produce duplicate
// rows that the report query collapses per journey id.
type Service struct {
	analytics repository.AnalyticsRepository
	log       *zap.Logger
}

func New(analytics repository.AnalyticsRepository, log *zap.Logger) *Service {
	return &Service{analytics: analytics, log: log}
}

// HandleJourneyCreated is the dispatcher handler for the analytics consumer
// group on the journey-created topic.
func (s *Service) HandleJourneyCreated(ctx context.Context, payload []byte) error {
	var ev model.JourneyCreatedEvent
	if err := json.Unmarshal(payload, &ev); err != nil || ev.JourneyID == "" {
		s.log.Warn("bad journey-created payload, skipping", zap.Error(err))
		return nil
	}

	if err := s.analytics.InsertJourneyEvent(ctx, ev.JourneyID, ev.UserID, ev.StartTime, ev.DistanceKm); err != nil {
		return fmt.Errorf("archive journey event: %w", err)
	}
	return nil
}

// MonthlyDistances returns per-month journey counts and distance for a user.
func (s *Service) MonthlyDistances(ctx context.Context, userID string, year int) ([]repository.MonthlyDistance, error) {
	return s.analytics.MonthlyDistances(ctx, userID, year)
}
