package profiles

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/navipath/navigation-platform/internal/model"
	"github.com/navipath/navigation-platform/internal/repository"
	"go.uber.org/zap"
)

// Service keeps the journey-side user read model in sync with user events.
// Both handlers reduce to an upsert keyed by user id, so duplicate delivery
// is harmless.
type Service struct {
	profiles repository.ProfilesRepository
	log      *zap.Logger
}

func New(profilesRepo repository.ProfilesRepository, log *zap.Logger) *Service {
	return &Service{profiles: profilesRepo, log: log}
}

// HandleUserCreated is the dispatcher handler for user-created-events.
func (s *Service) HandleUserCreated(ctx context.Context, payload []byte) error {
	var ev model.UserCreatedEvent
	if err := json.Unmarshal(payload, &ev); err != nil || ev.UserID == "" {
		s.log.Warn("bad user-created payload, skipping", zap.Error(err))
		return nil
	}

	status, ok := model.ParseUserStatus(ev.Status)
	if !ok {
		status = model.UserStatusActive
	}

	if err := s.profiles.Upsert(ctx, model.UserProfile{
		UserID: ev.UserID,
		Email:  ev.Email,
		Status: status,
	}); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// HandleUserStatusChanged is the dispatcher handler for user-status-changed-events.
func (s *Service) HandleUserStatusChanged(ctx context.Context, payload []byte) error {
	var ev model.UserStatusChangedEvent
	if err := json.Unmarshal(payload, &ev); err != nil || ev.UserID == "" {
		s.log.Warn("bad user-status-changed payload, skipping", zap.Error(err))
		return nil
	}

	status, ok := model.ParseUserStatus(ev.NewStatus)
	if !ok {
		return fmt.Errorf("unknown user status %q", ev.NewStatus)
	}

	if err := s.profiles.Upsert(ctx, model.UserProfile{
		UserID: ev.UserID,
		Email:  ev.Email,
		Status: status,
	}); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
