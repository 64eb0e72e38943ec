package services

import (
	"context"
	"log/slog"

	"github.com/mikesz88/ghostMammothsPB-sub000/models"
	"github.com/mikesz88/ghostMammothsPB-sub000/repositories"
)

// DefaultActivityRetention caps how many admin activity rows are kept.
const DefaultActivityRetention = 100

// ActivityService is an injectable append-only sink for admin actions.
// Recording never fails the calling operation; failures are logged.
type ActivityService interface {
	Record(ctx context.Context, eventID *int, adminID int, action, detail string)
	Recent(ctx context.Context, limit int) ([]*models.ActivityEntry, error)
}

type activityService struct {
	repo      repositories.ActivityRepository
	retention int
}

func NewActivityService(repo repositories.ActivityRepository, retention int) ActivityService {
	if retention <= 0 {
		retention = DefaultActivityRetention
	}
	return &activityService{repo: repo, retention: retention}
}

func (s *activityService) Record(ctx context.Context, eventID *int, adminID int, action, detail string) {
	entry := &models.ActivityEntry{
		EventID: eventID,
		AdminID: adminID,
		Action:  action,
	}
	if detail != "" {
		entry.Detail = &detail
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		slog.Error("failed to record admin activity",
			slog.String("action", action), slog.Any("error", err))
		return
	}
	if err := s.repo.Prune(ctx, s.retention); err != nil {
		slog.Warn("failed to prune activity log", slog.Any("error", err))
	}
}

func (s *activityService) Recent(ctx context.Context, limit int) ([]*models.ActivityEntry, error) {
	if limit <= 0 || limit > s.retention {
		limit = s.retention
	}
	return s.repo.ListRecent(ctx, limit)
}
