package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mikesz88/ghostMammothsPB-sub000/models"
	"github.com/mikesz88/ghostMammothsPB-sub000/repositories"
	"github.com/mikesz88/ghostMammothsPB-sub000/rotation"
)

// moveUpNotifyThreshold: besides entering the top 4, a jump of this many
// positions or more also triggers a mail.
const moveUpNotifyThreshold = 3

// Notifier delivers player-facing notifications after queue or court state
// changes have been persisted. Implementations must be fire-and-forget
// from the caller's point of view: failures are logged, never returned
// into the mutation path.
type Notifier interface {
	NotifyCourtAssigned(ctx context.Context, event *models.Event, courtNumber int, userIDs []int)
	NotifyPositionChanges(ctx context.Context, event *models.Event, changes []rotation.PositionChange)
}

type emailNotifier struct {
	email    *EmailService
	userRepo repositories.UserRepository
}

func NewEmailNotifier(email *EmailService, userRepo repositories.UserRepository) Notifier {
	return &emailNotifier{email: email, userRepo: userRepo}
}

func (n *emailNotifier) NotifyCourtAssigned(ctx context.Context, event *models.Event, courtNumber int, userIDs []int) {
	if !n.email.Enabled() || len(userIDs) == 0 {
		return
	}

	users, err := n.userRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		slog.Error("failed to load users for court notification",
			slog.Int("event_id", event.ID), slog.Any("error", err))
		return
	}

	g, _ := errgroup.WithContext(ctx)
	for _, user := range users {
		user := user
		g.Go(func() error {
			if err := n.email.SendCourtAssigned(user.Email, user.FirstName, event.Name, courtNumber); err != nil {
				slog.Warn("failed to send court-assigned email",
					slog.Int("user_id", user.ID), slog.Any("error", err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (n *emailNotifier) NotifyPositionChanges(ctx context.Context, event *models.Event, changes []rotation.PositionChange) {
	if !n.email.Enabled() {
		return
	}

	// Only improvements worth interrupting someone for: entering the top
	// 4, or jumping several spots at once.
	notify := make([]rotation.PositionChange, 0, len(changes))
	for _, change := range changes {
		if !change.Improved() {
			continue
		}
		enteredTopFour := change.NewPosition <= 4 && change.OldPosition > 4
		bigJump := change.OldPosition-change.NewPosition >= moveUpNotifyThreshold
		if enteredTopFour || bigJump {
			notify = append(notify, change)
		}
	}
	if len(notify) == 0 {
		return
	}

	ids := make([]int, len(notify))
	for i, change := range notify {
		ids[i] = change.UserID
	}
	users, err := n.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		slog.Error("failed to load users for position notification",
			slog.Int("event_id", event.ID), slog.Any("error", err))
		return
	}
	byID := make(map[int]*models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	g, _ := errgroup.WithContext(ctx)
	for _, change := range notify {
		user, ok := byID[change.UserID]
		if !ok {
			continue
		}
		change := change
		g.Go(func() error {
			if err := n.email.SendPositionUpdate(user.Email, user.FirstName, event.Name, change.NewPosition); err != nil {
				slog.Warn("failed to send position-update email",
					slog.Int("user_id", user.ID), slog.Any("error", err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
