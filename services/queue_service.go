package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikesz88/ghostMammothsPB-sub000/models"
	"github.com/mikesz88/ghostMammothsPB-sub000/repositories"
	"github.com/mikesz88/ghostMammothsPB-sub000/rotation"
	"github.com/mikesz88/ghostMammothsPB-sub000/utils"
)

// Broadcaster pushes live updates to clients watching an event room.
// *rotation.Hub satisfies it.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// AdmissionChecker is consulted before a player may join a queue. The
// engine has no concept of payment or membership state; whatever policy
// gates admission lives behind this hook. A nil checker admits everyone.
type AdmissionChecker interface {
	CanJoin(ctx context.Context, eventID, userID int) error
}

// EventRoom names the websocket room for one event.
func EventRoom(eventID int) string {
	return fmt.Sprintf("event_%d", eventID)
}

type JoinQueueInput struct {
	// PartnerIDs are other users joining together with the caller as one
	// atomic group.
	PartnerIDs []int `json:"partner_ids"`
	// GroupSize is the number of physical players the caller's own entry
	// stands for (e.g. bringing unregistered guests). Defaults to 1.
	GroupSize int `json:"group_size"`
}

type QueueService interface {
	Join(ctx context.Context, eventID, userID int, input JoinQueueInput) ([]*models.QueueEntry, error)
	Leave(ctx context.Context, eventID, userID int) error
	Remove(ctx context.Context, eventID, userID, adminID int) error
	List(ctx context.Context, eventID int) ([]*models.QueueEntry, error)

	// Requeue appends new waiting entries for the given players, skipping
	// any player that already has one. Used after game completions.
	Requeue(ctx context.Context, event *models.Event, userIDs []int) error

	// Reindex loads the waiting list, closes position gaps, persists the
	// new ordering and fans out notifications for improvements.
	Reindex(ctx context.Context, event *models.Event) ([]*models.QueueEntry, error)
}

type queueService struct {
	queueRepo repositories.QueueRepository
	eventRepo repositories.EventRepository
	admission AdmissionChecker
	notifier  Notifier
	hub       Broadcaster
	activity  ActivityService
}

func NewQueueService(
	queueRepo repositories.QueueRepository,
	eventRepo repositories.EventRepository,
	admission AdmissionChecker,
	notifier Notifier,
	hub Broadcaster,
	activity ActivityService,
) QueueService {
	return &queueService{
		queueRepo: queueRepo,
		eventRepo: eventRepo,
		admission: admission,
		notifier:  notifier,
		hub:       hub,
		activity:  activity,
	}
}

func (s *queueService) loadEvent(ctx context.Context, eventID int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *queueService) Join(ctx context.Context, eventID, userID int, input JoinQueueInput) ([]*models.QueueEntry, error) {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusActive {
		return nil, ErrEventNotActive
	}

	groupSize := input.GroupSize
	if groupSize == 0 {
		groupSize = 1
	}
	if groupSize < 1 || groupSize > 4 {
		return nil, ErrGroupSizeInvalid
	}

	members := append([]int{userID}, input.PartnerIDs...)
	for _, id := range members {
		if s.admission != nil {
			if err := s.admission.CanJoin(ctx, eventID, id); err != nil {
				return nil, fmt.Errorf("%w: user %d", ErrEventAdmissionDenied, id)
			}
		}
		if _, err := s.queueRepo.FindWaitingByUser(ctx, eventID, id); err == nil {
			return nil, ErrAlreadyInQueue
		} else if !errors.Is(err, repositories.ErrQueueEntryNotFound) {
			return nil, err
		}
	}

	var groupID *string
	if len(members) > 1 {
		gid := utils.NewGroupID()
		groupID = &gid
	}

	entries := make([]*models.QueueEntry, len(members))
	for i, id := range members {
		size := 1
		if i == 0 {
			// The leader entry carries any guests.
			size = groupSize
		}
		entries[i] = &models.QueueEntry{
			EventID:   eventID,
			UserID:    id,
			GroupID:   groupID,
			GroupSize: size,
		}
	}

	if err := s.queueRepo.Join(ctx, entries); err != nil {
		if errors.Is(err, repositories.ErrQueueEntryConflict) {
			return nil, ErrAlreadyInQueue
		}
		return nil, fmt.Errorf("failed to join queue: %w", err)
	}

	s.broadcastQueue(ctx, event)
	return entries, nil
}

func (s *queueService) Leave(ctx context.Context, eventID, userID int) error {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}

	entry, err := s.queueRepo.FindWaitingByUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrQueueEntryNotFound) {
			return ErrNotInQueue
		}
		return err
	}

	if err := s.queueRepo.DeleteByIDs(ctx, []int{entry.ID}); err != nil {
		return fmt.Errorf("failed to remove queue entry: %w", err)
	}

	if _, err := s.Reindex(ctx, event); err != nil {
		return err
	}
	return nil
}

func (s *queueService) Remove(ctx context.Context, eventID, userID, adminID int) error {
	if err := s.Leave(ctx, eventID, userID); err != nil {
		return err
	}
	s.activity.Record(ctx, &eventID, adminID, "queue_player_removed", fmt.Sprintf("user %d", userID))
	return nil
}

func (s *queueService) List(ctx context.Context, eventID int) ([]*models.QueueEntry, error) {
	if _, err := s.loadEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.queueRepo.ListWaiting(ctx, eventID)
}

func (s *queueService) Requeue(ctx context.Context, event *models.Event, userIDs []int) error {
	entries := make([]*models.QueueEntry, 0, len(userIDs))
	for _, id := range userIDs {
		// A player may already be back in line (e.g. rejoined manually
		// between games); never create a duplicate waiting entry.
		if _, err := s.queueRepo.FindWaitingByUser(ctx, event.ID, id); err == nil {
			continue
		} else if !errors.Is(err, repositories.ErrQueueEntryNotFound) {
			return err
		}
		entries = append(entries, &models.QueueEntry{
			EventID:   event.ID,
			UserID:    id,
			GroupSize: 1,
		})
	}
	if len(entries) == 0 {
		return nil
	}
	if err := s.queueRepo.Join(ctx, entries); err != nil {
		return fmt.Errorf("failed to requeue players: %w", err)
	}
	return nil
}

func (s *queueService) Reindex(ctx context.Context, event *models.Event) ([]*models.QueueEntry, error) {
	before, err := s.queueRepo.ListWaiting(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	after := rotation.ReorderQueue(before)
	changes := rotation.PositionChanges(before, after)
	if len(changes) > 0 {
		changed := make([]*models.QueueEntry, 0, len(changes))
		byID := make(map[int]*models.QueueEntry, len(after))
		for _, entry := range after {
			byID[entry.ID] = entry
		}
		for _, change := range changes {
			if entry, ok := byID[change.EntryID]; ok {
				changed = append(changed, entry)
			}
		}
		if err := s.queueRepo.UpdatePositions(ctx, changed); err != nil {
			return nil, fmt.Errorf("failed to persist reordered queue: %w", err)
		}
		if s.notifier != nil {
			s.notifier.NotifyPositionChanges(ctx, event, changes)
		}
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(EventRoom(event.ID), rotation.Message{
			Type:    "QUEUE_UPDATED",
			RoomID:  EventRoom(event.ID),
			Payload: after,
		})
	}
	return after, nil
}

func (s *queueService) broadcastQueue(ctx context.Context, event *models.Event) {
	if s.hub == nil {
		return
	}
	entries, err := s.queueRepo.ListWaiting(ctx, event.ID)
	if err != nil {
		return
	}
	s.hub.BroadcastToRoom(EventRoom(event.ID), rotation.Message{
		Type:    "QUEUE_UPDATED",
		RoomID:  EventRoom(event.ID),
		Payload: entries,
	})
}
