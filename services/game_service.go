package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mikesz88/ghostMammothsPB-sub000/models"
	"github.com/mikesz88/ghostMammothsPB-sub000/repositories"
	"github.com/mikesz88/ghostMammothsPB-sub000/rotation"
)

// CompletionResult reports what happened when a game finished: how the
// players were split, and the follow-on assignment if the court could be
// refilled right away (nil when it stays open waiting for players).
type CompletionResult struct {
	Completion rotation.Completion     `json:"completion"`
	Next       *models.CourtAssignment `json:"next_assignment,omitempty"`
}

type GameService interface {
	// FillCourt puts the next group of waiting players onto the lowest
	// free court. ErrNoAvailableCourt and ErrInsufficientPlayers are
	// expected "not yet" outcomes.
	FillCourt(ctx context.Context, eventID, adminID int) (*models.CourtAssignment, error)

	// CompleteGame closes an assignment, applies the event's rotation
	// policy and tries to refill the court from the queue.
	CompleteGame(ctx context.Context, eventID, assignmentID, adminID int, winner models.Side) (*CompletionResult, error)

	ListActive(ctx context.Context, eventID int) ([]*models.CourtAssignment, error)
	ListHistory(ctx context.Context, eventID int) ([]*models.CourtAssignment, error)

	// SweepStale force-rotates assignments that have been open longer
	// than maxAge, sending every player back to the queue.
	SweepStale(ctx context.Context, maxAge time.Duration) error
}

type gameService struct {
	assignmentRepo repositories.AssignmentRepository
	queueRepo      repositories.QueueRepository
	eventRepo      repositories.EventRepository
	queueService   QueueService
	notifier       Notifier
	hub            Broadcaster
	activity       ActivityService
	now            func() time.Time
}

func NewGameService(
	assignmentRepo repositories.AssignmentRepository,
	queueRepo repositories.QueueRepository,
	eventRepo repositories.EventRepository,
	queueService QueueService,
	notifier Notifier,
	hub Broadcaster,
	activity ActivityService,
) GameService {
	return &gameService{
		assignmentRepo: assignmentRepo,
		queueRepo:      queueRepo,
		eventRepo:      eventRepo,
		queueService:   queueService,
		notifier:       notifier,
		hub:            hub,
		activity:       activity,
		now:            time.Now,
	}
}

func (s *gameService) loadEvent(ctx context.Context, eventID int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *gameService) FillCourt(ctx context.Context, eventID, adminID int) (*models.CourtAssignment, error) {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	active, err := s.assignmentRepo.ListActive(ctx, eventID)
	if err != nil {
		return nil, err
	}
	courtNumber, ok := rotation.FindAvailableCourt(event.CourtCount, active)
	if !ok {
		return nil, ErrNoAvailableCourt
	}

	queue, err := s.queueRepo.ListWaiting(ctx, eventID)
	if err != nil {
		return nil, err
	}

	assignment, _, err := s.placeAssignment(ctx, event, courtNumber, nil, queue)
	if err != nil {
		return nil, err
	}

	if adminID != 0 {
		s.activity.Record(ctx, &eventID, adminID, "court_filled",
			fmt.Sprintf("court %d", courtNumber))
	}
	return assignment, nil
}

// placeAssignment builds, persists and announces one new assignment. The
// ErrInsufficientPlayers it returns is the normal "court stays open"
// signal, passed through by both fill paths.
func (s *gameService) placeAssignment(
	ctx context.Context,
	event *models.Event,
	courtNumber int,
	stayingPlayerIDs []int,
	queue []*models.QueueEntry,
) (*models.CourtAssignment, []*models.QueueEntry, error) {
	assignment, consumed, ok := rotation.BuildNextAssignment(
		courtNumber, stayingPlayerIDs, queue, event.ID, event.TeamSize, s.now())
	if !ok {
		return nil, nil, ErrInsufficientPlayers
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		if errors.Is(err, repositories.ErrCourtOccupied) {
			// A concurrent fill won the court between our snapshot and
			// the insert; treat it like no court being free.
			return nil, nil, ErrNoAvailableCourt
		}
		return nil, nil, fmt.Errorf("failed to persist court assignment: %w", err)
	}

	consumedIDs := make([]int, len(consumed))
	for i, entry := range consumed {
		consumedIDs[i] = entry.ID
	}
	if err := s.queueRepo.MarkPlaying(ctx, consumedIDs); err != nil {
		return nil, nil, fmt.Errorf("failed to mark selected entries playing: %w", err)
	}

	if _, err := s.queueService.Reindex(ctx, event); err != nil {
		return nil, nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyCourtAssigned(ctx, event, courtNumber, assignment.PlayerIDs())
	}
	if s.hub != nil {
		s.hub.BroadcastToRoom(EventRoom(event.ID), rotation.Message{
			Type:    "COURT_ASSIGNED",
			RoomID:  EventRoom(event.ID),
			Payload: assignment,
		})
	}
	return assignment, consumed, nil
}

func (s *gameService) CompleteGame(ctx context.Context, eventID, assignmentID, adminID int, winner models.Side) (*CompletionResult, error) {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if assignment.EventID != eventID {
		return nil, ErrAssignmentNotFound
	}
	if assignment.EndedAt != nil {
		return nil, ErrGameAlreadyEnded
	}

	completion := rotation.ResolveCompletion(assignment, event.RotationType, winner, event.TeamSize)

	if err := s.assignmentRepo.Close(ctx, assignmentID, s.now()); err != nil {
		if errors.Is(err, repositories.ErrAssignmentAlreadyClosed) {
			return nil, ErrGameAlreadyEnded
		}
		return nil, err
	}

	// The playing entries consumed when this court was filled are done;
	// players going back to the queue get fresh entries at the back.
	if err := s.queueRepo.DeletePlayingByUsers(ctx, eventID, assignment.PlayerIDs()); err != nil {
		return nil, err
	}
	if err := s.queueService.Requeue(ctx, event, completion.ToQueue); err != nil {
		return nil, err
	}
	queue, err := s.queueService.Reindex(ctx, event)
	if err != nil {
		return nil, err
	}

	result := &CompletionResult{Completion: completion}

	next, _, err := s.placeAssignment(ctx, event, assignment.CourtNumber, completion.Stay, queue)
	switch {
	case err == nil:
		result.Next = next
	case errors.Is(err, ErrInsufficientPlayers), errors.Is(err, ErrNoAvailableCourt):
		// Court stays open until enough players are waiting. Any players
		// who were going to stay rejoin the queue instead of holding an
		// empty court.
		if len(completion.Stay) > 0 {
			if err := s.queueService.Requeue(ctx, event, completion.Stay); err != nil {
				return nil, err
			}
			if _, err := s.queueService.Reindex(ctx, event); err != nil {
				return nil, err
			}
		}
	default:
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(EventRoom(eventID), rotation.Message{
			Type:    "GAME_COMPLETED",
			RoomID:  EventRoom(eventID),
			Payload: result,
		})
	}
	if adminID != 0 {
		s.activity.Record(ctx, &eventID, adminID, "game_completed",
			fmt.Sprintf("court %d, side %s won", assignment.CourtNumber, winner))
	}
	return result, nil
}

func (s *gameService) ListActive(ctx context.Context, eventID int) ([]*models.CourtAssignment, error) {
	if _, err := s.loadEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.ListActive(ctx, eventID)
}

func (s *gameService) ListHistory(ctx context.Context, eventID int) ([]*models.CourtAssignment, error) {
	if _, err := s.loadEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.ListByEvent(ctx, eventID)
}

func (s *gameService) SweepStale(ctx context.Context, maxAge time.Duration) error {
	stale, err := s.assignmentRepo.ListActiveOlderThan(ctx, s.now().Add(-maxAge))
	if err != nil {
		return err
	}

	for _, assignment := range stale {
		event, err := s.loadEvent(ctx, assignment.EventID)
		if err != nil {
			slog.Warn("stale sweep: failed to load event",
				slog.Int("event_id", assignment.EventID), slog.Any("error", err))
			continue
		}

		if err := s.assignmentRepo.Close(ctx, assignment.ID, s.now()); err != nil {
			slog.Warn("stale sweep: failed to close assignment",
				slog.Int("assignment_id", assignment.ID), slog.Any("error", err))
			continue
		}
		players := assignment.PlayerIDs()
		if err := s.queueRepo.DeletePlayingByUsers(ctx, event.ID, players); err != nil {
			return err
		}
		if err := s.queueService.Requeue(ctx, event, players); err != nil {
			return err
		}
		if _, err := s.queueService.Reindex(ctx, event); err != nil {
			return err
		}

		slog.Info("stale assignment rotated out",
			slog.Int("event_id", event.ID),
			slog.Int("court", assignment.CourtNumber),
			slog.Int("players", len(players)))
	}
	return nil
}
