package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mikesz88/ghostMammothsPB-sub000/models"
	"github.com/mikesz88/ghostMammothsPB-sub000/repositories"
	"github.com/mikesz88/ghostMammothsPB-sub000/storage"
)

type CreateEventInput struct {
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Location     *string   `json:"location"`
	CourtCount   int       `json:"court_count"`
	TeamSize     int       `json:"team_size"`
	RotationType string    `json:"rotation_type"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
}

type UpdateEventInput struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	Location     *string    `json:"location"`
	CourtCount   *int       `json:"court_count"`
	TeamSize     *int       `json:"team_size"`
	RotationType *string    `json:"rotation_type"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Status       *string    `json:"status"`
}

type EventService interface {
	Create(ctx context.Context, organizerID int, input CreateEventInput) (*models.Event, error)
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, statusFilter *models.EventStatus) ([]*models.Event, error)
	Update(ctx context.Context, id, adminID int, input UpdateEventInput) (*models.Event, error)
	Delete(ctx context.Context, id, adminID int) error
	UploadPhoto(ctx context.Context, id, adminID int, contentType string, reader io.Reader) (*models.Event, error)
}

type eventService struct {
	eventRepo repositories.EventRepository
	uploader  storage.FileUploader
	activity  ActivityService
}

func NewEventService(
	eventRepo repositories.EventRepository,
	uploader storage.FileUploader,
	activity ActivityService,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		uploader:  uploader,
		activity:  activity,
	}
}

func validateEventParams(courtCount, teamSize int, rotationType string) (models.RotationType, error) {
	if courtCount < 1 {
		return "", ErrEventInvalidCourtCount
	}
	if teamSize < 1 || teamSize > 4 {
		return "", ErrEventInvalidTeamSize
	}
	rt, ok := models.ParseRotationType(rotationType)
	if !ok {
		return "", ErrEventInvalidRotation
	}
	return rt, nil
}

func (s *eventService) Create(ctx context.Context, organizerID int, input CreateEventInput) (*models.Event, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrValidationFailed)
	}
	rt, err := validateEventParams(input.CourtCount, input.TeamSize, input.RotationType)
	if err != nil {
		return nil, err
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, ErrEventInvalidDateRange
	}

	event := &models.Event{
		Name:         input.Name,
		Description:  input.Description,
		Location:     input.Location,
		OrganizerID:  organizerID,
		CourtCount:   input.CourtCount,
		TeamSize:     input.TeamSize,
		RotationType: rt,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		Status:       models.EventStatusUpcoming,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.activity.Record(ctx, &event.ID, organizerID, "event_created", event.Name)
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	s.attachPhotoURL(event)
	return event, nil
}

func (s *eventService) List(ctx context.Context, statusFilter *models.EventStatus) ([]*models.Event, error) {
	events, err := s.eventRepo.List(ctx, statusFilter)
	if err != nil {
		return nil, err
	}
	for _, event := range events {
		s.attachPhotoURL(event)
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, id, adminID int, input UpdateEventInput) (*models.Event, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		event.Name = *input.Name
	}
	if input.Description != nil {
		event.Description = input.Description
	}
	if input.Location != nil {
		event.Location = input.Location
	}
	if input.CourtCount != nil {
		event.CourtCount = *input.CourtCount
	}
	if input.TeamSize != nil {
		event.TeamSize = *input.TeamSize
	}
	if input.RotationType != nil {
		// Takes effect on the next game completion; games already in
		// progress are untouched.
		event.RotationType = models.RotationType(*input.RotationType)
		s.activity.Record(ctx, &event.ID, adminID, "rotation_changed", *input.RotationType)
	}
	if input.StartTime != nil {
		event.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		event.EndTime = *input.EndTime
	}
	if input.Status != nil {
		event.Status = models.EventStatus(*input.Status)
	}

	if _, err := validateEventParams(event.CourtCount, event.TeamSize, string(event.RotationType)); err != nil {
		return nil, err
	}
	if !event.EndTime.After(event.StartTime) {
		return nil, ErrEventInvalidDateRange
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id, adminID int) error {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}

	if event.PhotoKey != nil && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *event.PhotoKey); err != nil {
			slog.Warn("failed to delete event photo",
				slog.Int("event_id", id), slog.Any("error", err))
		}
	}

	s.activity.Record(ctx, &id, adminID, "event_deleted", event.Name)
	return nil
}

func (s *eventService) UploadPhoto(ctx context.Context, id, adminID int, contentType string, reader io.Reader) (*models.Event, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: photo storage is not configured", ErrValidationFailed)
	}

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("events/%d/photo-%d", id, time.Now().UnixNano())
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload event photo: %w", err)
	}

	oldKey := event.PhotoKey
	if err := s.eventRepo.UpdatePhotoKey(ctx, id, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to store event photo key: %w", err)
	}
	if oldKey != nil {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			slog.Warn("failed to delete replaced event photo",
				slog.Int("event_id", id), slog.Any("error", err))
		}
	}

	event.PhotoKey = &result.Key
	s.attachPhotoURL(event)
	s.activity.Record(ctx, &id, adminID, "event_photo_updated", result.Key)
	return event, nil
}

func (s *eventService) attachPhotoURL(event *models.Event) {
	if event.PhotoKey != nil && s.uploader != nil {
		url := s.uploader.GetPublicURL(*event.PhotoKey)
		event.PhotoURL = &url
	}
}
