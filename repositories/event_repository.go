package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mikesz88/ghostMammothsPB-sub000/models"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventOrganizerInvalid = errors.New("event organizer conflict or invalid")
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, statusFilter *models.EventStatus) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, id int, status models.EventStatus) error
	UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `
	id, name, description, location, organizer_id, court_count, team_size,
	rotation_type, start_time, end_time, status, created_at, photo_key`

func (r *postgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (name, description, location, organizer_id, court_count,
			team_size, rotation_type, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		event.Name,
		event.Description,
		event.Location,
		event.OrganizerID,
		event.CourtCount,
		event.TeamSize,
		event.RotationType,
		event.StartTime,
		event.EndTime,
		event.Status,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" && pqErr.Constraint == "events_organizer_id_fkey" {
			return ErrEventOrganizerInvalid
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) scanEvent(rowScanner interface {
	Scan(dest ...interface{}) error
}, event *models.Event) error {
	return rowScanner.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.Location,
		&event.OrganizerID,
		&event.CourtCount,
		&event.TeamSize,
		&event.RotationType,
		&event.StartTime,
		&event.EndTime,
		&event.Status,
		&event.CreatedAt,
		&event.PhotoKey,
	)
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event := &models.Event{}
	err := r.scanEvent(r.db.QueryRowContext(ctx, query, id), event)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return event, nil
}

func (r *postgresEventRepository) List(ctx context.Context, statusFilter *models.EventStatus) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	args := []interface{}{}
	if statusFilter != nil {
		query += ` WHERE status = $1`
		args = append(args, *statusFilter)
	}
	query += ` ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		event := &models.Event{}
		if err := r.scanEvent(rows, event); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *postgresEventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, location = $3, court_count = $4,
			team_size = $5, rotation_type = $6, start_time = $7, end_time = $8,
			status = $9
		WHERE id = $10`

	result, err := r.db.ExecContext(ctx, query,
		event.Name,
		event.Description,
		event.Location,
		event.CourtCount,
		event.TeamSize,
		event.RotationType,
		event.StartTime,
		event.EndTime,
		event.Status,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event %d: %w", event.ID, err)
	}
	return checkAffected(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdateStatus(ctx context.Context, id int, status models.EventStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE events SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	return checkAffected(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE events SET photo_key = $1 WHERE id = $2`, photoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update event photo key: %w", err)
	}
	return checkAffected(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	return checkAffected(result, ErrEventNotFound)
}
