package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mikesz88/ghostMammothsPB-sub000/models"
)

var (
	ErrAssignmentNotFound = errors.New("court assignment not found")
	// ErrCourtOccupied fires on the partial unique index over
	// (event_id, court_number) where ended_at is null: two concurrent
	// fills picked the same open court and one of them lost.
	ErrCourtOccupied           = errors.New("court already has an active assignment")
	ErrAssignmentAlreadyClosed = errors.New("court assignment already ended")
)

type AssignmentRepository interface {
	Create(ctx context.Context, a *models.CourtAssignment) error
	GetByID(ctx context.Context, id int) (*models.CourtAssignment, error)
	ListActive(ctx context.Context, eventID int) ([]*models.CourtAssignment, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.CourtAssignment, error)
	ListActiveOlderThan(ctx context.Context, cutoff time.Time) ([]*models.CourtAssignment, error)
	Close(ctx context.Context, id int, endedAt time.Time) error
}

type postgresAssignmentRepository struct {
	db *sql.DB
}

func NewPostgresAssignmentRepository(db *sql.DB) AssignmentRepository {
	return &postgresAssignmentRepository{db: db}
}

const assignmentColumns = `
	id, event_id, court_number,
	player1_id, player2_id, player3_id, player4_id,
	player5_id, player6_id, player7_id, player8_id,
	started_at, ended_at`

func (r *postgresAssignmentRepository) Create(ctx context.Context, a *models.CourtAssignment) error {
	query := `
		INSERT INTO court_assignments (event_id, court_number,
			player1_id, player2_id, player3_id, player4_id,
			player5_id, player6_id, player7_id, player8_id, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		a.EventID,
		a.CourtNumber,
		a.Player1ID, a.Player2ID, a.Player3ID, a.Player4ID,
		a.Player5ID, a.Player6ID, a.Player7ID, a.Player8ID,
		a.StartedAt,
	).Scan(&a.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" &&
			pqErr.Constraint == "court_assignments_active_court_key" {
			return ErrCourtOccupied
		}
		return fmt.Errorf("failed to create court assignment: %w", err)
	}
	return nil
}

func (r *postgresAssignmentRepository) scanAssignment(rowScanner interface {
	Scan(dest ...interface{}) error
}, a *models.CourtAssignment) error {
	return rowScanner.Scan(
		&a.ID,
		&a.EventID,
		&a.CourtNumber,
		&a.Player1ID, &a.Player2ID, &a.Player3ID, &a.Player4ID,
		&a.Player5ID, &a.Player6ID, &a.Player7ID, &a.Player8ID,
		&a.StartedAt,
		&a.EndedAt,
	)
}

func (r *postgresAssignmentRepository) GetByID(ctx context.Context, id int) (*models.CourtAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM court_assignments WHERE id = $1`

	a := &models.CourtAssignment{}
	err := r.scanAssignment(r.db.QueryRowContext(ctx, query, id), a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get court assignment %d: %w", id, err)
	}
	return a, nil
}

func (r *postgresAssignmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.CourtAssignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list court assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]*models.CourtAssignment, 0)
	for rows.Next() {
		a := &models.CourtAssignment{}
		if err := r.scanAssignment(rows, a); err != nil {
			return nil, fmt.Errorf("failed to scan court assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *postgresAssignmentRepository) ListActive(ctx context.Context, eventID int) ([]*models.CourtAssignment, error) {
	return r.list(ctx, `
		SELECT `+assignmentColumns+` FROM court_assignments
		WHERE event_id = $1 AND ended_at IS NULL
		ORDER BY court_number`, eventID)
}

func (r *postgresAssignmentRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.CourtAssignment, error) {
	return r.list(ctx, `
		SELECT `+assignmentColumns+` FROM court_assignments
		WHERE event_id = $1
		ORDER BY started_at DESC`, eventID)
}

func (r *postgresAssignmentRepository) ListActiveOlderThan(ctx context.Context, cutoff time.Time) ([]*models.CourtAssignment, error) {
	return r.list(ctx, `
		SELECT `+assignmentColumns+` FROM court_assignments
		WHERE ended_at IS NULL AND started_at < $1`, cutoff)
}

func (r *postgresAssignmentRepository) Close(ctx context.Context, id int, endedAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE court_assignments SET ended_at = $1
		WHERE id = $2 AND ended_at IS NULL`, endedAt, id)
	if err != nil {
		return fmt.Errorf("failed to close court assignment %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows for assignment close: %w", err)
	}
	if affected == 0 {
		// Distinguish "already ended" from "no such row".
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrAssignmentAlreadyClosed
	}
	return nil
}
