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
	ErrQueueEntryNotFound = errors.New("queue entry not found")
	ErrQueueEntryConflict = errors.New("user already has a waiting queue entry for this event")
)

type QueueRepository interface {
	// Join inserts the given entries at the back of the event's waiting
	// list, assigning consecutive positions. All entries must share one
	// event id; they are inserted in a single transaction so concurrent
	// joins cannot collide on positions.
	Join(ctx context.Context, entries []*models.QueueEntry) error

	ListWaiting(ctx context.Context, eventID int) ([]*models.QueueEntry, error)
	FindWaitingByUser(ctx context.Context, eventID, userID int) (*models.QueueEntry, error)
	MarkPlaying(ctx context.Context, ids []int) error
	DeleteByIDs(ctx context.Context, ids []int) error
	DeletePlayingByUsers(ctx context.Context, eventID int, userIDs []int) error
	UpdatePositions(ctx context.Context, entries []*models.QueueEntry) error
}

type postgresQueueRepository struct {
	db *sql.DB
}

func NewPostgresQueueRepository(db *sql.DB) QueueRepository {
	return &postgresQueueRepository{db: db}
}

func (r *postgresQueueRepository) Join(ctx context.Context, entries []*models.QueueEntry) error {
	if len(entries) == 0 {
		return nil
	}
	eventID := entries[0].EventID

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin queue join transaction: %w", err)
	}
	defer tx.Rollback()

	// Serialize position assignment per event. Two concurrent joins that
	// both read max(position) would otherwise insert duplicate positions.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(eventID)); err != nil {
		return fmt.Errorf("failed to acquire queue lock for event %d: %w", eventID, err)
	}

	var maxPosition int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), 0) FROM queue_entries
		WHERE event_id = $1 AND status = 'waiting'`, eventID).Scan(&maxPosition)
	if err != nil {
		return fmt.Errorf("failed to read max queue position for event %d: %w", eventID, err)
	}

	query := `
		INSERT INTO queue_entries (event_id, user_id, group_id, group_size, position, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, joined_at`

	for i, entry := range entries {
		entry.Position = maxPosition + i + 1
		entry.Status = models.QueueStatusWaiting
		err := tx.QueryRowContext(ctx, query,
			entry.EventID,
			entry.UserID,
			entry.GroupID,
			entry.GroupSize,
			entry.Position,
			entry.Status,
		).Scan(&entry.ID, &entry.JoinedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return ErrQueueEntryConflict
			}
			return fmt.Errorf("failed to insert queue entry for user %d: %w", entry.UserID, err)
		}
	}

	return tx.Commit()
}

func (r *postgresQueueRepository) ListWaiting(ctx context.Context, eventID int) ([]*models.QueueEntry, error) {
	query := `
		SELECT
			q.id, q.event_id, q.user_id, q.group_id, q.group_size, q.position,
			q.status, q.joined_at,
			u.first_name, u.last_name, u.email
		FROM queue_entries q
		LEFT JOIN users u ON q.user_id = u.id
		WHERE q.event_id = $1 AND q.status = 'waiting'
		ORDER BY q.position`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list waiting queue for event %d: %w", eventID, err)
	}
	defer rows.Close()

	entries := make([]*models.QueueEntry, 0)
	for rows.Next() {
		entry := &models.QueueEntry{}
		var firstName, lastName, email sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.EventID,
			&entry.UserID,
			&entry.GroupID,
			&entry.GroupSize,
			&entry.Position,
			&entry.Status,
			&entry.JoinedAt,
			&firstName,
			&lastName,
			&email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan queue entry row: %w", err)
		}
		if firstName.Valid {
			entry.User = &models.User{
				ID:        entry.UserID,
				FirstName: firstName.String,
				LastName:  lastName.String,
				Email:     email.String,
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *postgresQueueRepository) FindWaitingByUser(ctx context.Context, eventID, userID int) (*models.QueueEntry, error) {
	query := `
		SELECT id, event_id, user_id, group_id, group_size, position, status, joined_at
		FROM queue_entries
		WHERE event_id = $1 AND user_id = $2 AND status = 'waiting'`

	entry := &models.QueueEntry{}
	err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(
		&entry.ID,
		&entry.EventID,
		&entry.UserID,
		&entry.GroupID,
		&entry.GroupSize,
		&entry.Position,
		&entry.Status,
		&entry.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQueueEntryNotFound
		}
		return nil, fmt.Errorf("failed to find waiting entry for user %d: %w", userID, err)
	}
	return entry, nil
}

func (r *postgresQueueRepository) MarkPlaying(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE queue_entries SET status = 'playing' WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to mark queue entries playing: %w", err)
	}
	return checkAffected(result, ErrQueueEntryNotFound)
}

func (r *postgresQueueRepository) DeleteByIDs(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM queue_entries WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to delete queue entries: %w", err)
	}
	return checkAffected(result, ErrQueueEntryNotFound)
}

func (r *postgresQueueRepository) DeletePlayingByUsers(ctx context.Context, eventID int, userIDs []int) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM queue_entries
		WHERE event_id = $1 AND status = 'playing' AND user_id = ANY($2)`,
		eventID, pq.Array(userIDs))
	if err != nil {
		return fmt.Errorf("failed to delete playing queue entries: %w", err)
	}
	return nil
}

func (r *postgresQueueRepository) UpdatePositions(ctx context.Context, entries []*models.QueueEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin position update transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE queue_entries SET position = $1 WHERE id = $2`)
	if err != nil {
		return fmt.Errorf("failed to prepare position update: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx, entry.Position, entry.ID); err != nil {
			return fmt.Errorf("failed to update position for entry %d: %w", entry.ID, err)
		}
	}

	return tx.Commit()
}
