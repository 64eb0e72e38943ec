package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mikesz88/ghostMammothsPB-sub000/models"
)

type ActivityRepository interface {
	Insert(ctx context.Context, entry *models.ActivityEntry) error
	ListRecent(ctx context.Context, limit int) ([]*models.ActivityEntry, error)
	// Prune deletes everything but the newest keep rows.
	Prune(ctx context.Context, keep int) error
}

type postgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) ActivityRepository {
	return &postgresActivityRepository{db: db}
}

func (r *postgresActivityRepository) Insert(ctx context.Context, entry *models.ActivityEntry) error {
	query := `
		INSERT INTO activity_log (event_id, admin_id, action, detail)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.EventID,
		entry.AdminID,
		entry.Action,
		entry.Detail,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity entry: %w", err)
	}
	return nil
}

func (r *postgresActivityRepository) ListRecent(ctx context.Context, limit int) ([]*models.ActivityEntry, error) {
	query := `
		SELECT id, event_id, admin_id, action, detail, created_at
		FROM activity_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity log: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.ActivityEntry, 0, limit)
	for rows.Next() {
		entry := &models.ActivityEntry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.EventID,
			&entry.AdminID,
			&entry.Action,
			&entry.Detail,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *postgresActivityRepository) Prune(ctx context.Context, keep int) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM activity_log
		WHERE id NOT IN (
			SELECT id FROM activity_log ORDER BY created_at DESC, id DESC LIMIT $1
		)`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune activity log: %w", err)
	}
	return nil
}
