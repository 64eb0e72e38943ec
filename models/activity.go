package models

import "time"

// ActivityEntry is one row of the admin activity log (rotation changes,
// manual court fills, removals and the like).
type ActivityEntry struct {
	ID        int       `json:"id" db:"id"`
	EventID   *int      `json:"event_id,omitempty" db:"event_id"`
	AdminID   int       `json:"admin_id" db:"admin_id"`
	Action    string    `json:"action" db:"action"`
	Detail    *string   `json:"detail,omitempty" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
