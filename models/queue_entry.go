package models

import "time"

type QueueStatus string

const (
	QueueStatusWaiting QueueStatus = "waiting"
	QueueStatusPlaying QueueStatus = "playing"
)

// QueueEntry is one waiting-list row. Entries sharing a non-nil GroupID
// joined together and are selected onto a court as one unit or not at all.
type QueueEntry struct {
	ID        int         `json:"id" db:"id"`
	EventID   int         `json:"event_id" db:"event_id"`
	UserID    int         `json:"user_id" db:"user_id"`
	GroupID   *string     `json:"group_id,omitempty" db:"group_id"`
	GroupSize int         `json:"group_size" db:"group_size"` // players this entry stands for, 1..4
	Position  int         `json:"position" db:"position"`     // 1-based rank among waiting entries
	Status    QueueStatus `json:"status" db:"status"`
	JoinedAt  time.Time   `json:"joined_at" db:"joined_at"`

	// Optional nested user for display, not mapped directly.
	User *User `json:"user,omitempty" db:"-"`
}

// PlayerCount returns the number of physical players this entry represents.
// A malformed size below 1 counts as a single player.
func (e *QueueEntry) PlayerCount() int {
	if e.GroupSize < 1 {
		return 1
	}
	return e.GroupSize
}
