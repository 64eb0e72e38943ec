package models

import "time"

// EventStatus represents event statuses matching the ENUM in the DB.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCanceled  EventStatus = "canceled"
)

// RotationType is the policy deciding which players remain on a court
// after a game and which return to the waiting queue. Admins may change
// it between games; it applies on the next game completion.
type RotationType string

const (
	RotationTwoStayFourOff RotationType = "2-stay-4-off"
	RotationWinnersStay    RotationType = "winners-stay"
	RotationRotateAll      RotationType = "rotate-all"
)

// ParseRotationType validates a raw rotation type value.
func ParseRotationType(s string) (RotationType, bool) {
	switch rt := RotationType(s); rt {
	case RotationTwoStayFourOff, RotationWinnersStay, RotationRotateAll:
		return rt, true
	}
	return "", false
}

// Event is a recurring open-play session: a set of courts plus the queue
// of players waiting to get on one.
type Event struct {
	ID           int          `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Description  *string      `json:"description,omitempty" db:"description"`
	Location     *string      `json:"location,omitempty" db:"location"`
	OrganizerID  int          `json:"organizer_id" db:"organizer_id"`
	CourtCount   int          `json:"court_count" db:"court_count"`
	TeamSize     int          `json:"team_size" db:"team_size"` // 1=solo .. 4=quads
	RotationType RotationType `json:"rotation_type" db:"rotation_type"`
	StartTime    time.Time    `json:"start_time" db:"start_time"`
	EndTime      time.Time    `json:"end_time" db:"end_time"`
	Status       EventStatus  `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	PhotoKey     *string      `json:"-" db:"photo_key"`
	PhotoURL     *string      `json:"photo_url,omitempty" db:"-"`
}

// PlayersPerCourt is the number of players one full game needs.
func (e *Event) PlayersPerCourt() int {
	return e.TeamSize * 2
}
