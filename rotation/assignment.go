package rotation

import (
	"time"

	"github.com/mikesz88/ghostMammothsPB-sub000/models"
)

// BuildNextAssignment combines players staying on a court with entries
// selected from the waiting queue into a new assignment for that court.
// Staying players keep the leading slots in their given order; selected
// entries fill the remainder in acceptance order. When the staying players
// plus the best possible selection still fall short of teamSize*2 the court
// cannot be refilled yet: the function returns ok=false and nothing is
// consumed. This is a normal outcome, not an error.
//
// The consumed queue entries are returned so the caller can flip their
// status to playing and persist the new assignment.
func BuildNextAssignment(
	courtNumber int,
	stayingPlayerIDs []int,
	queue []*models.QueueEntry,
	eventID int,
	teamSize int,
	now time.Time,
) (*models.CourtAssignment, []*models.QueueEntry, bool) {
	target := teamSize * 2

	var selected []*models.QueueEntry
	if needed := target - len(stayingPlayerIDs); needed > 0 {
		selected = SelectNextPlayers(queue, needed)
	}

	if len(stayingPlayerIDs)+SelectedPlayerCount(selected) < target {
		return nil, nil, false
	}

	ids := make([]int, 0, target)
	ids = append(ids, stayingPlayerIDs...)
	for _, entry := range selected {
		ids = append(ids, entry.UserID)
	}

	assignment := &models.CourtAssignment{
		EventID:     eventID,
		CourtNumber: courtNumber,
		StartedAt:   now,
	}
	assignment.SetPlayerIDs(ids)

	return assignment, selected, true
}
