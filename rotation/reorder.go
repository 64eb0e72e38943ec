package rotation

import (
	"sort"

	"github.com/mikesz88/ghostMammothsPB-sub000/models"
)

// ReorderQueue renumbers the waiting entries of one event to a gap-free
// 1..N sequence, preserving their relative order. Non-waiting entries are
// dropped from the result. The input is not mutated; the returned entries
// are copies.
func ReorderQueue(queue []*models.QueueEntry) []*models.QueueEntry {
	waiting := make([]*models.QueueEntry, 0, len(queue))
	for _, entry := range queue {
		if entry.Status == models.QueueStatusWaiting {
			waiting = append(waiting, entry)
		}
	}

	sort.SliceStable(waiting, func(i, j int) bool {
		return waiting[i].Position < waiting[j].Position
	})

	out := make([]*models.QueueEntry, len(waiting))
	for i, entry := range waiting {
		c := *entry
		c.Position = i + 1
		out[i] = &c
	}
	return out
}

// PositionChange records one entry moving within the waiting list.
type PositionChange struct {
	EntryID     int
	UserID      int
	OldPosition int
	NewPosition int
}

// Improved reports whether the entry moved toward the front.
func (c PositionChange) Improved() bool {
	return c.NewPosition < c.OldPosition
}

// PositionChanges diffs two snapshots of a queue by entry id. Callers use
// the result to decide notifications ("you're in the top 4", "you moved up
// 3 spots") after a reorder has been persisted.
func PositionChanges(before, after []*models.QueueEntry) []PositionChange {
	old := make(map[int]int, len(before))
	for _, entry := range before {
		old[entry.ID] = entry.Position
	}

	var changes []PositionChange
	for _, entry := range after {
		prev, ok := old[entry.ID]
		if !ok || prev == entry.Position {
			continue
		}
		changes = append(changes, PositionChange{
			EntryID:     entry.ID,
			UserID:      entry.UserID,
			OldPosition: prev,
			NewPosition: entry.Position,
		})
	}
	return changes
}
