package rotation

import (
	"github.com/mikesz88/ghostMammothsPB-sub000/models"
)

// SelectNextPlayers picks waiting entries whose combined player count fills
// count slots, walking the queue in position order. Entries sharing a group
// id are taken all together or not at all; a group that does not fit is set
// aside whole, and after the first pass any set-aside group small enough for
// the remaining seats is backfilled so a big group at the front cannot block
// the court forever. Solo entries that do not fit are simply left in place
// for the next round.
//
// The input must be sorted ascending by position. The result preserves the
// order in which entries were accepted and its total player count never
// exceeds count; when no combination reaches count the maximal partial fill
// is returned and the caller decides whether to use it.
func SelectNextPlayers(queue []*models.QueueEntry, count int) []*models.QueueEntry {
	if count <= 0 {
		return nil
	}

	selected := make([]*models.QueueEntry, 0, len(queue))
	var skippedGroups [][]*models.QueueEntry
	seenGroups := make(map[string]bool)
	total := 0

	for _, entry := range queue {
		if total >= count {
			break
		}
		if entry.Status != models.QueueStatusWaiting {
			continue
		}

		if entry.GroupID != nil {
			gid := *entry.GroupID
			if seenGroups[gid] {
				continue
			}
			seenGroups[gid] = true

			group := collectGroup(queue, gid)
			size := groupPlayerCount(group)
			if total+size <= count {
				selected = append(selected, group...)
				total += size
			} else {
				skippedGroups = append(skippedGroups, group)
			}
			continue
		}

		if total+entry.PlayerCount() <= count {
			selected = append(selected, entry)
			total += entry.PlayerCount()
		}
	}

	// Second pass over the deferred groups, in their original order.
	for _, group := range skippedGroups {
		if total >= count {
			break
		}
		size := groupPlayerCount(group)
		if total+size <= count {
			selected = append(selected, group...)
			total += size
		}
	}

	return selected
}

// collectGroup gathers every waiting entry sharing gid, in queue order.
// Group members are not necessarily contiguous by position.
func collectGroup(queue []*models.QueueEntry, gid string) []*models.QueueEntry {
	var group []*models.QueueEntry
	for _, entry := range queue {
		if entry.Status != models.QueueStatusWaiting {
			continue
		}
		if entry.GroupID != nil && *entry.GroupID == gid {
			group = append(group, entry)
		}
	}
	return group
}

func groupPlayerCount(group []*models.QueueEntry) int {
	total := 0
	for _, entry := range group {
		total += entry.PlayerCount()
	}
	return total
}

// SelectedPlayerCount sums the physical players represented by a selection.
func SelectedPlayerCount(entries []*models.QueueEntry) int {
	return groupPlayerCount(entries)
}
