package rotation

import (
	"testing"

	"github.com/mikesz88/ghostMammothsPB-sub000/models"
)

func waitingEntry(id, userID, position int) *models.QueueEntry {
	return &models.QueueEntry{
		ID:        id,
		UserID:    userID,
		GroupSize: 1,
		Position:  position,
		Status:    models.QueueStatusWaiting,
	}
}

func groupedEntry(id, userID, position int, groupID string, groupSize int) *models.QueueEntry {
	e := waitingEntry(id, userID, position)
	e.GroupID = &groupID
	e.GroupSize = groupSize
	return e
}

func entryIDs(entries []*models.QueueEntry) []int {
	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSelectNextPlayersSolosInOrder(t *testing.T) {
	queue := []*models.QueueEntry{
		waitingEntry(1, 101, 1),
		waitingEntry(2, 102, 2),
		waitingEntry(3, 103, 3),
		waitingEntry(4, 104, 4),
		waitingEntry(5, 105, 5),
	}

	selected := SelectNextPlayers(queue, 4)

	if got, want := entryIDs(selected), []int{1, 2, 3, 4}; !equalIDs(got, want) {
		t.Errorf("selected ids = %v, want %v", got, want)
	}
	if got := SelectedPlayerCount(selected); got != 4 {
		t.Errorf("player count = %d, want 4", got)
	}
}

func TestSelectNextPlayersGroupTakenWhole(t *testing.T) {
	queue := []*models.QueueEntry{
		waitingEntry(1, 101, 1),
		groupedEntry(2, 102, 2, "g1", 1),
		groupedEntry(3, 103, 3, "g1", 1),
		waitingEntry(4, 104, 4),
		waitingEntry(5, 105, 5),
	}

	selected := SelectNextPlayers(queue, 4)

	if got, want := entryIDs(selected), []int{1, 2, 3, 4}; !equalIDs(got, want) {
		t.Errorf("selected ids = %v, want %v", got, want)
	}
}

func TestSelectNextPlayersOversizedGroupDoesNotBlockLaterSolo(t *testing.T) {
	// A pair in front of the last remaining seat is set aside whole; the
	// solo behind it takes that seat and the pair waits for the next court.
	queue := []*models.QueueEntry{
		waitingEntry(1, 101, 1),
		waitingEntry(2, 102, 2),
		waitingEntry(3, 103, 3),
		groupedEntry(4, 104, 4, "pair", 1),
		groupedEntry(5, 105, 5, "pair", 1),
		waitingEntry(6, 106, 6),
	}

	selected := SelectNextPlayers(queue, 4)

	if got, want := entryIDs(selected), []int{1, 2, 3, 6}; !equalIDs(got, want) {
		t.Errorf("selected ids = %v, want %v", got, want)
	}
}

func TestSelectNextPlayersDeferredTrioLeavesPartialFill(t *testing.T) {
	// Two solos, a trio that overflows, one more solo: the trio is set
	// aside and still does not fit afterwards, so the best achievable is a
	// partial fill of three seats.
	queue := []*models.QueueEntry{
		waitingEntry(1, 101, 1),
		waitingEntry(2, 102, 2),
		groupedEntry(3, 103, 3, "trio", 1),
		groupedEntry(4, 104, 4, "trio", 1),
		groupedEntry(5, 105, 5, "trio", 1),
		waitingEntry(6, 106, 6),
	}

	selected := SelectNextPlayers(queue, 4)

	if got, want := entryIDs(selected), []int{1, 2, 6}; !equalIDs(got, want) {
		t.Errorf("selected ids = %v, want %v", got, want)
	}
	if got := SelectedPlayerCount(selected); got != 3 {
		t.Errorf("player count = %d, want 3", got)
	}
}

func TestSelectNextPlayersGuestsCountAsSeats(t *testing.T) {
	// An entry standing for three players fills three of four seats.
	lead := waitingEntry(1, 101, 1)
	lead.GroupSize = 3
	queue := []*models.QueueEntry{
		lead,
		waitingEntry(2, 102, 2),
		waitingEntry(3, 103, 3),
	}

	selected := SelectNextPlayers(queue, 4)

	if got, want := entryIDs(selected), []int{1, 2}; !equalIDs(got, want) {
		t.Errorf("selected ids = %v, want %v", got, want)
	}
	if got := SelectedPlayerCount(selected); got != 4 {
		t.Errorf("player count = %d, want 4", got)
	}
}

func TestSelectNextPlayersPartialFill(t *testing.T) {
	queue := []*models.QueueEntry{
		waitingEntry(1, 101, 1),
		waitingEntry(2, 102, 2),
	}

	selected := SelectNextPlayers(queue, 4)

	if got, want := entryIDs(selected), []int{1, 2}; !equalIDs(got, want) {
		t.Errorf("selected ids = %v, want %v", got, want)
	}
}

func TestSelectNextPlayersSkipsNonWaiting(t *testing.T) {
	playing := waitingEntry(1, 101, 1)
	playing.Status = models.QueueStatusPlaying
	queue := []*models.QueueEntry{
		playing,
		waitingEntry(2, 102, 2),
		waitingEntry(3, 103, 3),
	}

	selected := SelectNextPlayers(queue, 2)

	if got, want := entryIDs(selected), []int{2, 3}; !equalIDs(got, want) {
		t.Errorf("selected ids = %v, want %v", got, want)
	}
}

func TestSelectNextPlayersNeverExceedsCount(t *testing.T) {
	queue := []*models.QueueEntry{
		groupedEntry(1, 101, 1, "trio", 1),
		groupedEntry(2, 102, 2, "trio", 1),
		groupedEntry(3, 103, 3, "trio", 1),
		waitingEntry(4, 104, 4),
	}

	selected := SelectNextPlayers(queue, 2)

	if got := SelectedPlayerCount(selected); got > 2 {
		t.Errorf("player count = %d, must not exceed 2", got)
	}
	if got, want := entryIDs(selected), []int{4}; !equalIDs(got, want) {
		t.Errorf("selected ids = %v, want %v", got, want)
	}
}

func TestSelectNextPlayersDoesNotMutateInput(t *testing.T) {
	queue := []*models.QueueEntry{
		waitingEntry(1, 101, 1),
		waitingEntry(2, 102, 2),
	}

	SelectNextPlayers(queue, 1)

	for i, entry := range queue {
		if entry.Status != models.QueueStatusWaiting {
			t.Errorf("entry %d status changed to %s", i, entry.Status)
		}
		if entry.Position != i+1 {
			t.Errorf("entry %d position changed to %d", i, entry.Position)
		}
	}
}

func TestSelectNextPlayersZeroCount(t *testing.T) {
	queue := []*models.QueueEntry{waitingEntry(1, 101, 1)}
	if selected := SelectNextPlayers(queue, 0); len(selected) != 0 {
		t.Errorf("expected empty selection, got %v", entryIDs(selected))
	}
}
