package rotation

import (
	"testing"

	"github.com/mikesz88/ghostMammothsPB-sub000/models"
)

func doublesAssignment(ids ...int) *models.CourtAssignment {
	a := &models.CourtAssignment{EventID: 1, CourtNumber: 1}
	a.SetPlayerIDs(ids)
	return a
}

func TestResolveCompletionWinnersStay(t *testing.T) {
	a := doublesAssignment(1, 2, 3, 4)

	tests := []struct {
		name        string
		rt          models.RotationType
		winner      models.Side
		wantStay    []int
		wantToQueue []int
	}{
		{"two stay four off, side A wins", models.RotationTwoStayFourOff, models.SideA, []int{1, 2}, []int{3, 4}},
		{"two stay four off, side B wins", models.RotationTwoStayFourOff, models.SideB, []int{3, 4}, []int{1, 2}},
		{"winners stay, side A wins", models.RotationWinnersStay, models.SideA, []int{1, 2}, []int{3, 4}},
		{"winners stay, side B wins", models.RotationWinnersStay, models.SideB, []int{3, 4}, []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCompletion(a, tt.rt, tt.winner, 2)
			if !equalIDs(got.Stay, tt.wantStay) {
				t.Errorf("stay = %v, want %v", got.Stay, tt.wantStay)
			}
			if !equalIDs(got.ToQueue, tt.wantToQueue) {
				t.Errorf("toQueue = %v, want %v", got.ToQueue, tt.wantToQueue)
			}
		})
	}
}

func TestResolveCompletionRotateAll(t *testing.T) {
	a := doublesAssignment(1, 2, 3, 4)

	got := ResolveCompletion(a, models.RotationRotateAll, models.SideA, 2)
	if len(got.Stay) != 0 {
		t.Errorf("stay = %v, want empty", got.Stay)
	}
	if want := []int{1, 2, 3, 4}; !equalIDs(got.ToQueue, want) {
		t.Errorf("toQueue = %v, want %v", got.ToQueue, want)
	}
}

func TestResolveCompletionUnknownPolicyRotatesAll(t *testing.T) {
	a := doublesAssignment(1, 2, 3, 4)

	got := ResolveCompletion(a, models.RotationType("free-for-all"), models.SideB, 2)
	if len(got.Stay) != 0 {
		t.Errorf("stay = %v, want empty", got.Stay)
	}
	if want := []int{1, 2, 3, 4}; !equalIDs(got.ToQueue, want) {
		t.Errorf("toQueue = %v, want %v", got.ToQueue, want)
	}
}

func TestResolveCompletionSingles(t *testing.T) {
	a := doublesAssignment(7, 9)

	got := ResolveCompletion(a, models.RotationWinnersStay, models.SideB, 1)
	if want := []int{9}; !equalIDs(got.Stay, want) {
		t.Errorf("stay = %v, want %v", got.Stay, want)
	}
	if want := []int{7}; !equalIDs(got.ToQueue, want) {
		t.Errorf("toQueue = %v, want %v", got.ToQueue, want)
	}
}

// Every occupied slot must land in exactly one of the two partitions.
func TestResolveCompletionPartitionsAllPlayers(t *testing.T) {
	a := doublesAssignment(1, 2, 3, 4, 5, 6, 7, 8)

	for _, rt := range []models.RotationType{
		models.RotationTwoStayFourOff,
		models.RotationWinnersStay,
		models.RotationRotateAll,
		models.RotationType("unknown"),
	} {
		for _, winner := range []models.Side{models.SideA, models.SideB} {
			got := ResolveCompletion(a, rt, winner, 4)

			seen := make(map[int]int)
			for _, id := range got.Stay {
				seen[id]++
			}
			for _, id := range got.ToQueue {
				seen[id]++
			}
			for _, id := range a.PlayerIDs() {
				if seen[id] != 1 {
					t.Errorf("%s/%s: player %d appears %d times", rt, winner, id, seen[id])
				}
			}
			if len(got.Stay)+len(got.ToQueue) != len(a.PlayerIDs()) {
				t.Errorf("%s/%s: partition sizes %d+%d != %d",
					rt, winner, len(got.Stay), len(got.ToQueue), len(a.PlayerIDs()))
			}
		}
	}
}
