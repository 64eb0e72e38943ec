package rotation

import (
	"github.com/mikesz88/ghostMammothsPB-sub000/models"
)

// Completion partitions the players of a finished game: Stay remain on the
// court for the next game, ToQueue go to the back of the waiting list.
// Every occupied slot of the assignment lands in exactly one of the two.
type Completion struct {
	Stay    []int
	ToQueue []int
}

// ResolveCompletion classifies the players of a finished assignment under
// the event's rotation policy. Side A is slots 1..teamSize, side B the
// rest. The function only classifies; closing the assignment, re-queueing
// players and refilling the court are the caller's job.
//
// 2-stay-4-off and winners-stay currently compute the same result: the
// whole winning side stays. An unknown policy sends everyone back to the
// queue.
func ResolveCompletion(a *models.CourtAssignment, rt models.RotationType, winner models.Side, teamSize int) Completion {
	switch rt {
	case models.RotationTwoStayFourOff, models.RotationWinnersStay:
		loser := models.SideB
		if winner == models.SideB {
			loser = models.SideA
		}
		return Completion{
			Stay:    a.SidePlayers(winner, teamSize),
			ToQueue: a.SidePlayers(loser, teamSize),
		}
	case models.RotationRotateAll:
		return Completion{ToQueue: a.PlayerIDs()}
	default:
		// Fail safe: everyone rotates off.
		return Completion{ToQueue: a.PlayerIDs()}
	}
}
