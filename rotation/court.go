package rotation

import (
	"github.com/mikesz88/ghostMammothsPB-sub000/models"
)

// FindAvailableCourt returns the lowest court number in 1..courtCount with
// no open assignment, so freed courts are reused lowest-first. The boolean
// is false when every court is occupied.
func FindAvailableCourt(courtCount int, assignments []*models.CourtAssignment) (int, bool) {
	occupied := make(map[int]bool, len(assignments))
	for _, a := range assignments {
		if a.EndedAt == nil {
			occupied[a.CourtNumber] = true
		}
	}
	for n := 1; n <= courtCount; n++ {
		if !occupied[n] {
			return n, true
		}
	}
	return 0, false
}
