package models

import "time"

// Side identifies one of the two fixed sides of a court assignment:
// side A holds slots 1..teamSize, side B holds slots teamSize+1..teamSize*2.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// ParseSide validates a raw winning-side value.
func ParseSide(s string) (Side, bool) {
	switch side := Side(s); side {
	case SideA, SideB:
		return side, true
	}
	return "", false
}

// CourtAssignment binds up to 8 players to one court for one game.
// Player slots are populated left to right with no gaps. EndedAt is nil
// while the game is in progress and is set exactly once when it finishes;
// at most one assignment per (event, court) may be open at a time.
type CourtAssignment struct {
	ID          int        `json:"id" db:"id"`
	EventID     int        `json:"event_id" db:"event_id"`
	CourtNumber int        `json:"court_number" db:"court_number"`
	Player1ID   *int       `json:"player1_id,omitempty" db:"player1_id"`
	Player2ID   *int       `json:"player2_id,omitempty" db:"player2_id"`
	Player3ID   *int       `json:"player3_id,omitempty" db:"player3_id"`
	Player4ID   *int       `json:"player4_id,omitempty" db:"player4_id"`
	Player5ID   *int       `json:"player5_id,omitempty" db:"player5_id"`
	Player6ID   *int       `json:"player6_id,omitempty" db:"player6_id"`
	Player7ID   *int       `json:"player7_id,omitempty" db:"player7_id"`
	Player8ID   *int       `json:"player8_id,omitempty" db:"player8_id"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty" db:"ended_at"`
}

func (a *CourtAssignment) playerSlots() []*int {
	return []*int{
		a.Player1ID, a.Player2ID, a.Player3ID, a.Player4ID,
		a.Player5ID, a.Player6ID, a.Player7ID, a.Player8ID,
	}
}

// PlayerIDs returns the occupied player slots in slot order.
func (a *CourtAssignment) PlayerIDs() []int {
	ids := make([]int, 0, 8)
	for _, p := range a.playerSlots() {
		if p != nil {
			ids = append(ids, *p)
		}
	}
	return ids
}

// SetPlayerIDs fills the player slots left to right from ids, clearing
// any slots beyond len(ids). At most 8 ids are used.
func (a *CourtAssignment) SetPlayerIDs(ids []int) {
	slots := []**int{
		&a.Player1ID, &a.Player2ID, &a.Player3ID, &a.Player4ID,
		&a.Player5ID, &a.Player6ID, &a.Player7ID, &a.Player8ID,
	}
	for i, slot := range slots {
		if i < len(ids) {
			id := ids[i]
			*slot = &id
		} else {
			*slot = nil
		}
	}
}

// SidePlayers returns the player ids on one side of the court given the
// event's team size.
func (a *CourtAssignment) SidePlayers(side Side, teamSize int) []int {
	players := a.PlayerIDs()
	split := teamSize
	if split > len(players) {
		split = len(players)
	}
	if side == SideB {
		return players[split:]
	}
	return players[:split]
}
