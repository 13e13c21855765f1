// Package lineup holds the capacity model of a match: how many players of each
// position fit on a team for a given mode, how many of those slots are taken,
// and the auto-lineup that places registered players into free slots.
//
// Everything in this package is pure. Callers load registrations, hand them in
// as Entry or Candidate values, and persist whatever comes back.
package lineup

import "github.com/PetrH630/hobbyhokej/internal/models"

// positionOrder is the display and fallback order of positions on a team.
var positionOrder = []models.Position{
	models.PositionGoalie,
	models.PositionDefense,
	models.PositionForward,
}

type modeSpec struct {
	skaters int
	goalie  bool
}

var modes = map[models.MatchMode]modeSpec{
	models.MatchModeThreeOnThreeNoGoalie:   {skaters: 3, goalie: false},
	models.MatchModeThreeOnThreeWithGoalie: {skaters: 3, goalie: true},
	models.MatchModeFourOnFourNoGoalie:     {skaters: 4, goalie: false},
	models.MatchModeFourOnFourWithGoalie:   {skaters: 4, goalie: true},
	models.MatchModeFiveOnFiveNoGoalie:     {skaters: 5, goalie: false},
	models.MatchModeFiveOnFiveWithGoalie:   {skaters: 5, goalie: true},
}

// SlotTable maps a position to the number of players of that position one team can field.
type SlotTable map[models.Position]int

// ValidMode reports whether mode is a known match mode.
func ValidMode(mode models.MatchMode) bool {
	_, ok := modes[mode]
	return ok
}

// Slots returns the per-team slot table for mode. Unknown modes yield an empty table.
//
// Skater slots split into defense and forwards: three skaters play 1+2,
// four play 2+2 and five play 2+3. Goalie modes add one goalie per team.
func Slots(mode models.MatchMode) SlotTable {
	spec, ok := modes[mode]
	if !ok {
		return SlotTable{}
	}
	defense := 2
	if spec.skaters <= 3 {
		defense = 1
	}
	table := SlotTable{
		models.PositionDefense: defense,
		models.PositionForward: spec.skaters - defense,
	}
	if spec.goalie {
		table[models.PositionGoalie] = 1
	}
	return table
}

// Positions returns the positions that have at least one slot in mode, in display order.
func Positions(mode models.MatchMode) []models.Position {
	table := Slots(mode)
	out := make([]models.Position, 0, len(table))
	for _, p := range positionOrder {
		if table[p] > 0 {
			out = append(out, p)
		}
	}
	return out
}

// TeamCapacity is the number of players one team fields in mode.
func TeamCapacity(mode models.MatchMode) int {
	total := 0
	for _, n := range Slots(mode) {
		total += n
	}
	return total
}

// DefaultMaxPlayers is the match capacity implied by mode: both teams fully staffed.
func DefaultMaxPlayers(mode models.MatchMode) int {
	return 2 * TeamCapacity(mode)
}
