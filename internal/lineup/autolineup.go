package lineup

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/PetrH630/hobbyhokej/internal/models"
)

// Strategy selects how an auto-lineup run treats players who already hold a position.
type Strategy int

const (
	// FillUnassigned keeps existing placements and only places players without a position.
	FillUnassigned Strategy = iota
	// Regenerate clears every placement and places all registered players from scratch.
	Regenerate
)

// Candidate is a registered player the generator may place.
type Candidate struct {
	RegistrationID uuid.UUID
	PlayerID       uuid.UUID
	Team           models.Team // empty means "no team yet"
	Position       *models.Position
	QueuedAt       time.Time
	Primary        *models.Position
	Secondary      *models.Position
}

// Assignment is the placement decided for one registration.
type Assignment struct {
	RegistrationID uuid.UUID
	PlayerID       uuid.UUID
	Team           models.Team
	Position       *models.Position
}

// Result lists the placements that changed and the players that could not be placed.
type Result struct {
	Assignments []Assignment
	Unplaced    []uuid.UUID // registration ids, in queue order
}

type occupancy map[models.Team]map[models.Position]int

func (o occupancy) free(table SlotTable, team models.Team, p models.Position) int {
	return table[p] - o[team][p]
}

func (o occupancy) take(team models.Team, p models.Position) {
	if o[team] == nil {
		o[team] = map[models.Position]int{}
	}
	o[team][p]++
}

func (o occupancy) freeTotal(table SlotTable, team models.Team) int {
	total := 0
	for p, n := range table {
		if f := n - o[team][p]; f > 0 {
			total += f
		}
	}
	return total
}

// Generate places candidates into the slot table of mode.
//
// Candidates are processed in queue order (QueuedAt, then registration id). Each
// one gets its primary position if that is free on its team, then its secondary,
// then the first open skater position. Goalie slots are only handed to players who
// prefer goalie. A player without a team joins the team with more free slots, and a
// player whose team is full moves to the other team. Players nothing fits on either
// team are reported in Unplaced and keep no position.
func Generate(mode models.MatchMode, candidates []Candidate, strategy Strategy) Result {
	table := Slots(mode)
	taken := occupancy{}

	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].QueuedAt.Equal(ordered[j].QueuedAt) {
			return ordered[i].QueuedAt.Before(ordered[j].QueuedAt)
		}
		return ordered[i].RegistrationID.String() < ordered[j].RegistrationID.String()
	})

	var pending []Candidate
	for _, c := range ordered {
		if strategy == FillUnassigned && c.Position != nil && c.Team.Valid() && table[*c.Position] > 0 {
			taken.take(c.Team, *c.Position)
			continue
		}
		pending = append(pending, c)
	}

	var res Result
	for _, c := range pending {
		team := c.Team
		if !team.Valid() {
			team = models.TeamLight
			if taken.freeTotal(table, models.TeamDark) > taken.freeTotal(table, models.TeamLight) {
				team = models.TeamDark
			}
		}

		pos, ok := pick(table, taken, team, c)
		if !ok {
			// A full team hands the player over to the other side when it has room.
			if p, found := pick(table, taken, team.Other(), c); found {
				team, pos, ok = team.Other(), p, true
			}
		}
		if !ok {
			res.Unplaced = append(res.Unplaced, c.RegistrationID)
			if c.Position != nil || team != c.Team {
				res.Assignments = append(res.Assignments, Assignment{
					RegistrationID: c.RegistrationID,
					PlayerID:       c.PlayerID,
					Team:           team,
				})
			}
			continue
		}
		taken.take(team, pos)
		if c.Position != nil && *c.Position == pos && c.Team == team {
			continue
		}
		placed := pos
		res.Assignments = append(res.Assignments, Assignment{
			RegistrationID: c.RegistrationID,
			PlayerID:       c.PlayerID,
			Team:           team,
			Position:       &placed,
		})
	}
	return res
}

func pick(table SlotTable, taken occupancy, team models.Team, c Candidate) (models.Position, bool) {
	for _, pref := range []*models.Position{c.Primary, c.Secondary} {
		if pref != nil && taken.free(table, team, *pref) > 0 {
			return *pref, true
		}
	}
	for _, p := range positionOrder {
		if p == models.PositionGoalie {
			continue
		}
		if taken.free(table, team, p) > 0 {
			return p, true
		}
	}
	return "", false
}
