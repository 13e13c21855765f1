package lineup

import (
	"github.com/google/uuid"

	"github.com/PetrH630/hobbyhokej/internal/models"
)

// Entry is the slice of a registration the allocator needs.
type Entry struct {
	PlayerID uuid.UUID
	Status   models.RegistrationStatus
	Team     models.Team
	Position *models.Position
}

// PositionSlot describes one position row of a team.
type PositionSlot struct {
	Position models.Position `json:"position"`
	Capacity int             `json:"capacity"`
	Occupied int             `json:"occupied"`
	Free     int             `json:"free"`
}

// TeamOverview is the occupancy of one team.
type TeamOverview struct {
	Team       models.Team    `json:"team"`
	Capacity   int            `json:"capacity"`
	Players    int            `json:"players"`    // every counted player on the team, placed or not
	Unassigned int            `json:"unassigned"` // counted players without a position
	Positions  []PositionSlot `json:"positions"`
}

// Free returns the free slots for p on this team, zero when p is unknown or full.
func (t TeamOverview) Free(p models.Position) int {
	for _, row := range t.Positions {
		if row.Position == p {
			return row.Free
		}
	}
	return 0
}

// FreeTotal returns the sum of free position slots on the team.
func (t TeamOverview) FreeTotal() int {
	total := 0
	for _, row := range t.Positions {
		total += row.Free
	}
	return total
}

// MatchOverview is the occupancy of a whole match.
type MatchOverview struct {
	Mode       models.MatchMode `json:"mode"`
	MaxPlayers int              `json:"max_players"`
	Registered int              `json:"registered"`
	Reserve    int              `json:"reserve"`
	FreeSpots  int              `json:"free_spots"` // maxPlayers minus registered, never negative
	Teams      []TeamOverview   `json:"teams"`
}

// Team returns the overview of team t.
func (m MatchOverview) Team(t models.Team) TeamOverview {
	for _, team := range m.Teams {
		if team.Team == t {
			return team
		}
	}
	return TeamOverview{Team: t}
}

// counts reports whether an entry is counted in the view.
func counts(e Entry, includeReserve bool) bool {
	switch e.Status {
	case models.RegistrationStatusRegistered:
		return true
	case models.RegistrationStatusReserve:
		return includeReserve
	}
	return false
}

// TeamView computes the overview of a single team. When includeReserve is set,
// RESERVE registrations holding a position are counted as well.
func TeamView(mode models.MatchMode, team models.Team, entries []Entry, includeReserve bool) TeamOverview {
	table := Slots(mode)
	occupied := make(map[models.Position]int, len(table))
	view := TeamOverview{Team: team, Capacity: TeamCapacity(mode)}

	for _, e := range entries {
		if e.Team != team || !counts(e, includeReserve) {
			continue
		}
		view.Players++
		if e.Position == nil || table[*e.Position] == 0 {
			view.Unassigned++
			continue
		}
		occupied[*e.Position]++
	}

	for _, p := range Positions(mode) {
		free := table[p] - occupied[p]
		if free < 0 {
			free = 0
		}
		view.Positions = append(view.Positions, PositionSlot{
			Position: p,
			Capacity: table[p],
			Occupied: occupied[p],
			Free:     free,
		})
	}
	return view
}

// Overview computes both teams plus the match-wide counters.
func Overview(mode models.MatchMode, maxPlayers int, entries []Entry, includeReserve bool) MatchOverview {
	out := MatchOverview{Mode: mode, MaxPlayers: maxPlayers}
	for _, e := range entries {
		switch e.Status {
		case models.RegistrationStatusRegistered:
			out.Registered++
		case models.RegistrationStatusReserve:
			out.Reserve++
		}
	}
	if free := maxPlayers - out.Registered; free > 0 {
		out.FreeSpots = free
	}
	for _, t := range models.Teams {
		out.Teams = append(out.Teams, TeamView(mode, t, entries, includeReserve))
	}
	return out
}

// HasFreeSlot reports whether position p still has room on team for registered players.
func HasFreeSlot(mode models.MatchMode, entries []Entry, team models.Team, p models.Position) bool {
	return TeamView(mode, team, entries, false).Free(p) > 0
}

// BalancedTeam picks the team a newly registered player should join: the one with
// fewer registered players, LIGHT on ties.
func BalancedTeam(entries []Entry) models.Team {
	return BalancedTeamFor(entries, models.TeamLight)
}

// BalancedTeamFor is BalancedTeam with a preferred side: current is kept unless the
// other team has fewer registered players. It is used when a waitlisted player is
// promoted, since the team they queued on may have emptied out in the meantime.
func BalancedTeamFor(entries []Entry, current models.Team) models.Team {
	if !current.Valid() {
		current = models.TeamLight
	}
	counts := map[models.Team]int{}
	for _, e := range entries {
		if e.Status != models.RegistrationStatusRegistered {
			continue
		}
		counts[e.Team]++
	}
	if other := current.Other(); counts[other] < counts[current] {
		return other
	}
	return current
}
