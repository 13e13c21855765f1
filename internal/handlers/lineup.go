package handlers

// lineup.go: team occupancy, manual placement and the auto-lineup.

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/PetrH630/hobbyhokej/internal/lineup"
	"github.com/PetrH630/hobbyhokej/internal/middleware"
	"github.com/PetrH630/hobbyhokej/internal/models"
	"github.com/PetrH630/hobbyhokej/internal/registration"
)

// MatchOverview handles GET /api/v1/matches/:matchID/overview?include_reserve=true.
func MatchOverview(regs Registrations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramUUID(c, "matchID")
		if err != nil {
			return respondError(c, err)
		}
		ov, err := regs.Overview(c.UserContext(), matchID, c.QueryBool("include_reserve", false))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(ov)
	}
}

// TeamOverview handles GET /api/v1/matches/:matchID/teams/:team.
func TeamOverview(regs Registrations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramUUID(c, "matchID")
		if err != nil {
			return respondError(c, err)
		}
		team := models.Team(strings.ToUpper(c.Params("team")))
		ov, err := regs.TeamOverview(c.UserContext(), matchID, team, c.QueryBool("include_reserve", false))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(ov)
	}
}

// LineupResponse reports what the auto-lineup changed.
type LineupResponse struct {
	Placed   int      `json:"placed"`
	Unplaced []string `json:"unplaced"` // registration ids nothing fitted
}

// GenerateLineup handles POST /api/v1/matches/:matchID/lineup (admin and manager).
// By default only unplaced players are filled in; ?regenerate=true rebuilds every placement.
func GenerateLineup(regs Registrations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramUUID(c, "matchID")
		if err != nil {
			return respondError(c, err)
		}
		strategy := lineup.FillUnassigned
		if c.QueryBool("regenerate", false) {
			strategy = lineup.Regenerate
		}
		callerID, _ := middleware.UserID(c)
		res, err := regs.GenerateLineup(c.UserContext(), matchID, strategy, &callerID)
		if err != nil {
			return respondError(c, err)
		}
		out := LineupResponse{Placed: len(res.Assignments), Unplaced: make([]string, 0, len(res.Unplaced))}
		for _, id := range res.Unplaced {
			out.Unplaced = append(out.Unplaced, id.String())
		}
		return c.JSON(out)
	}
}

// PlacementRequest is the body of PUT /matches/:matchID/players/:playerID/placement.
type PlacementRequest struct {
	Team     string  `json:"team" validate:"required,oneof=LIGHT DARK"`
	Position *string `json:"position" validate:"omitempty,oneof=GOALIE DEFENSE FORWARD"` // null leaves the player on the bench of that team
}

// PlacePlayer handles PUT /api/v1/matches/:matchID/players/:playerID/placement (admin and manager).
func PlacePlayer(regs Registrations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramUUID(c, "matchID")
		if err != nil {
			return respondError(c, err)
		}
		playerID, err := paramUUID(c, "playerID")
		if err != nil {
			return respondError(c, err)
		}
		var body PlacementRequest
		if err := bindBody(c, &body); err != nil {
			return respondError(c, err)
		}
		req := registration.PlaceRequest{
			MatchID:  matchID,
			PlayerID: playerID,
			Team:     models.Team(body.Team),
		}
		if body.Position != nil {
			p := models.Position(*body.Position)
			req.Position = &p
		}
		if callerID, ok := middleware.UserID(c); ok {
			req.ActorID = &callerID
		}
		reg, err := regs.Place(c.UserContext(), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(registrationResponse(reg))
	}
}
