package handlers

// matches.go: admin-only match state changes: cancel, uncancel and capacity.

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/PetrH630/hobbyhokej/internal/models"
)

// MatchResponse is the JSON shape of a match after a state change.
type MatchResponse struct {
	ID           string  `json:"id"`
	StartsAt     string  `json:"starts_at"`
	Location     string  `json:"location"`
	MaxPlayers   int     `json:"max_players"`
	Mode         string  `json:"mode"`
	Status       string  `json:"status"` // "scheduled" or "cancelled"
	CancelReason *string `json:"cancel_reason"`
}

func matchResponse(m models.Match) MatchResponse {
	return MatchResponse{
		ID:           m.ID.String(),
		StartsAt:     m.StartsAt.UTC().Format(time.RFC3339),
		Location:     m.Location,
		MaxPlayers:   m.MaxPlayers,
		Mode:         string(m.Mode),
		Status:       string(m.Status),
		CancelReason: m.CancelReason,
	}
}

// CancelMatch handles POST /api/v1/matches/:matchID/cancel with an optional {"reason": "..."}.
func CancelMatch(regs Registrations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramUUID(c, "matchID")
		if err != nil {
			return respondError(c, err)
		}
		var body struct {
			Reason *string `json:"reason" validate:"omitempty,max=500"`
		}
		if len(c.Body()) > 0 {
			if err := bindBody(c, &body); err != nil {
				return respondError(c, err)
			}
		}
		m, err := regs.CancelMatch(c.UserContext(), matchID, body.Reason)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(matchResponse(m))
	}
}

// UncancelMatch handles POST /api/v1/matches/:matchID/uncancel.
func UncancelMatch(regs Registrations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramUUID(c, "matchID")
		if err != nil {
			return respondError(c, err)
		}
		m, err := regs.UncancelMatch(c.UserContext(), matchID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(matchResponse(m))
	}
}

// SetCapacity handles PUT /api/v1/matches/:matchID/capacity with {"max_players": n}.
// Reserves promoted into new slots are returned alongside the match.
func SetCapacity(regs Registrations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramUUID(c, "matchID")
		if err != nil {
			return respondError(c, err)
		}
		var body struct {
			MaxPlayers int `json:"max_players" validate:"min=1,max=100"`
		}
		if err := bindBody(c, &body); err != nil {
			return respondError(c, err)
		}
		m, promoted, err := regs.SetCapacity(c.UserContext(), matchID, body.MaxPlayers)
		if err != nil {
			return respondError(c, err)
		}
		out := make([]RegistrationResponse, 0, len(promoted))
		for _, r := range promoted {
			out = append(out, registrationResponse(r))
		}
		return c.JSON(fiber.Map{
			"match":    matchResponse(m),
			"promoted": out,
		})
	}
}
