// Package handlers contains HTTP route handler functions for the HobbyHokej API.
// This file handles the match registration routes: the player-facing upsert, the
// roster and status reads, and the admin-only no-show mark and audit trail.
//
// Each exported function follows the "handler factory" pattern: it takes its
// dependencies and returns a fiber.Handler, so nothing is held in globals.
//
// --- Permission model ---
//  1. Route-level (middleware.RequireRole) decides who may call a route at all.
//  2. Resource-level (authorizePlayer below): a regular user may only act for players
//     linked to their own account; admins and managers may act for anyone.
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/PetrH630/hobbyhokej/internal/lineup"
	"github.com/PetrH630/hobbyhokej/internal/middleware"
	"github.com/PetrH630/hobbyhokej/internal/models"
	"github.com/PetrH630/hobbyhokej/internal/registration"
)

// Registrations is the part of registration.Service the HTTP layer uses.
type Registrations interface {
	Upsert(ctx context.Context, req registration.UpsertRequest) (registration.Outcome, error)
	MarkNoExcused(ctx context.Context, req registration.NoExcusedRequest) (registration.Outcome, error)
	Place(ctx context.Context, req registration.PlaceRequest) (models.Registration, error)
	GenerateLineup(ctx context.Context, matchID uuid.UUID, strategy lineup.Strategy, actorID *uuid.UUID) (lineup.Result, error)
	CancelMatch(ctx context.Context, matchID uuid.UUID, reason *string) (models.Match, error)
	UncancelMatch(ctx context.Context, matchID uuid.UUID) (models.Match, error)
	SetCapacity(ctx context.Context, matchID uuid.UUID, maxPlayers int) (models.Match, []models.Registration, error)
	StatusOf(ctx context.Context, matchID, playerID uuid.UUID) (models.RegistrationStatus, error)
	List(ctx context.Context, matchID uuid.UUID) ([]models.Registration, error)
	History(ctx context.Context, matchID uuid.UUID) ([]models.RegistrationHistory, error)
	Player(ctx context.Context, playerID uuid.UUID) (*models.Player, error)
	Overview(ctx context.Context, matchID uuid.UUID, includeReserve bool) (lineup.MatchOverview, error)
	TeamOverview(ctx context.Context, matchID uuid.UUID, team models.Team, includeReserve bool) (lineup.TeamOverview, error)
}

// RegistrationResponse is the JSON shape of one registration row.
type RegistrationResponse struct {
	ID           string  `json:"id"`
	MatchID      string  `json:"match_id"`
	PlayerID     string  `json:"player_id"`
	PlayerName   string  `json:"player_name,omitempty"`
	Status       string  `json:"status"`
	Team         string  `json:"team"`
	Position     *string `json:"position"`      // null until the player is placed
	ExcuseReason *string `json:"excuse_reason"` // set while EXCUSED
	ExcuseNote   *string `json:"excuse_note"`
	AdminNote    *string `json:"admin_note"`
	Origin       string  `json:"origin"`   // "user", "admin" or "system"
	QueuedAt     string  `json:"queued_at"` // RFC 3339, orders the waitlist
}

func registrationResponse(r models.Registration) RegistrationResponse {
	out := RegistrationResponse{
		ID:           r.ID.String(),
		MatchID:      r.MatchID.String(),
		PlayerID:     r.PlayerID.String(),
		Status:       string(r.Status),
		Team:         string(r.Team),
		ExcuseReason: r.ExcuseReason,
		ExcuseNote:   r.ExcuseNote,
		AdminNote:    r.AdminNote,
		Origin:       string(r.Origin),
		QueuedAt:     r.QueuedAt.UTC().Format(time.RFC3339),
	}
	if r.Player != nil {
		out.PlayerName = r.Player.FullName()
	}
	if r.Position != nil {
		p := string(*r.Position)
		out.Position = &p
	}
	return out
}

// OutcomeResponse is returned by every registration change.
type OutcomeResponse struct {
	Registration RegistrationResponse  `json:"registration"`
	Promoted     *RegistrationResponse `json:"promoted,omitempty"` // the reserve that took the freed slot
}

func outcomeResponse(o registration.Outcome) OutcomeResponse {
	out := OutcomeResponse{Registration: registrationResponse(o.Registration)}
	if o.Promoted != nil {
		p := registrationResponse(*o.Promoted)
		out.Promoted = &p
	}
	return out
}

// UpsertRegistrationRequest is the body of POST /matches/:matchID/registrations.
// Exactly one intent applies: unregister, excuse (non-blank excuse_reason), or play.
type UpsertRegistrationRequest struct {
	PlayerID     string  `json:"player_id" validate:"required,uuid"`
	Team         *string `json:"team" validate:"omitempty,oneof=LIGHT DARK"`                 // omitted keeps or balances
	Position     *string `json:"position" validate:"omitempty,oneof=GOALIE DEFENSE FORWARD"` // a wish, checked against free slots
	ExcuseReason *string `json:"excuse_reason" validate:"omitempty,max=200"`
	ExcuseNote   *string `json:"excuse_note" validate:"omitempty,max=1000"`
	Unregister   bool    `json:"unregister"`
}

// privileged reports whether the caller may act for any player.
func privileged(c *fiber.Ctx) bool {
	role := middleware.Role(c)
	return role == models.UserRoleAdmin || role == models.UserRoleManager
}

// authorizePlayer loads playerID and checks the caller may act for it. It returns the
// caller's account id alongside the player.
func authorizePlayer(c *fiber.Ctx, regs Registrations, playerID uuid.UUID) (*models.Player, uuid.UUID, error) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		return nil, uuid.Nil, errForbidden
	}
	player, err := regs.Player(c.UserContext(), playerID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if privileged(c) {
		return player, callerID, nil
	}
	if player.UserID == nil || *player.UserID != callerID {
		return nil, uuid.Nil, fmt.Errorf("%w: player belongs to another account", errForbidden)
	}
	return player, callerID, nil
}

// UpsertRegistration handles POST /api/v1/matches/:matchID/registrations.
func UpsertRegistration(regs Registrations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramUUID(c, "matchID")
		if err != nil {
			return respondError(c, err)
		}
		var body UpsertRegistrationRequest
		if err := bindBody(c, &body); err != nil {
			return respondError(c, err)
		}
		// The uuid tag has already vetted the format.
		playerID := uuid.MustParse(body.PlayerID)
		player, callerID, err := authorizePlayer(c, regs, playerID)
		if err != nil {
			return respondError(c, err)
		}

		req := registration.UpsertRequest{
			MatchID:      matchID,
			PlayerID:     player.ID,
			ExcuseReason: body.ExcuseReason,
			ExcuseNote:   body.ExcuseNote,
			Unregister:   body.Unregister,
			ActorID:      &callerID,
			Origin:       models.OriginUser,
		}
		// Acting for somebody else's player is an admin action.
		if player.UserID == nil || *player.UserID != callerID {
			req.Origin = models.OriginAdmin
		}
		if body.Team != nil {
			t := models.Team(*body.Team)
			req.Team = &t
		}
		if body.Position != nil {
			p := models.Position(*body.Position)
			req.Position = &p
		}

		out, err := regs.Upsert(c.UserContext(), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(outcomeResponse(out))
	}
}

// ListRegistrations handles GET /api/v1/matches/:matchID/registrations.
func ListRegistrations(regs Registrations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramUUID(c, "matchID")
		if err != nil {
			return respondError(c, err)
		}
		rows, err := regs.List(c.UserContext(), matchID)
		if err != nil {
			return respondError(c, err)
		}
		out := make([]RegistrationResponse, 0, len(rows))
		for _, r := range rows {
			out = append(out, registrationResponse(r))
		}
		return c.JSON(out)
	}
}

// RegistrationStatus handles GET /api/v1/matches/:matchID/players/:playerID/status.
// A player who never answered reports NO_RESPONSE.
func RegistrationStatus(regs Registrations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramUUID(c, "matchID")
		if err != nil {
			return respondError(c, err)
		}
		playerID, err := paramUUID(c, "playerID")
		if err != nil {
			return respondError(c, err)
		}
		status, err := regs.StatusOf(c.UserContext(), matchID, playerID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"match_id":  matchID.String(),
			"player_id": playerID.String(),
			"status":    status,
		})
	}
}

// HistoryResponse is one audit row.
type HistoryResponse struct {
	ID             string  `json:"id"`
	RegistrationID string  `json:"registration_id"`
	PlayerID       string  `json:"player_id"`
	Action         string  `json:"action"`
	PreviousStatus *string `json:"previous_status"`
	NewStatus      string  `json:"new_status"`
	Team           string  `json:"team"`
	Position       *string `json:"position"`
	ActorID        *string `json:"actor_id"`
	Origin         string  `json:"origin"`
	CreatedAt      string  `json:"created_at"`
}

// RegistrationHistory handles GET /api/v1/matches/:matchID/history (admin and manager).
func RegistrationHistory(regs Registrations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramUUID(c, "matchID")
		if err != nil {
			return respondError(c, err)
		}
		rows, err := regs.History(c.UserContext(), matchID)
		if err != nil {
			return respondError(c, err)
		}
		out := make([]HistoryResponse, 0, len(rows))
		for _, h := range rows {
			item := HistoryResponse{
				ID:             h.ID.String(),
				RegistrationID: h.RegistrationID.String(),
				PlayerID:       h.PlayerID.String(),
				Action:         h.Action,
				NewStatus:      string(h.NewStatus),
				Team:           string(h.Team),
				Origin:         string(h.Origin),
				CreatedAt:      h.CreatedAt.UTC().Format(time.RFC3339),
			}
			if h.PreviousStatus != nil {
				s := string(*h.PreviousStatus)
				item.PreviousStatus = &s
			}
			if h.Position != nil {
				p := string(*h.Position)
				item.Position = &p
			}
			if h.ActorID != nil {
				a := h.ActorID.String()
				item.ActorID = &a
			}
			out = append(out, item)
		}
		return c.JSON(out)
	}
}

// MarkNoExcused handles POST /api/v1/matches/:matchID/players/:playerID/no-excused (admin only).
func MarkNoExcused(regs Registrations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramUUID(c, "matchID")
		if err != nil {
			return respondError(c, err)
		}
		playerID, err := paramUUID(c, "playerID")
		if err != nil {
			return respondError(c, err)
		}
		var body struct {
			AdminNote *string `json:"admin_note" validate:"omitempty,max=1000"`
		}
		if len(c.Body()) > 0 {
			if err := bindBody(c, &body); err != nil {
				return respondError(c, err)
			}
		}
		callerID, _ := middleware.UserID(c)
		out, err := regs.MarkNoExcused(c.UserContext(), registration.NoExcusedRequest{
			MatchID:   matchID,
			PlayerID:  playerID,
			AdminNote: body.AdminNote,
			ActorID:   &callerID,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(outcomeResponse(out))
	}
}
