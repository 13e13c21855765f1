package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PetrH630/hobbyhokej/internal/live"
	"github.com/PetrH630/hobbyhokej/internal/middleware"
	"github.com/PetrH630/hobbyhokej/internal/models"
	"github.com/PetrH630/hobbyhokej/internal/notify"
)

// Deps are the services behind the authenticated API.
type Deps struct {
	Registrations Registrations
	Settings      SettingsStore
	Inbox         Inbox
	Decider       Decider
	Hub           *live.Hub
	Demo          *notify.DemoStore // nil outside demo mode
}

// Mount registers every /api/v1 route on api, which must already run middleware.Auth.
func Mount(api fiber.Router, d Deps) {
	staff := middleware.RequireRole(models.UserRoleAdmin, models.UserRoleManager)
	admin := middleware.RequireRole(models.UserRoleAdmin)

	// Registrations
	// POST /matches/:matchID/registrations                 register, excuse or unregister a player
	// GET  /matches/:matchID/registrations                 roster in queue order
	// GET  /matches/:matchID/players/:playerID/status      one player's status (NO_RESPONSE if none)
	// GET  /matches/:matchID/history                       audit trail (staff)
	// POST /matches/:matchID/players/:playerID/no-excused  unexcused absence (admin)
	m := api.Group("/matches/:matchID")
	m.Post("/registrations", UpsertRegistration(d.Registrations))
	m.Get("/registrations", ListRegistrations(d.Registrations))
	m.Get("/players/:playerID/status", RegistrationStatus(d.Registrations))
	m.Get("/history", staff, RegistrationHistory(d.Registrations))
	m.Post("/players/:playerID/no-excused", admin, MarkNoExcused(d.Registrations))

	// Lineup
	m.Get("/overview", MatchOverview(d.Registrations))
	m.Get("/teams/:team", TeamOverview(d.Registrations))
	m.Post("/lineup", staff, GenerateLineup(d.Registrations))
	m.Put("/players/:playerID/placement", staff, PlacePlayer(d.Registrations))

	// Match state
	m.Post("/cancel", admin, CancelMatch(d.Registrations))
	m.Post("/uncancel", admin, UncancelMatch(d.Registrations))
	m.Put("/capacity", admin, SetCapacity(d.Registrations))

	// Settings
	api.Get("/settings/account", GetAccountSettings(d.Settings))
	api.Patch("/settings/account", PatchAccountSettings(d.Settings))
	api.Get("/players/:playerID/settings", GetPlayerSettings(d.Registrations, d.Settings))
	api.Patch("/players/:playerID/settings", PatchPlayerSettings(d.Registrations, d.Settings))
	api.Get("/players/:playerID/notification-decision", NotificationDecision(d.Registrations, d.Decider))

	// Inbox
	api.Get("/notifications", ListNotifications(d.Inbox))
	api.Get("/notifications/stream", NotificationStream(d.Hub))
	api.Post("/notifications/read-all", MarkAllNotificationsRead(d.Inbox))
	api.Post("/notifications/:notificationID/read", MarkNotificationRead(d.Inbox))

	api.Get("/demo/notifications", admin, DrainDemoNotifications(d.Demo))
}
