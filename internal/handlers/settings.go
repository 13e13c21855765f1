package handlers

// settings.go: notification preferences of the account and of each player.

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/PetrH630/hobbyhokej/internal/middleware"
	"github.com/PetrH630/hobbyhokej/internal/models"
	"github.com/PetrH630/hobbyhokej/internal/settings"
)

// SettingsStore is implemented by settings.Store.
type SettingsStore interface {
	Account(ctx context.Context, userID uuid.UUID) (models.AccountSettings, error)
	UpdateAccount(ctx context.Context, userID uuid.UUID, patch settings.AccountPatch) (models.AccountSettings, error)
	Player(ctx context.Context, playerID uuid.UUID) (models.PlayerSettings, error)
	UpdatePlayer(ctx context.Context, playerID uuid.UUID, patch settings.PlayerPatch) (models.PlayerSettings, error)
}

// AccountSettingsResponse mirrors settings.AccountPatch with every field present.
type AccountSettingsResponse struct {
	NotificationLevel          string `json:"notification_level"`
	CopyAllPlayerNotifications bool   `json:"copy_all_player_notifications"`
	NotifyEvenIfPlayerHasEmail bool   `json:"notify_even_if_player_has_email"`
}

func accountSettingsResponse(s models.AccountSettings) AccountSettingsResponse {
	return AccountSettingsResponse{
		NotificationLevel:          string(s.NotificationLevel),
		CopyAllPlayerNotifications: s.CopyAllPlayerNotifications,
		NotifyEvenIfPlayerHasEmail: s.NotifyEvenIfPlayerHasEmail,
	}
}

// PlayerSettingsResponse mirrors settings.PlayerPatch with every field present.
type PlayerSettingsResponse struct {
	PlayerID             string  `json:"player_id"`
	ContactEmail         *string `json:"contact_email"`
	ContactPhone         *string `json:"contact_phone"`
	EmailEnabled         bool    `json:"email_enabled"`
	SMSEnabled           bool    `json:"sms_enabled"`
	NotifyOnRegistration bool    `json:"notify_on_registration"`
	NotifyOnExcuse       bool    `json:"notify_on_excuse"`
	NotifyOnMatchInfo    bool    `json:"notify_on_match_info"`
	RemindersEnabled     bool    `json:"reminders_enabled"`
	ReminderHoursBefore  int     `json:"reminder_hours_before"`
}

func playerSettingsResponse(s models.PlayerSettings) PlayerSettingsResponse {
	return PlayerSettingsResponse{
		PlayerID:             s.PlayerID.String(),
		ContactEmail:         s.ContactEmail,
		ContactPhone:         s.ContactPhone,
		EmailEnabled:         s.EmailEnabled,
		SMSEnabled:           s.SMSEnabled,
		NotifyOnRegistration: s.NotifyOnRegistration,
		NotifyOnExcuse:       s.NotifyOnExcuse,
		NotifyOnMatchInfo:    s.NotifyOnMatchInfo,
		RemindersEnabled:     s.RemindersEnabled,
		ReminderHoursBefore:  s.ReminderHoursBefore,
	}
}

// GetAccountSettings handles GET /api/v1/settings/account.
func GetAccountSettings(store SettingsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return respondError(c, errForbidden)
		}
		s, err := store.Account(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(accountSettingsResponse(s))
	}
}

// PatchAccountSettings handles PATCH /api/v1/settings/account.
func PatchAccountSettings(store SettingsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return respondError(c, errForbidden)
		}
		var patch settings.AccountPatch
		if err := parseBody(c, &patch); err != nil {
			return respondError(c, err)
		}
		s, err := store.UpdateAccount(c.UserContext(), userID, patch)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(accountSettingsResponse(s))
	}
}

// GetPlayerSettings handles GET /api/v1/players/:playerID/settings.
func GetPlayerSettings(regs Registrations, store SettingsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerID, err := paramUUID(c, "playerID")
		if err != nil {
			return respondError(c, err)
		}
		if _, _, err := authorizePlayer(c, regs, playerID); err != nil {
			return respondError(c, err)
		}
		s, err := store.Player(c.UserContext(), playerID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(playerSettingsResponse(s))
	}
}

// PatchPlayerSettings handles PATCH /api/v1/players/:playerID/settings.
func PatchPlayerSettings(regs Registrations, store SettingsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerID, err := paramUUID(c, "playerID")
		if err != nil {
			return respondError(c, err)
		}
		if _, _, err := authorizePlayer(c, regs, playerID); err != nil {
			return respondError(c, err)
		}
		var patch settings.PlayerPatch
		if err := parseBody(c, &patch); err != nil {
			return respondError(c, err)
		}
		s, err := store.UpdatePlayer(c.UserContext(), playerID, patch)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(playerSettingsResponse(s))
	}
}
