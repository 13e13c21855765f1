package notify

import (
	"strings"

	"github.com/PetrH630/hobbyhokej/internal/models"
)

// Recipient bundles everything the resolver needs about one player.
// Account and the two settings layers are optional.
type Recipient struct {
	Player          models.Player
	Account         *models.User
	PlayerSettings  *models.PlayerSettings
	AccountSettings *models.AccountSettings
}

// Decision says which channels fire for one event and where they go.
type Decision struct {
	SendEmailToUser   bool   `json:"send_email_to_user"`
	SendEmailToPlayer bool   `json:"send_email_to_player"`
	SendSMSToPlayer   bool   `json:"send_sms_to_player"`
	UserEmail         string `json:"user_email,omitempty"`
	PlayerEmail       string `json:"player_email,omitempty"`
	PlayerPhone       string `json:"player_phone,omitempty"`
	// SendInApp adds an inbox entry for the linked account. It is not an outbound channel.
	SendInApp bool `json:"send_in_app"`
}

// Any reports whether at least one outbound channel fires.
func (d Decision) Any() bool {
	return d.SendEmailToUser || d.SendEmailToPlayer || d.SendSMSToPlayer
}

// DefaultPlayerSettings are used when a player has no settings row yet.
func DefaultPlayerSettings() models.PlayerSettings {
	return models.PlayerSettings{
		EmailEnabled:         true,
		SMSEnabled:           true,
		NotifyOnRegistration: true,
		NotifyOnExcuse:       true,
		NotifyOnMatchInfo:    true,
		RemindersEnabled:     true,
		ReminderHoursBefore:  24,
	}
}

// DefaultAccountSettings are used when an account has no settings row yet.
func DefaultAccountSettings() models.AccountSettings {
	return models.AccountSettings{
		NotificationLevel:          models.NotificationLevelAll,
		CopyAllPlayerNotifications: true,
		NotifyEvenIfPlayerHasEmail: false,
	}
}

// Evaluate decides the channels for event type t and recipient r. It never sends anything.
func Evaluate(r Recipient, t EventType) Decision {
	ps := DefaultPlayerSettings()
	if r.PlayerSettings != nil {
		ps = *r.PlayerSettings
	}
	as := DefaultAccountSettings()
	if r.AccountSettings != nil {
		as = *r.AccountSettings
	}

	var d Decision
	ownEmail := trimmed(ps.ContactEmail)
	if r.Account != nil {
		d.UserEmail = strings.TrimSpace(r.Account.Email)
	}
	d.PlayerEmail = ownEmail
	if d.PlayerEmail == "" {
		d.PlayerEmail = d.UserEmail
	}
	d.PlayerPhone = trimmed(ps.ContactPhone)
	if d.PlayerPhone == "" {
		d.PlayerPhone = trimmed(r.Player.Phone)
	}

	category := CategoryOf(t)
	switch category {
	case CategorySystem:
		d.SendEmailToUser = d.UserEmail != "" && levelAllows(as.NotificationLevel, t)
		d.SendInApp = r.Account != nil && levelAllows(as.NotificationLevel, t)
		return d
	case CategoryRegistration, CategoryExcuse, CategoryMatchInfo:
	default:
		return Decision{UserEmail: d.UserEmail, PlayerEmail: d.PlayerEmail, PlayerPhone: d.PlayerPhone}
	}

	categoryOn := categoryEnabled(ps, category)
	d.SendEmailToPlayer = ps.EmailEnabled && categoryOn && d.PlayerEmail != ""
	d.SendSMSToPlayer = ps.SMSEnabled && categoryOn && d.PlayerPhone != ""

	distinctOwnEmail := ownEmail != "" && !strings.EqualFold(ownEmail, d.UserEmail)
	d.SendEmailToUser = d.UserEmail != "" &&
		levelAllows(as.NotificationLevel, t) &&
		as.CopyAllPlayerNotifications &&
		(!distinctOwnEmail || as.NotifyEvenIfPlayerHasEmail)
	d.SendInApp = r.Account != nil && levelAllows(as.NotificationLevel, t)
	return d
}

func levelAllows(level models.NotificationLevel, t EventType) bool {
	switch level {
	case models.NotificationLevelAll:
		return true
	case models.NotificationLevelImportantOnly:
		return Important(t)
	}
	return false
}

func categoryEnabled(ps models.PlayerSettings, c Category) bool {
	switch c {
	case CategoryRegistration:
		return ps.NotifyOnRegistration
	case CategoryExcuse:
		return ps.NotifyOnExcuse
	case CategoryMatchInfo:
		return ps.NotifyOnMatchInfo
	}
	return false
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
