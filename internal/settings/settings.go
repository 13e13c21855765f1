// Package settings stores the two notification preference layers: one row per
// account and one row per player. Rows are created on first access with the
// permissive defaults and are only ever changed through partial patches.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PetrH630/hobbyhokej/internal/models"
	"github.com/PetrH630/hobbyhokej/internal/notify"
	"github.com/PetrH630/hobbyhokej/internal/validate"
)

var (
	ErrInvalid        = errors.New("invalid settings")
	ErrPlayerNotFound = errors.New("player not found")
)

// AccountPatch changes only the fields that are set.
type AccountPatch struct {
	NotificationLevel          *models.NotificationLevel `json:"notification_level" validate:"omitempty,oneof=NONE IMPORTANT_ONLY ALL"`
	CopyAllPlayerNotifications *bool                     `json:"copy_all_player_notifications"`
	NotifyEvenIfPlayerHasEmail *bool                     `json:"notify_even_if_player_has_email"`
}

// Apply validates the patch and writes it into s. s is untouched on error.
func (p AccountPatch) Apply(s *models.AccountSettings) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if p.NotificationLevel != nil {
		s.NotificationLevel = *p.NotificationLevel
	}
	setBool(&s.CopyAllPlayerNotifications, p.CopyAllPlayerNotifications)
	setBool(&s.NotifyEvenIfPlayerHasEmail, p.NotifyEvenIfPlayerHasEmail)
	return nil
}

// PlayerPatch changes only the fields that are set. An empty contact string clears
// the override so the account email or player phone is used again. Phone numbers
// are stored in E.164 form, e.g. +420777000111.
type PlayerPatch struct {
	ContactEmail         *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone         *string `json:"contact_phone" validate:"omitempty,e164"`
	EmailEnabled         *bool   `json:"email_enabled"`
	SMSEnabled           *bool   `json:"sms_enabled"`
	NotifyOnRegistration *bool   `json:"notify_on_registration"`
	NotifyOnExcuse       *bool   `json:"notify_on_excuse"`
	NotifyOnMatchInfo    *bool   `json:"notify_on_match_info"`
	RemindersEnabled     *bool   `json:"reminders_enabled"`
	ReminderHoursBefore  *int    `json:"reminder_hours_before" validate:"omitempty,min=1,max=168"`
}

// Apply validates the patch and writes it into s. s is untouched on error.
func (p PlayerPatch) Apply(s *models.PlayerSettings) error {
	// Blank contacts mean "clear", so they are taken out before the tag checks run.
	clearEmail, clearPhone := false, false
	if p.ContactEmail != nil {
		v := strings.TrimSpace(*p.ContactEmail)
		p.ContactEmail = &v
		if v == "" {
			p.ContactEmail, clearEmail = nil, true
		}
	}
	if p.ContactPhone != nil {
		v := strings.ReplaceAll(strings.TrimSpace(*p.ContactPhone), " ", "")
		p.ContactPhone = &v
		if v == "" {
			p.ContactPhone, clearPhone = nil, true
		}
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if p.ContactEmail != nil || clearEmail {
		s.ContactEmail = p.ContactEmail
	}
	if p.ContactPhone != nil || clearPhone {
		s.ContactPhone = p.ContactPhone
	}
	setBool(&s.EmailEnabled, p.EmailEnabled)
	setBool(&s.SMSEnabled, p.SMSEnabled)
	setBool(&s.NotifyOnRegistration, p.NotifyOnRegistration)
	setBool(&s.NotifyOnExcuse, p.NotifyOnExcuse)
	setBool(&s.NotifyOnMatchInfo, p.NotifyOnMatchInfo)
	setBool(&s.RemindersEnabled, p.RemindersEnabled)
	if p.ReminderHoursBefore != nil {
		s.ReminderHoursBefore = *p.ReminderHoursBefore
	}
	return nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// Store reads and patches settings rows.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Account returns the settings of userID, creating the row with defaults if needed.
func (s *Store) Account(ctx context.Context, userID uuid.UUID) (models.AccountSettings, error) {
	return accountRow(s.db.WithContext(ctx), userID, false)
}

// UpdateAccount applies patch to the settings of userID.
func (s *Store) UpdateAccount(ctx context.Context, userID uuid.UUID, patch AccountPatch) (models.AccountSettings, error) {
	var out models.AccountSettings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := accountRow(tx, userID, true)
		if err != nil {
			return err
		}
		if err := patch.Apply(&row); err != nil {
			return err
		}
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("save account settings: %w", err)
		}
		out = row
		return nil
	})
	return out, err
}

// Player returns the settings of playerID, creating the row with defaults if needed.
func (s *Store) Player(ctx context.Context, playerID uuid.UUID) (models.PlayerSettings, error) {
	return playerRow(s.db.WithContext(ctx), playerID, false)
}

// UpdatePlayer applies patch to the settings of playerID.
func (s *Store) UpdatePlayer(ctx context.Context, playerID uuid.UUID, patch PlayerPatch) (models.PlayerSettings, error) {
	var out models.PlayerSettings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := playerRow(tx, playerID, true)
		if err != nil {
			return err
		}
		if err := patch.Apply(&row); err != nil {
			return err
		}
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("save player settings: %w", err)
		}
		out = row
		return nil
	})
	return out, err
}

func accountRow(db *gorm.DB, userID uuid.UUID, lock bool) (models.AccountSettings, error) {
	defaults := notify.DefaultAccountSettings()
	q := db.Where(models.AccountSettings{UserID: userID}).Attrs(models.AccountSettings{
		NotificationLevel:          defaults.NotificationLevel,
		CopyAllPlayerNotifications: defaults.CopyAllPlayerNotifications,
		NotifyEvenIfPlayerHasEmail: defaults.NotifyEvenIfPlayerHasEmail,
	})
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row models.AccountSettings
	if err := q.FirstOrCreate(&row).Error; err != nil {
		return row, fmt.Errorf("load account settings: %w", err)
	}
	return row, nil
}

func playerRow(db *gorm.DB, playerID uuid.UUID, lock bool) (models.PlayerSettings, error) {
	var count int64
	if err := db.Model(&models.Player{}).Where("id = ?", playerID).Count(&count).Error; err != nil {
		return models.PlayerSettings{}, fmt.Errorf("load player: %w", err)
	}
	if count == 0 {
		return models.PlayerSettings{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}

	defaults := notify.DefaultPlayerSettings()
	defaults.PlayerID = playerID
	q := db.Where(models.PlayerSettings{PlayerID: playerID}).Attrs(defaults)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row models.PlayerSettings
	if err := q.FirstOrCreate(&row).Error; err != nil {
		return row, fmt.Errorf("load player settings: %w", err)
	}
	return row, nil
}
