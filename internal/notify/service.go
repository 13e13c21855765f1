package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/PetrH630/hobbyhokej/internal/models"
)

// ErrUnknownEvent is returned by Decide for an event type outside the catalogue.
var ErrUnknownEvent = errors.New("unknown event type")

// Directory loads the recipient data for a player.
type Directory interface {
	Recipient(ctx context.Context, playerID uuid.UUID) (Recipient, error)
}

// Service is what the rest of the app calls to announce an event.
type Service struct {
	dir        Directory
	dispatcher *Dispatcher
	log        zerolog.Logger
}

func NewService(dir Directory, dispatcher *Dispatcher, logger zerolog.Logger) *Service {
	return &Service{dir: dir, dispatcher: dispatcher, log: logger}
}

// Notify resolves and delivers ev. It runs after the triggering change has
// committed, so any failure is logged and swallowed.
func (s *Service) Notify(ctx context.Context, ev Event) {
	r, err := s.dir.Recipient(ctx, ev.PlayerID)
	if err != nil {
		s.log.Warn().Err(err).
			Str("event", string(ev.Type)).
			Str("player_id", ev.PlayerID.String()).
			Msg("notification skipped: recipient lookup failed")
		return
	}
	dec := Evaluate(r, ev.Type)
	if !dec.Any() && !dec.SendInApp {
		return
	}
	s.dispatcher.Dispatch(ctx, ev, r, dec)
}

// Decide returns the decision Notify would act on, without sending anything.
func (s *Service) Decide(ctx context.Context, playerID uuid.UUID, t EventType) (Decision, error) {
	if CategoryOf(t) == CategoryUnknown {
		return Decision{}, fmt.Errorf("%w: %q", ErrUnknownEvent, t)
	}
	r, err := s.dir.Recipient(ctx, playerID)
	if err != nil {
		return Decision{}, err
	}
	return Evaluate(r, t), nil
}

// ErrRecipientNotFound is returned by GormDirectory for an unknown player.
var ErrRecipientNotFound = errors.New("player not found")

// GormDirectory reads recipients from Postgres. Missing settings rows stay nil
// so Evaluate falls back to the defaults.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) Recipient(ctx context.Context, playerID uuid.UUID) (Recipient, error) {
	db := d.db.WithContext(ctx)

	var player models.Player
	if err := db.Preload("User").First(&player, "id = ?", playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Recipient{}, fmt.Errorf("%w: %s", ErrRecipientNotFound, playerID)
		}
		return Recipient{}, fmt.Errorf("load player: %w", err)
	}
	r := Recipient{Player: player, Account: player.User}

	var ps models.PlayerSettings
	err := db.Where("player_id = ?", playerID).Take(&ps).Error
	switch {
	case err == nil:
		r.PlayerSettings = &ps
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return Recipient{}, fmt.Errorf("load player settings: %w", err)
	}

	if player.UserID != nil {
		var as models.AccountSettings
		err := db.Where("user_id = ?", *player.UserID).Take(&as).Error
		switch {
		case err == nil:
			r.AccountSettings = &as
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return Recipient{}, fmt.Errorf("load account settings: %w", err)
		}
	}
	return r, nil
}
