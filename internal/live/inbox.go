package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/PetrH630/hobbyhokej/internal/models"
)

// ErrNotificationNotFound is returned when marking an item that does not exist
// or belongs to another account.
var ErrNotificationNotFound = errors.New("notification not found")

// Item is the JSON shape of an inbox entry, both in the list endpoint and on the stream.
type Item struct {
	ID        string     `json:"id"`
	PlayerID  *string    `json:"player_id,omitempty"`
	MatchID   *string    `json:"match_id,omitempty"`
	EventType string     `json:"event_type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ItemFrom converts a stored notification into its JSON shape.
func ItemFrom(n models.Notification) Item {
	it := Item{
		ID:        n.ID.String(),
		EventType: n.EventType,
		Title:     n.Title,
		Body:      n.Body,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if n.PlayerID != nil {
		s := n.PlayerID.String()
		it.PlayerID = &s
	}
	if n.MatchID != nil {
		s := n.MatchID.String()
		it.MatchID = &s
	}
	return it
}

// Inbox persists in-app notifications and pushes each new one to the hub.
type Inbox struct {
	db  *gorm.DB
	hub *Hub
	log zerolog.Logger
	now func() time.Time
}

func NewInbox(db *gorm.DB, hub *Hub, logger zerolog.Logger) *Inbox {
	return &Inbox{db: db, hub: hub, log: logger, now: time.Now}
}

// Deliver stores n and publishes it to the account's open streams.
func (i *Inbox) Deliver(ctx context.Context, n models.Notification) error {
	if err := i.db.WithContext(ctx).Create(&n).Error; err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	if i.hub == nil {
		return nil
	}
	data, err := json.Marshal(ItemFrom(n))
	if err != nil {
		i.log.Error().Err(err).Str("notification_id", n.ID.String()).Msg("encode live notification")
		return nil
	}
	i.hub.Publish(n.UserID, data)
	return nil
}

// List returns the newest notifications of an account, at most limit of them.
func (i *Inbox) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := i.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	var out []models.Notification
	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// MarkRead marks one notification of userID as read.
func (i *Inbox) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	res := i.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", i.now().UTC())
	if res.Error != nil {
		return fmt.Errorf("mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Either already read or not ours; only the latter is an error.
		var count int64
		if err := i.db.WithContext(ctx).Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
			return fmt.Errorf("mark notification read: %w", err)
		}
		if count == 0 {
			return ErrNotificationNotFound
		}
	}
	return nil
}

// MarkAllRead marks every unread notification of userID as read and returns how many changed.
func (i *Inbox) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := i.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", i.now().UTC())
	if res.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
