package handlers

// notifications.go: the in-app inbox, its live stream, the decision preview and
// the demo-mode capture drain.

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/PetrH630/hobbyhokej/internal/live"
	"github.com/PetrH630/hobbyhokej/internal/middleware"
	"github.com/PetrH630/hobbyhokej/internal/models"
	"github.com/PetrH630/hobbyhokej/internal/notify"
)

// Inbox is implemented by live.Inbox.
type Inbox interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Decider is implemented by notify.Service.
type Decider interface {
	Decide(ctx context.Context, playerID uuid.UUID, t notify.EventType) (notify.Decision, error)
}

// ListNotifications handles GET /api/v1/notifications?unread=true&limit=50.
func ListNotifications(inbox Inbox) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return respondError(c, errForbidden)
		}
		rows, err := inbox.List(c.UserContext(), userID, c.QueryBool("unread", false), c.QueryInt("limit", 50))
		if err != nil {
			return respondError(c, err)
		}
		out := make([]live.Item, 0, len(rows))
		for _, n := range rows {
			out = append(out, live.ItemFrom(n))
		}
		return c.JSON(out)
	}
}

// MarkNotificationRead handles POST /api/v1/notifications/:notificationID/read.
func MarkNotificationRead(inbox Inbox) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return respondError(c, errForbidden)
		}
		id, err := paramUUID(c, "notificationID")
		if err != nil {
			return respondError(c, err)
		}
		if err := inbox.MarkRead(c.UserContext(), userID, id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// MarkAllNotificationsRead handles POST /api/v1/notifications/read-all.
func MarkAllNotificationsRead(inbox Inbox) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return respondError(c, errForbidden)
		}
		n, err := inbox.MarkAllRead(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"updated": n})
	}
}

// keepAlive is how often an idle stream gets a comment line so proxies keep it open.
const keepAlive = 25 * time.Second

// NotificationStream handles GET /api/v1/notifications/stream as Server-Sent Events.
// Every inbox item delivered to the caller's account is pushed as a "notification"
// event carrying the same JSON as the list endpoint.
func NotificationStream(hub *live.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return respondError(c, errForbidden)
		}

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		client := live.NewClient(userID)
		hub.Register(client)

		// The fiber.Ctx is recycled once the handler returns, so the writer only
		// touches hub and client.
		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer hub.Unregister(client)
			ticker := time.NewTicker(keepAlive)
			defer ticker.Stop()

			fmt.Fprint(w, ": connected\n\n")
			if err := w.Flush(); err != nil {
				return
			}
			for {
				select {
				case data, open := <-client.Send:
					if !open {
						return
					}
					fmt.Fprintf(w, "event: notification\ndata: %s\n\n", data)
				case <-ticker.C:
					fmt.Fprint(w, ": ping\n\n")
				}
				if err := w.Flush(); err != nil {
					// Client went away.
					return
				}
			}
		}))
		return nil
	}
}

// NotificationDecision handles GET /api/v1/players/:playerID/notification-decision?event=TYPE.
// It shows which channels an event would use for the player without sending anything.
func NotificationDecision(regs Registrations, decider Decider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerID, err := paramUUID(c, "playerID")
		if err != nil {
			return respondError(c, err)
		}
		if _, _, err := authorizePlayer(c, regs, playerID); err != nil {
			return respondError(c, err)
		}
		event := notify.EventType(c.Query("event"))
		dec, err := decider.Decide(c.UserContext(), playerID, event)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"event":    event,
			"category": notify.CategoryOf(event),
			"decision": dec,
		})
	}
}

// DrainDemoNotifications handles GET /api/v1/demo/notifications (admin only).
// It returns everything captured since the last call and empties the store.
// Outside demo mode the route answers 404.
func DrainDemoNotifications(store *notify.DemoStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "demo mode is disabled"})
		}
		return c.JSON(store.GetAndClear())
	}
}
