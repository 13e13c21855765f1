package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck handles GET /health.
// It is a liveness check: no database queries, no authentication. Load balancers and
// container orchestrators use it to decide whether the process is up.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Pinger is anything that can check its connection, e.g. the *sql.DB under GORM.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ReadinessCheck handles GET /ready. It answers 503 while the database is unreachable,
// so traffic is only routed to instances that can serve registrations.
func ReadinessCheck(db Pinger, demoMode bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unavailable",
				"database": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok", "demo_mode": demoMode})
	}
}
