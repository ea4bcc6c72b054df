package health

import (
	"context"
	"time"

	"farmq-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

var appStart = time.Now()

const checkTimeout = 800 * time.Millisecond

// Prober is the part of the model client the health check needs.
type Prober interface {
	Health(ctx context.Context) error
}

type check struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

// GET /api/health
// Only the database decides the status code; the model service has a fallback.
func Handler(model Prober) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), checkTimeout)
		defer cancel()

		db := check{OK: true}
		if err := database.Ping(ctx); err != nil {
			db = check{OK: false, Err: "ping: " + err.Error()}
		}

		ms := check{OK: true}
		if model == nil {
			ms = check{OK: false, Err: "not configured"}
		} else if err := model.Health(ctx); err != nil {
			ms = check{OK: false, Err: err.Error()}
		}

		status := fiber.StatusOK
		if !db.OK {
			status = fiber.StatusServiceUnavailable
		}

		return c.Status(status).JSON(fiber.Map{
			"status":     fiber.Map{"ok": db.OK},
			"uptime_sec": int(time.Since(appStart).Seconds()),
			"checks": fiber.Map{
				"database":      db,
				"model_service": ms,
			},
			"time": time.Now().Format(time.RFC3339),
		})
	}
}
