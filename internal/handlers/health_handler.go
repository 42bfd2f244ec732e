package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/officevault/backend/internal/database"
	"github.com/officevault/backend/internal/notify"
)

type HealthHandler struct {
	hub *notify.Hub
}

func NewHealthHandler(hub *notify.Hub) *HealthHandler {
	return &HealthHandler{hub: hub}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(fiber.Map{
		"status":        "ok",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"db":            dbStatus,
		"live_sessions": h.hub.ConnectedCount(),
	})
}
