package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/frontdesk/frontdesk-backend/internal/agent"
	"github.com/frontdesk/frontdesk-backend/internal/call"
	"github.com/frontdesk/frontdesk-backend/internal/config"
	"github.com/frontdesk/frontdesk-backend/internal/notify"
)

// Status serves the health endpoints.
type Status struct {
	cfg      *config.Config
	store    *call.Store
	agent    *agent.Agent
	notifier *notify.Dispatcher
}

// NewStatus creates the status handlers.
func NewStatus(cfg *config.Config, store *call.Store, a *agent.Agent, n *notify.Dispatcher) *Status {
	return &Status{cfg: cfg, store: store, agent: a, notifier: n}
}

// Home returns the service banner.
func (h *Status) Home(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "AI Phone System is running",
		"status":  "ok",
	})
}

// Status reports which collaborators are configured.
func (h *Status) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":        "running",
		"twilio":        h.cfg.TwilioConfigured(),
		"ai":            h.agent.Configured(),
		"notifications": h.notifier.Channels(),
		"active_calls":  h.store.Len(),
	})
}
