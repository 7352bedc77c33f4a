package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/frontdesk/frontdesk-backend/internal/agent"
	"github.com/frontdesk/frontdesk-backend/internal/api"
	"github.com/frontdesk/frontdesk-backend/internal/call"
	"github.com/frontdesk/frontdesk-backend/internal/config"
	"github.com/frontdesk/frontdesk-backend/internal/monitor"
	"github.com/frontdesk/frontdesk-backend/internal/notify"
	"github.com/frontdesk/frontdesk-backend/internal/providers"
	"github.com/frontdesk/frontdesk-backend/internal/providers/factory"
	"github.com/frontdesk/frontdesk-backend/internal/records"
)

func main() {
	// Credentials live in .env for local runs; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	registry, provErrs := factory.BuildRegistry(cfg.Providers)
	for _, err := range provErrs {
		logrus.WithError(err).Warn("Provider not available")
	}

	answerAgent := agent.New(pickProvider(registry, cfg.DefaultProvider), cfg.Agent)
	if !answerAgent.Configured() {
		logrus.Warn("No completion provider configured, callers will hear the not-configured reply")
	}

	store := call.NewStore(cfg.Session.EscalationThreshold,
		time.Duration(cfg.Session.IdleTTLMinutes)*time.Minute)
	if err := store.StartSweeper(); err != nil {
		logrus.WithError(err).Fatal("Failed to start session sweeper")
	}
	defer store.StopSweeper()

	var channels []notify.Channel
	if ch := notify.NewSMSChannel(cfg.Twilio); ch != nil {
		channels = append(channels, ch)
	}
	if ch := notify.NewEmailChannel(cfg.Notify.Email); ch != nil {
		channels = append(channels, ch)
	}
	if ch := notify.NewSheetsChannel(cfg.Notify.Sheets); ch != nil {
		channels = append(channels, ch)
	}
	if ch := notify.NewTelegramChannel(cfg.Notify.Telegram); ch != nil {
		channels = append(channels, ch)
	}

	var recordStore *records.Store
	if cfg.DatabaseConfigured() {
		recordStore, err = records.Open(cfg.Database)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to open call record store")
		}
		defer recordStore.Close()
		channels = append(channels, records.NewChannel(recordStore))
	}

	notifier := notify.NewDispatcher(channels...)
	logrus.WithField("channels", notifier.Channels()).Info("Notification channels wired")

	app := fiber.New(fiber.Config{
		AppName:      "Frontdesk Backend",
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	api.SetupRoutes(app, api.Deps{
		Config:   cfg,
		Store:    store,
		Agent:    answerAgent,
		Notifier: notifier,
		Hub:      monitor.NewHub(),
		Records:  recordStore,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logrus.WithField("addr", addr).Info("Frontdesk backend starting")
	if err := app.Listen(addr); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}

func pickProvider(registry *providers.Registry, preferred string) providers.Provider {
	if p := registry.Get(preferred); p != nil {
		return p
	}
	// Fall back to any configured provider so a misnamed default still
	// answers calls.
	for _, id := range registry.List() {
		logrus.WithFields(logrus.Fields{"wanted": preferred, "using": id}).
			Warn("Default provider not configured, falling back")
		return registry.Get(id)
	}
	return nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
