package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/frontdesk/frontdesk-backend/internal/agent"
	"github.com/frontdesk/frontdesk-backend/internal/api/handlers"
	"github.com/frontdesk/frontdesk-backend/internal/api/middleware"
	"github.com/frontdesk/frontdesk-backend/internal/call"
	"github.com/frontdesk/frontdesk-backend/internal/config"
	"github.com/frontdesk/frontdesk-backend/internal/monitor"
	"github.com/frontdesk/frontdesk-backend/internal/notify"
	"github.com/frontdesk/frontdesk-backend/internal/records"
	"github.com/frontdesk/frontdesk-backend/internal/voice"
)

// Deps carries everything the route handlers need.
type Deps struct {
	Config   *config.Config
	Store    *call.Store
	Agent    *agent.Agent
	Notifier *notify.Dispatcher
	Hub      *monitor.Hub
	Records  *records.Store // nil when no database is configured
}

// SetupRoutes configures the webhook, status, and admin routes.
func SetupRoutes(app *fiber.App, deps Deps) {
	prompts := voice.Prompts{
		VoiceURL:         "/voice",
		SpeechURL:        "/voice/speech",
		VoicemailURL:     "/voice/voicemail",
		TranscriptionURL: "/voice/transcription",
	}

	voiceHandler := handlers.NewVoice(handlers.VoiceDeps{
		Store:    deps.Store,
		Agent:    deps.Agent,
		Notifier: deps.Notifier,
		Hub:      deps.Hub,
		Prompts:  prompts,
	})

	// Twilio signs webhook requests; reject forgeries when validation is on.
	verify := middleware.TwilioSignature(deps.Config.Twilio)
	app.Post("/voice", verify, voiceHandler.IncomingCall)
	app.Post("/voice/speech", verify, voiceHandler.ProcessSpeech)
	app.Post("/voice/voicemail", verify, voiceHandler.VoicemailDone)
	app.Post("/voice/transcription", verify, voiceHandler.Transcription)
	app.Post("/voice/status", verify, voiceHandler.CallStatus)

	statusHandler := handlers.NewStatus(deps.Config, deps.Store, deps.Agent, deps.Notifier)
	app.Get("/", statusHandler.Home)
	app.Get("/status", statusHandler.Status)

	// Admin surface only exists when a token is configured.
	if deps.Config.Server.AdminToken != "" {
		adminHandler := handlers.NewAdmin(deps.Store, deps.Records)
		admin := app.Group("/admin", middleware.AdminToken(deps.Config.Server.AdminToken))
		admin.Get("/calls", adminHandler.ActiveCalls)
		admin.Get("/records", adminHandler.RecentRecords)
		admin.Get("/live", middleware.WebSocketUpgrade(), websocket.New(deps.Hub.Stream))
	}
}
