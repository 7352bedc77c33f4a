package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/frontdesk/frontdesk-backend/internal/agent"
	"github.com/frontdesk/frontdesk-backend/internal/call"
	"github.com/frontdesk/frontdesk-backend/internal/monitor"
	"github.com/frontdesk/frontdesk-backend/internal/notify"
	"github.com/frontdesk/frontdesk-backend/internal/voice"
)

// VoiceDeps carries the collaborators for the call-flow handlers.
type VoiceDeps struct {
	Store    *call.Store
	Agent    *agent.Agent
	Notifier *notify.Dispatcher
	Hub      *monitor.Hub
	Prompts  voice.Prompts
}

// Voice implements the Twilio voice webhook flow: greet, answer questions
// until the attempt threshold, then escalate to a human via notification
// and voicemail. Every response is a well-formed TwiML document; a caller
// never hears silence or a raw error.
type Voice struct {
	store    *call.Store
	agent    *agent.Agent
	notifier *notify.Dispatcher
	hub      *monitor.Hub
	prompts  voice.Prompts
}

// NewVoice creates the voice webhook handlers.
func NewVoice(deps VoiceDeps) *Voice {
	return &Voice{
		store:    deps.Store,
		agent:    deps.Agent,
		notifier: deps.Notifier,
		hub:      deps.Hub,
		prompts:  deps.Prompts,
	}
}

// IncomingCall answers a new call with the greeting and the first gather.
func (h *Voice) IncomingCall(c *fiber.Ctx) error {
	callSID := c.FormValue("CallSid", "Unknown")
	callerID := c.FormValue("From", "Unknown")

	created := h.store.Get(callSID) == nil
	h.store.GetOrCreate(callSID, callerID)
	if created {
		logrus.WithFields(logrus.Fields{"call": callSID, "caller": callerID}).Info("Incoming call")
		h.hub.Publish(monitor.Event{Type: monitor.EventCallStarted, CallSID: callSID, CallerID: callerID})
	}

	doc, err := h.prompts.Greeting()
	if err != nil {
		return err
	}
	return sendTwiML(c, doc)
}

// ProcessSpeech handles a transcribed utterance: re-prompt on silence,
// escalate past the threshold, otherwise generate and speak an answer.
func (h *Voice) ProcessSpeech(c *fiber.Ctx) error {
	callSID := c.FormValue("CallSid", "Unknown")
	callerID := c.FormValue("From", "Unknown")
	speech := strings.TrimSpace(c.FormValue("SpeechResult"))

	conv := h.store.GetOrCreate(callSID, callerID)

	if speech == "" {
		// Caller error: re-prompt without touching the attempt count.
		doc, err := h.prompts.Reprompt()
		if err != nil {
			return err
		}
		return sendTwiML(c, doc)
	}

	if err := conv.AddQuestion(speech); err != nil {
		doc, derr := h.prompts.Reprompt()
		if derr != nil {
			return derr
		}
		return sendTwiML(c, doc)
	}
	h.hub.Publish(monitor.Event{Type: monitor.EventQuestion, CallSID: callSID, CallerID: callerID, Text: speech})

	if conv.ShouldEscalate() {
		conv.MarkEscalated()
		logrus.WithFields(logrus.Fields{
			"call":     callSID,
			"caller":   callerID,
			"attempts": conv.AttemptCount(),
		}).Info("Escalating call to human")

		n := notify.NewNotification(notify.KindEscalation,
			"AI could not answer:", conv.Summary(), callSID, callerID)
		h.notifier.Dispatch(c.Context(), n)
		h.hub.Publish(monitor.Event{Type: monitor.EventEscalated, CallSID: callSID, CallerID: callerID})

		doc, err := h.prompts.Escalate()
		if err != nil {
			return err
		}
		return sendTwiML(c, doc)
	}

	answer := h.agent.AnswerQuestion(c.Context(), speech, conv.History())
	conv.AddAnswer(answer)
	h.hub.Publish(monitor.Event{Type: monitor.EventAnswer, CallSID: callSID, CallerID: callerID, Text: answer})

	doc, err := h.prompts.Answer(answer)
	if err != nil {
		return err
	}
	return sendTwiML(c, doc)
}

// VoicemailDone thanks the caller once the recording finishes. The session
// stays in the table until the transcription callback (or the idle sweep)
// so the voicemail notification can still find it.
func (h *Voice) VoicemailDone(c *fiber.Ctx) error {
	doc, err := h.prompts.VoicemailDone()
	if err != nil {
		return err
	}
	return sendTwiML(c, doc)
}

// Transcription receives the voicemail transcription. An unknown CallSid
// (already evicted, or a stray callback) is acknowledged and ignored.
func (h *Voice) Transcription(c *fiber.Ctx) error {
	callSID := c.FormValue("CallSid", "Unknown")
	text := c.FormValue("TranscriptionText")

	conv := h.store.Get(callSID)
	if conv == nil {
		return c.SendStatus(fiber.StatusOK)
	}

	body := conv.Summary() + "\nMessage: " + text
	n := notify.NewNotification(notify.KindVoicemail, "Voicemail:", body, callSID, conv.CallerID())
	h.notifier.Dispatch(c.Context(), n)
	h.hub.Publish(monitor.Event{Type: monitor.EventVoicemail, CallSID: callSID, CallerID: conv.CallerID(), Text: text})

	h.store.End(callSID)
	return c.SendStatus(fiber.StatusOK)
}

// CallStatus handles Twilio status callbacks and drops finished sessions,
// except those still waiting for a voicemail transcription.
func (h *Voice) CallStatus(c *fiber.Ctx) error {
	callSID := c.FormValue("CallSid", "Unknown")
	status := c.FormValue("CallStatus")

	switch status {
	case "completed", "busy", "failed", "no-answer", "canceled":
		if conv := h.store.Get(callSID); conv != nil && !conv.AwaitingVoicemail() {
			h.store.End(callSID)
			logrus.WithFields(logrus.Fields{"call": callSID, "status": status}).Info("Call ended")
		}
	}
	return c.SendStatus(fiber.StatusOK)
}

func sendTwiML(c *fiber.Ctx, doc string) error {
	c.Set(fiber.HeaderContentType, "text/xml")
	return c.SendString(doc)
}
