package handlers_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdesk/frontdesk-backend/internal/agent"
	"github.com/frontdesk/frontdesk-backend/internal/api/handlers"
	"github.com/frontdesk/frontdesk-backend/internal/call"
	"github.com/frontdesk/frontdesk-backend/internal/config"
	"github.com/frontdesk/frontdesk-backend/internal/monitor"
	"github.com/frontdesk/frontdesk-backend/internal/notify"
	"github.com/frontdesk/frontdesk-backend/internal/providers"
	"github.com/frontdesk/frontdesk-backend/internal/voice"
)

type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &providers.CompletionResponse{Content: f.reply}, nil
}

func (f *fakeProvider) ValidateConfig() error { return nil }

type capturingChannel struct {
	sent []notify.Notification
}

func (c *capturingChannel) Name() string { return "capture" }

func (c *capturingChannel) Send(ctx context.Context, n notify.Notification) error {
	c.sent = append(c.sent, n)
	return nil
}

type fixture struct {
	app     *fiber.App
	store   *call.Store
	channel *capturingChannel
}

func newFixture(t *testing.T, provider providers.Provider) *fixture {
	t.Helper()

	store := call.NewStore(call.DefaultEscalationThreshold, time.Hour)
	channel := &capturingChannel{}

	h := handlers.NewVoice(handlers.VoiceDeps{
		Store:    store,
		Agent:    agent.New(provider, config.AgentConfig{}),
		Notifier: notify.NewDispatcher(channel),
		Hub:      monitor.NewHub(),
		Prompts: voice.Prompts{
			VoiceURL:         "/voice",
			SpeechURL:        "/voice/speech",
			VoicemailURL:     "/voice/voicemail",
			TranscriptionURL: "/voice/transcription",
		},
	})

	app := fiber.New()
	app.Post("/voice", h.IncomingCall)
	app.Post("/voice/speech", h.ProcessSpeech)
	app.Post("/voice/voicemail", h.VoicemailDone)
	app.Post("/voice/transcription", h.Transcription)
	app.Post("/voice/status", h.CallStatus)

	return &fixture{app: app, store: store, channel: channel}
}

func (f *fixture) post(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func callForm(callSID, extra string) url.Values {
	form := url.Values{}
	form.Set("CallSid", callSID)
	form.Set("From", "+15551234567")
	if extra != "" {
		form.Set("SpeechResult", extra)
	}
	return form
}

func TestIncomingCallGreetsAndCreatesSession(t *testing.T) {
	f := newFixture(t, &fakeProvider{reply: "hello"})

	status, body := f.post(t, "/voice", callForm("CA1", ""))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Thank you for calling")
	assert.Contains(t, body, "<Gather")
	assert.NotNil(t, f.store.Get("CA1"))
}

func TestThreeQuestionsEscalateWithNotification(t *testing.T) {
	f := newFixture(t, &fakeProvider{reply: "an answer"})
	f.post(t, "/voice", callForm("CA1", ""))

	for _, q := range []string{"hi", "what are your hours"} {
		status, body := f.post(t, "/voice/speech", callForm("CA1", q))
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "an answer")
		assert.NotContains(t, body, "<Record")
	}

	status, body := f.post(t, "/voice/speech", callForm("CA1", "can I get a refund"))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<Record")
	assert.Contains(t, body, "take a message")

	conv := f.store.Get("CA1")
	require.NotNil(t, conv)
	assert.Equal(t, 3, conv.AttemptCount())
	assert.True(t, conv.ShouldEscalate())

	require.Len(t, f.channel.sent, 1)
	n := f.channel.sent[0]
	assert.Equal(t, notify.KindEscalation, n.Kind)
	assert.Contains(t, n.Body, "Q1: hi")
	assert.Contains(t, n.Body, "Q2: what are your hours")
	assert.Contains(t, n.Body, "Q3: can I get a refund")
}

func TestEmptySpeechRepromptsWithoutStateChange(t *testing.T) {
	f := newFixture(t, &fakeProvider{reply: "an answer"})

	status, body := f.post(t, "/voice/speech", callForm("CA1", ""))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "I did not catch that")

	require.NotNil(t, f.store.Get("CA1"))
	assert.Equal(t, 0, f.store.Get("CA1").AttemptCount())
	assert.Empty(t, f.channel.sent)
}

func TestProviderFailureStillAnswersCaller(t *testing.T) {
	f := newFixture(t, &fakeProvider{err: errors.New("upstream down")})

	status, body := f.post(t, "/voice/speech", callForm("CA1", "hello"))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "I apologize, I am having trouble right now.")
	assert.Contains(t, body, "<Gather")
}

func TestTranscriptionSendsVoicemailNotificationAndEndsSession(t *testing.T) {
	f := newFixture(t, &fakeProvider{reply: "an answer"})
	for _, q := range []string{"a", "b", "c"} {
		f.post(t, "/voice/speech", callForm("CA1", q))
	}

	form := callForm("CA1", "")
	form.Set("TranscriptionText", "please call me back about my order")
	status, _ := f.post(t, "/voice/transcription", form)
	assert.Equal(t, http.StatusOK, status)

	require.Len(t, f.channel.sent, 2) // escalation then voicemail
	n := f.channel.sent[1]
	assert.Equal(t, notify.KindVoicemail, n.Kind)
	assert.Contains(t, n.Body, "Message: please call me back about my order")

	assert.Nil(t, f.store.Get("CA1"))
}

func TestTranscriptionForUnknownCallIsNoOp(t *testing.T) {
	f := newFixture(t, &fakeProvider{reply: "an answer"})

	form := url.Values{}
	form.Set("CallSid", "CA-gone")
	form.Set("TranscriptionText", "hello?")
	status, _ := f.post(t, "/voice/transcription", form)

	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, f.channel.sent)
}

func TestVoicemailDoneKeepsSessionForTranscription(t *testing.T) {
	f := newFixture(t, &fakeProvider{reply: "an answer"})
	for _, q := range []string{"a", "b", "c"} {
		f.post(t, "/voice/speech", callForm("CA1", q))
	}

	status, body := f.post(t, "/voice/voicemail", callForm("CA1", ""))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "call you back soon")
	assert.NotNil(t, f.store.Get("CA1"))
}

func TestCallStatusCompletedEndsIdleSession(t *testing.T) {
	f := newFixture(t, &fakeProvider{reply: "an answer"})
	f.post(t, "/voice", callForm("CA1", ""))

	form := callForm("CA1", "")
	form.Set("CallStatus", "completed")
	f.post(t, "/voice/status", form)
	assert.Nil(t, f.store.Get("CA1"))
}

func TestCallStatusKeepsSessionAwaitingVoicemail(t *testing.T) {
	f := newFixture(t, &fakeProvider{reply: "an answer"})
	for _, q := range []string{"a", "b", "c"} {
		f.post(t, "/voice/speech", callForm("CA1", q))
	}

	form := callForm("CA1", "")
	form.Set("CallStatus", "completed")
	f.post(t, "/voice/status", form)

	// Transcription callback still needs the session.
	assert.NotNil(t, f.store.Get("CA1"))
}
