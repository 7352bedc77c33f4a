package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrompts = Prompts{
	VoiceURL:         "/voice",
	SpeechURL:        "/voice/speech",
	VoicemailURL:     "/voice/voicemail",
	TranscriptionURL: "/voice/transcription",
}

func TestGreetingGathersSpeech(t *testing.T) {
	doc, err := testPrompts.Greeting()
	require.NoError(t, err)

	assert.Contains(t, doc, "<Say")
	assert.Contains(t, doc, "Thank you for calling")
	assert.Contains(t, doc, `input="speech"`)
	assert.Contains(t, doc, `action="/voice/speech"`)
	assert.Contains(t, doc, "<Redirect")
}

func TestRepromptRedirectsWithoutGather(t *testing.T) {
	doc, err := testPrompts.Reprompt()
	require.NoError(t, err)

	assert.Contains(t, doc, "I did not catch that")
	assert.Contains(t, doc, "/voice")
	assert.NotContains(t, doc, "<Gather")
}

func TestAnswerSpeaksReplyAndRegathers(t *testing.T) {
	doc, err := testPrompts.Answer("We open at nine.")
	require.NoError(t, err)

	assert.Contains(t, doc, "We open at nine.")
	assert.Contains(t, doc, "Anything else I can help with?")
	assert.Contains(t, doc, "<Gather")
	assert.Contains(t, doc, "<Hangup")
}

func TestAnswerEscapesModelOutput(t *testing.T) {
	doc, err := testPrompts.Answer(`Use <b> & "quotes"`)
	require.NoError(t, err)

	assert.NotContains(t, doc, "<b>")
	assert.Contains(t, doc, "&lt;b&gt;")
}

func TestEscalateRecordsWithTranscription(t *testing.T) {
	doc, err := testPrompts.Escalate()
	require.NoError(t, err)

	assert.Contains(t, doc, "<Record")
	assert.Contains(t, doc, `action="/voice/voicemail"`)
	assert.Contains(t, doc, `transcribeCallback="/voice/transcription"`)
	assert.Contains(t, doc, `maxLength="60"`)
}

func TestVoicemailDoneHangsUp(t *testing.T) {
	doc, err := testPrompts.VoicemailDone()
	require.NoError(t, err)

	assert.Contains(t, doc, "Someone will call you back soon")
	assert.Contains(t, doc, "<Hangup")
}
