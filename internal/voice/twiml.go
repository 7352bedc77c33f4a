// Package voice renders the TwiML documents the telephony layer speaks.
// All documents are built with twilio-go's twiml package, never hand-built
// XML, so escaping of model output is handled by the library.
package voice

import (
	"github.com/twilio/twilio-go/twiml"
)

const speakVoice = "alice"

const (
	greetingText   = "Thank you for calling. I am an A I assistant. What can I help you with?"
	repromptText   = "I did not catch that. Please repeat."
	anythingElse   = "Anything else I can help with?"
	goodbyeText    = "Thank you for calling!"
	escalationText = "I am having trouble finding the answer. Let me take a message. Please speak after the tone."
	voicemailText  = "Thank you. Someone will call you back soon. Goodbye!"
)

// Prompts groups the webhook URLs the documents point back at.
type Prompts struct {
	VoiceURL         string // answers a new call, e.g. /voice
	SpeechURL        string // receives gathered speech
	VoicemailURL     string // receives the finished recording
	TranscriptionURL string // receives the voicemail transcription
}

// Greeting welcomes a new call and gathers the first utterance.
func (p Prompts) Greeting() (string, error) {
	gather := &twiml.VoiceGather{
		Input:         "speech",
		Action:        p.SpeechURL,
		SpeechTimeout: "auto",
		Language:      "en-US",
	}
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: greetingText, Voice: speakVoice},
		gather,
		&twiml.VoiceRedirect{Url: p.VoiceURL},
	})
}

// Reprompt is returned for a blank transcription: ask again, touch nothing.
func (p Prompts) Reprompt() (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: repromptText},
		&twiml.VoiceRedirect{Url: p.VoiceURL},
	})
}

// Answer speaks the generated reply and gathers a follow-up question. If the
// caller stays silent past the timeout the call is thanked and ended.
func (p Prompts) Answer(reply string) (string, error) {
	gather := &twiml.VoiceGather{
		Input:         "speech",
		Action:        p.SpeechURL,
		SpeechTimeout: "auto",
		Timeout:       "5",
	}
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: reply, Voice: speakVoice},
		&twiml.VoiceSay{Message: anythingElse, Voice: speakVoice},
		gather,
		&twiml.VoiceSay{Message: goodbyeText, Voice: speakVoice},
		&twiml.VoiceHangup{},
	})
}

// Escalate announces the handoff and records a voicemail with transcription.
func (p Prompts) Escalate() (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: escalationText, Voice: speakVoice},
		&twiml.VoiceRecord{
			Action:             p.VoicemailURL,
			MaxLength:          "60",
			Transcribe:         "true",
			TranscribeCallback: p.TranscriptionURL,
		},
	})
}

// VoicemailDone thanks the caller after the recording and hangs up.
func (p Prompts) VoicemailDone() (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: voicemailText, Voice: speakVoice},
		&twiml.VoiceHangup{},
	})
}
