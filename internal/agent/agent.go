package agent

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/frontdesk/frontdesk-backend/internal/call"
	"github.com/frontdesk/frontdesk-backend/internal/config"
	"github.com/frontdesk/frontdesk-backend/internal/providers"
)

const (
	defaultMaxTokens = 300
	defaultTimeout   = 10 * time.Second
)

// Agent produces the next spoken reply for a caller question. It is
// stateless: conversation history is passed in on every invocation.
//
// The agent never returns an error to the call path. A missing provider
// yields the not-configured reply without any network call, and any provider
// failure (transport, auth, timeout) yields the apology reply. The caller
// must always hear something.
type Agent struct {
	provider providers.Provider

	systemPrompt       string
	maxTokens          int
	timeout            time.Duration
	apologyReply       string
	notConfiguredReply string
}

// New builds an agent from configuration. provider may be nil when no
// completion service is configured.
func New(provider providers.Provider, cfg config.AgentConfig) *Agent {
	a := &Agent{
		provider:           provider,
		systemPrompt:       buildSystemPrompt(cfg),
		maxTokens:          cfg.MaxTokens,
		timeout:            time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		apologyReply:       cfg.ApologyReply,
		notConfiguredReply: cfg.NotConfiguredReply,
	}
	if a.maxTokens <= 0 {
		a.maxTokens = defaultMaxTokens
	}
	if a.timeout <= 0 {
		a.timeout = defaultTimeout
	}
	if a.apologyReply == "" {
		a.apologyReply = "I apologize, I am having trouble right now."
	}
	if a.notConfiguredReply == "" {
		a.notConfiguredReply = "I apologize, the AI system is not configured."
	}
	return a
}

// Configured reports whether a completion provider is wired.
func (a *Agent) Configured() bool {
	return a.provider != nil
}

// AnswerQuestion generates a reply to question given the prior turns.
//
// history may or may not already end with the current question: when the
// dispatcher records the utterance before calling here, the trailing entry
// equals question and must not be sent twice. The question is appended to
// the outgoing payload only when history is empty or its last entry's text
// differs.
func (a *Agent) AnswerQuestion(ctx context.Context, question string, history []call.Turn) string {
	if a.provider == nil {
		return a.notConfiguredReply
	}

	msgs := make([]providers.Message, 0, len(history)+1)
	for _, t := range history {
		msgs = append(msgs, providers.Message{Role: t.Role, Content: t.Text})
	}
	if len(msgs) == 0 || msgs[len(msgs)-1].Content != question {
		msgs = append(msgs, providers.Message{Role: call.RoleCaller, Content: question})
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.provider.Complete(ctx, providers.CompletionRequest{
		System:    a.systemPrompt,
		Messages:  msgs,
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		logrus.WithError(err).WithField("provider", a.provider.Name()).
			Warn("Completion request failed, falling back to apology")
		return a.apologyReply
	}

	return resp.Content
}

func buildSystemPrompt(cfg config.AgentConfig) string {
	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = "You are a professional phone assistant. Keep answers brief " +
			"and conversational. Be friendly and professional."
	}
	if cfg.BusinessKnowledge != "" {
		prompt += "\n\nBusiness information you can draw on:\n" + cfg.BusinessKnowledge
	}
	return prompt
}
