package call

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Turn roles as they appear in conversation history.
const (
	RoleCaller = "user"
	RoleAgent  = "assistant"
)

// DefaultEscalationThreshold is the number of caller questions after which
// the call is handed to a human.
const DefaultEscalationThreshold = 3

var ErrEmptyUtterance = errors.New("empty caller utterance")

// Turn is a single utterance in the conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Conversation holds the per-call state: the turn history, the questions the
// caller asked, and how many attempts the assistant has had at answering.
// All methods are safe for concurrent use; webhook retries for the same
// CallSid serialize on the conversation's own lock.
type Conversation struct {
	mu sync.Mutex

	callSID      string
	callerID     string
	startedAt    time.Time
	lastActivity time.Time

	attemptCount      int
	turns             []Turn
	questions         []string
	escalated         bool
	awaitingVoicemail bool

	threshold int
}

// NewConversation creates a fresh conversation for one telephony call.
// A threshold below 1 falls back to the default.
func NewConversation(callSID, callerID string, threshold int) *Conversation {
	if threshold < 1 {
		threshold = DefaultEscalationThreshold
	}
	now := time.Now()
	return &Conversation{
		callSID:      callSID,
		callerID:     callerID,
		startedAt:    now,
		lastActivity: now,
		threshold:    threshold,
	}
}

func (c *Conversation) CallSID() string  { return c.callSID }
func (c *Conversation) CallerID() string { return c.callerID }

// AddQuestion records a caller utterance and counts it as an answer attempt.
// Blank utterances are rejected without mutating any state.
func (c *Conversation) AddQuestion(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyUtterance
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attemptCount++
	c.questions = append(c.questions, text)
	c.turns = append(c.turns, Turn{Role: RoleCaller, Text: text})
	c.lastActivity = time.Now()
	return nil
}

// AddAnswer records the assistant's reply. It does not count as an attempt.
func (c *Conversation) AddAnswer(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, Turn{Role: RoleAgent, Text: text})
	c.lastActivity = time.Now()
}

// AttemptCount returns how many caller questions have been recorded.
func (c *Conversation) AttemptCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attemptCount
}

// ShouldEscalate reports whether the attempt threshold has been reached.
func (c *Conversation) ShouldEscalate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attemptCount >= c.threshold
}

// MarkEscalated flags the conversation as handed off and awaiting voicemail.
func (c *Conversation) MarkEscalated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.escalated = true
	c.awaitingVoicemail = true
	c.lastActivity = time.Now()
}

// Escalated reports whether the call has been handed to a human.
func (c *Conversation) Escalated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.escalated
}

// AwaitingVoicemail reports whether the call is in the voicemail sub-state.
func (c *Conversation) AwaitingVoicemail() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.awaitingVoicemail
}

// History returns a copy of the full turn list, callers and agent replies
// interleaved in insertion order.
func (c *Conversation) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Questions returns a copy of the caller's questions in order asked.
func (c *Conversation) Questions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.questions))
	copy(out, c.questions)
	return out
}

// Summary renders the notification body: caller, timestamp, and the numbered
// list of questions. Safe to call repeatedly; mutates nothing.
func (c *Conversation) Summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var b strings.Builder
	fmt.Fprintf(&b, "Caller: %s\n", c.callerID)
	fmt.Fprintf(&b, "Time: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	for i, q := range c.questions {
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, q)
	}
	return b.String()
}

// Transcript returns the caller's raw words, one utterance per line, with
// agent turns dropped.
func (c *Conversation) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.questions, "\n")
}

// IdleSince reports the last time the conversation was touched.
func (c *Conversation) IdleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActivity
}

// StartedAt reports when the conversation was created.
func (c *Conversation) StartedAt() time.Time { return c.startedAt }
