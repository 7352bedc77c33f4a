// Package monitor broadcasts live call events to WebSocket subscribers so
// an operator can watch conversations as they happen.
package monitor

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

// Event is one observable moment in a call's life.
type Event struct {
	Type     string    `json:"type"` // call_started, question, answer, escalated, voicemail
	CallSID  string    `json:"call_sid"`
	CallerID string    `json:"caller_id"`
	Text     string    `json:"text,omitempty"`
	At       time.Time `json:"at"`
}

const (
	EventCallStarted = "call_started"
	EventQuestion    = "question"
	EventAnswer      = "answer"
	EventEscalated   = "escalated"
	EventVoicemail   = "voicemail"
)

// Hub fans events out to connected subscribers. Publishing never blocks the
// call path: a subscriber with a full buffer misses the event.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Publish delivers ev to every subscriber with room in its buffer.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a new subscriber channel.
func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, 32)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscriber.
func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

// Stream writes hub events to a WebSocket connection until the peer goes
// away. Intended as the handler body for websocket.New.
func (h *Hub) Stream(c *websocket.Conn) {
	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	// Reader goroutine just waits for the close frame.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return
			}
			if err := c.WriteJSON(ev); err != nil {
				logrus.WithError(err).Debug("Live monitor subscriber dropped")
				return
			}
		case <-done:
			return
		}
	}
}
