package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Notification is the rendered payload sent to every configured channel.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"` // "escalation" or "voicemail"
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CallSID   string    `json:"call_sid"`
	CallerID  string    `json:"caller_id"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	KindEscalation = "escalation"
	KindVoicemail  = "voicemail"
)

// NewNotification stamps a payload with an ID and timestamp.
func NewNotification(kind, subject, body, callSID, callerID string) Notification {
	return Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Subject:   subject,
		Body:      body,
		CallSID:   callSID,
		CallerID:  callerID,
		CreatedAt: time.Now(),
	}
}

// Channel is one outbound side-effect: an SMS, an email, a spreadsheet row,
// a chat message, or a database record.
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
}

// Dispatcher fans a notification out to every configured channel.
// Delivery is fire-and-forget: a failing channel is logged and skipped,
// and no error ever reaches the call path.
type Dispatcher struct {
	channels []Channel
}

// NewDispatcher creates a dispatcher over the given channels.
func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels}
}

// Configured reports whether at least one channel is wired.
func (d *Dispatcher) Configured() bool {
	return len(d.channels) > 0
}

// Channels returns the names of the wired channels.
func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.channels))
	for _, ch := range d.channels {
		names = append(names, ch.Name())
	}
	return names
}

// Dispatch sends n to every channel. With no channels configured the
// notification is only logged, mirroring how an unconfigured deployment
// still shows what it would have sent.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) {
	if len(d.channels) == 0 {
		logrus.WithFields(logrus.Fields{
			"kind":    n.Kind,
			"caller":  n.CallerID,
			"subject": n.Subject,
		}).Infof("No notification channels configured, would send:\n%s", n.Body)
		return
	}

	for _, ch := range d.channels {
		if err := ch.Send(ctx, n); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"channel": ch.Name(),
				"kind":    n.Kind,
				"call":    n.CallSID,
			}).Error("Notification delivery failed")
			continue
		}
		logrus.WithFields(logrus.Fields{
			"channel": ch.Name(),
			"kind":    n.Kind,
			"call":    n.CallSID,
		}).Info("Notification delivered")
	}
}
