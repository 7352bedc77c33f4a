package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/frontdesk/frontdesk-backend/internal/config"
)

// SMSChannel delivers notifications as text messages through the Twilio
// REST API, from the system's number to the operator's.
type SMSChannel struct {
	client *twilio.RestClient
	from   string
	to     string
}

// NewSMSChannel returns nil when the Twilio credentials or the operator
// number are missing, so callers can skip wiring it.
func NewSMSChannel(cfg config.TwilioConfig) *SMSChannel {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.PhoneNumber == "" || cfg.OperatorNumber == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &SMSChannel{client: client, from: cfg.PhoneNumber, to: cfg.OperatorNumber}
}

func (c *SMSChannel) Name() string { return "sms" }

func (c *SMSChannel) Send(ctx context.Context, n Notification) error {
	params := &openapi.CreateMessageParams{}
	params.SetFrom(c.from)
	params.SetTo(c.to)
	params.SetBody(fmt.Sprintf("%s\n\n%s", n.Subject, n.Body))

	if _, err := c.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}
