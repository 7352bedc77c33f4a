package notify

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/frontdesk/frontdesk-backend/internal/config"
)

// EmailChannel delivers notifications through the Gmail API using an OAuth2
// refresh token obtained once out of band.
type EmailChannel struct {
	tokenSource oauth2.TokenSource
	from        string
	to          string
}

// NewEmailChannel returns nil when the Gmail OAuth2 settings are incomplete.
func NewEmailChannel(cfg config.EmailConfig) *EmailChannel {
	if cfg.To == "" || cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil
	}
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailSendScope},
	}
	ts := oauthCfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.RefreshToken})
	from := cfg.From
	if from == "" {
		from = "me"
	}
	return &EmailChannel{tokenSource: ts, from: from, to: cfg.To}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Send(ctx context.Context, n Notification) error {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(c.tokenSource))
	if err != nil {
		return fmt.Errorf("failed to create gmail service: %w", err)
	}

	rfc822 := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		c.from, c.to, n.Subject, n.Body)
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(rfc822))}

	if _, err := svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
