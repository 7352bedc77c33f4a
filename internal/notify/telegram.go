package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/frontdesk/frontdesk-backend/internal/config"
)

// TelegramChannel pushes notifications to a Telegram chat, the quickest
// channel when the operator lives in a messenger rather than over SMS.
type TelegramChannel struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramChannel returns nil when the bot token or chat ID is missing,
// or when the bot cannot authenticate.
func NewTelegramChannel(cfg config.TelegramConfig) *TelegramChannel {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil
	}
	return &TelegramChannel{bot: bot, chatID: cfg.ChatID}
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Send(ctx context.Context, n Notification) error {
	msg := tgbotapi.NewMessage(c.chatID, fmt.Sprintf("%s\n\n%s", n.Subject, n.Body))
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
