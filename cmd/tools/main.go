// Command tools bundles operational smoke checks: verifying the Twilio
// credentials can actually send an SMS, and pushing a test notification
// through every configured channel.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/frontdesk/frontdesk-backend/internal/config"
	"github.com/frontdesk/frontdesk-backend/internal/notify"
	"github.com/frontdesk/frontdesk-backend/internal/records"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: tools <command>")
		fmt.Println("Commands:")
		fmt.Println("  test-sms     Send a test SMS to the operator number")
		fmt.Println("  test-notify  Push a test notification through all channels")
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	switch os.Args[1] {
	case "test-sms":
		testSMS(cfg)
	case "test-notify":
		testNotify(cfg)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func testSMS(cfg *config.Config) {
	fmt.Printf("TWILIO_ACCOUNT_SID: %s\n", cfg.Twilio.AccountSID)
	fmt.Printf("TWILIO_PHONE_NUMBER: %s\n", cfg.Twilio.PhoneNumber)
	fmt.Printf("OPERATOR_PHONE_NUMBER: %s\n", cfg.Twilio.OperatorNumber)

	ch := notify.NewSMSChannel(cfg.Twilio)
	if ch == nil {
		log.Fatal("Twilio SMS is not fully configured")
	}

	n := notify.NewNotification("test", "Test message from the phone system", "If you can read this, SMS delivery works.", "", cfg.Twilio.OperatorNumber)
	if err := ch.Send(context.Background(), n); err != nil {
		log.Fatal("SMS error: ", err)
	}
	fmt.Println("SMS sent successfully!")
}

func testNotify(cfg *config.Config) {
	var channels []notify.Channel
	if ch := notify.NewSMSChannel(cfg.Twilio); ch != nil {
		channels = append(channels, ch)
	}
	if ch := notify.NewEmailChannel(cfg.Notify.Email); ch != nil {
		channels = append(channels, ch)
	}
	if ch := notify.NewSheetsChannel(cfg.Notify.Sheets); ch != nil {
		channels = append(channels, ch)
	}
	if ch := notify.NewTelegramChannel(cfg.Notify.Telegram); ch != nil {
		channels = append(channels, ch)
	}
	if cfg.DatabaseConfigured() {
		store, err := records.Open(cfg.Database)
		if err != nil {
			log.Fatal("Failed to open call record store: ", err)
		}
		defer store.Close()
		channels = append(channels, records.NewChannel(store))
	}

	d := notify.NewDispatcher(channels...)
	fmt.Printf("Configured channels: %v\n", d.Channels())

	n := notify.NewNotification("test", "Test notification", "Notification fan-out smoke check.", "", "")
	d.Dispatch(context.Background(), n)
}
