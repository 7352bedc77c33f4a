package notify

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/frontdesk/frontdesk-backend/internal/config"
)

// SheetsChannel appends one row per notification to a Google spreadsheet,
// which doubles as a lightweight escalation log the operator can sort.
type SheetsChannel struct {
	spreadsheetID string
	sheetRange    string
	credsJSON     []byte
}

// NewSheetsChannel returns nil when the spreadsheet settings are incomplete.
func NewSheetsChannel(cfg config.SheetsConfig) *SheetsChannel {
	if cfg.SpreadsheetID == "" || cfg.CredentialsJSON == "" {
		return nil
	}
	sheetRange := cfg.SheetRange
	if sheetRange == "" {
		sheetRange = "Escalations!A:E"
	}
	return &SheetsChannel{
		spreadsheetID: cfg.SpreadsheetID,
		sheetRange:    sheetRange,
		credsJSON:     []byte(cfg.CredentialsJSON),
	}
}

func (c *SheetsChannel) Name() string { return "sheets" }

func (c *SheetsChannel) Send(ctx context.Context, n Notification) error {
	svc, err := sheets.NewService(ctx, option.WithCredentialsJSON(c.credsJSON))
	if err != nil {
		return fmt.Errorf("failed to create sheets service: %w", err)
	}

	row := &sheets.ValueRange{
		Values: [][]interface{}{{
			n.CreatedAt.Format("2006-01-02 15:04:05"),
			n.Kind,
			n.CallerID,
			n.CallSID,
			n.Body,
		}},
	}
	_, err = svc.Spreadsheets.Values.Append(c.spreadsheetID, c.sheetRange, row).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}
