package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/frontdesk/frontdesk-backend/internal/call"
	"github.com/frontdesk/frontdesk-backend/internal/records"
)

// Admin serves the operator's read-only view of live and past calls.
type Admin struct {
	store   *call.Store
	records *records.Store
}

// NewAdmin creates the admin handlers. records may be nil.
func NewAdmin(store *call.Store, recs *records.Store) *Admin {
	return &Admin{store: store, records: recs}
}

type activeCall struct {
	CallSID   string   `json:"call_sid"`
	CallerID  string   `json:"caller_id"`
	Attempts  int      `json:"attempts"`
	Escalated bool     `json:"escalated"`
	Questions []string `json:"questions"`
}

// ActiveCalls lists the sessions currently in the table.
func (h *Admin) ActiveCalls(c *fiber.Ctx) error {
	convs := h.store.Active()
	calls := make([]activeCall, 0, len(convs))
	for _, conv := range convs {
		calls = append(calls, activeCall{
			CallSID:   conv.CallSID(),
			CallerID:  conv.CallerID(),
			Attempts:  conv.AttemptCount(),
			Escalated: conv.Escalated(),
			Questions: conv.Questions(),
		})
	}
	return c.JSON(fiber.Map{"calls": calls})
}

// RecentRecords lists persisted escalation/voicemail records.
func (h *Admin) RecentRecords(c *fiber.Ctx) error {
	if h.records == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "call record store not configured",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	recs, err := h.records.Recent(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"records": recs})
}
