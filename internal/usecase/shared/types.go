package shared

import (
	"github.com/google/uuid"
)

// Payment event sources
const (
	SourceGuest   = "guest"
	SourceWebhook = "webhook"
	SourceManual  = "manual"
	SourceSweep   = "sweep"
	SourceSystem  = "system"
)

// Payment event types
const (
	EventHoldCreated   = "hold_created"
	EventHoldReopened  = "hold_reopened"
	EventOrderOpened   = "order_opened"
	EventPaymentResult = "payment_result"
	EventHoldExpired   = "hold_expired"
	EventHoldCanceled  = "hold_canceled"
)

// PaymentEvent is one append-only audit record of a state transition
// attempt. The engine only ever writes these; nothing reads them back.
type PaymentEvent struct {
	BookingID uuid.UUID
	Type      string
	Source    string
	Mode      string // "live" or "mock"
	Outcome   string
	Payload   []byte
}
