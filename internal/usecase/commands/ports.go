package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderState is the engine's view of an external payment order, mapped from
// whatever status codes the gateway speaks.
type OrderState string

const (
	OrderPaid     OrderState = "paid"
	OrderPending  OrderState = "pending"
	OrderRejected OrderState = "rejected"
)

type CreateOrderRequest struct {
	OrderID       uuid.UUID
	Amount        int64
	Currency      string
	CustomerEmail string
	CallbackURL   string
	ReturnURL     string
}

type CreateOrderResponse struct {
	OrderRef    string
	Token       string
	RedirectURL string
}

// PaymentGateway is the outbound contract to the hosted payment service.
// Calls carry bounded timeouts; an error leaves the hold untouched so the
// caller can retry.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error)
	OrderStatus(ctx context.Context, token string) (OrderState, error)
}

// WebhookVerifier authenticates inbound payment notifications. It never
// fails on attacker input; anything malformed simply verifies false.
type WebhookVerifier interface {
	Verify(token, signature string) bool
}

type BookingPaidEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CabinID    uuid.UUID `json:"cabin_id"`
	GuestName  string    `json:"guest_name"`
	GuestEmail string    `json:"guest_email"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Total      int64     `json:"total"`
	Mode       string    `json:"mode"`
}

// Notifier triggers the confirmation message on the pending->paid
// transition. Fire-and-forget: a send failure never rolls back payment
// state.
type Notifier interface {
	BookingPaid(ctx context.Context, ev BookingPaidEvent) error
}
