package repository

import (
	"context"

	"cabin-booking/internal/infra"
	"cabin-booking/internal/infra/db"
	"cabin-booking/internal/usecase/shared"
)

// PaymentEventRepository appends to the audit log. Append-only and
// write-only from the engine's perspective; rows are never read back here.
type PaymentEventRepository struct {
	q db.Queryer
}

func NewPaymentEventRepository(q db.Queryer) *PaymentEventRepository {
	return &PaymentEventRepository{q: q}
}

func (r *PaymentEventRepository) Append(ctx context.Context, ev shared.PaymentEvent) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payment_events (booking_id, type, source, mode, outcome, payload)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.BookingID, ev.Type, ev.Source, nilIfEmpty(ev.Mode), ev.Outcome, jsonOrNil(ev.Payload))
	if err != nil {
		return infra.WrapRepoErr("failed to append payment event", err)
	}
	return nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
