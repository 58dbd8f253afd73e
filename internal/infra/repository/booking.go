package repository

import (
	"context"
	"errors"
	"time"

	"cabin-booking/internal/domain/booking"
	"cabin-booking/internal/infra"
	"cabin-booking/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeExclusionViolation = "23P01"

const bookingColumns = `
	id, cabin_id, start_date, end_date, party_size, jacuzzi_days,
	guest_name, guest_email, guest_phone, status, total, expires_at,
	order_ref, payment_token, payment_payload, needs_review,
	created_at, updated_at`

type BookingRepository struct {
	q db.Queryer
}

func NewBookingRepository(q db.Queryer) *BookingRepository {
	return &BookingRepository{q: q}
}

// Insert persists a new hold. The range-exclusion constraint on active
// bookings is the real conflict check; the application-level read before it
// is only advisory. Stale pending holds overlapping the new range are
// expired first so they cannot trip the constraint (the sweep job runs on a
// delay and the constraint predicate cannot consult the clock).
func (r *BookingRepository) Insert(ctx context.Context, b *booking.Booking) error {
	_, err := r.q.Exec(ctx, `
		UPDATE bookings
		SET status = 'expired', updated_at = now()
		WHERE cabin_id = $1
		  AND status = 'pending'
		  AND expires_at < now()
		  AND stay && daterange($2::date, $3::date, '[)')`,
		b.CabinID(), b.Stay().Start(), b.Stay().End())
	if err != nil {
		return infra.WrapRepoErr("failed to expire stale holds", err)
	}

	_, err = r.q.Exec(ctx, `
		INSERT INTO bookings (
			id, cabin_id, start_date, end_date, party_size, jacuzzi_days,
			guest_name, guest_email, guest_phone, status, total, expires_at,
			needs_review
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		b.ID(), b.CabinID(), b.Stay().Start(), b.Stay().End(), b.PartySize(), jacuzziDates(b.JacuzziDays()),
		b.Guest().Name, b.Guest().Email, b.Guest().Phone, b.Status().String(), b.Total(), b.ExpiresAt(),
		b.NeedsReview())
	if err != nil {
		if isExclusionViolation(err) {
			return infra.WrapRepoErr("date range overlaps an active booking", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to insert booking", err)
	}
	return nil
}

// Update persists mutable state. The previous status is part of the WHERE
// clause: with the row already locked this is belt and braces, but it makes
// a lost-update bug loud instead of silent. Reopening a canceled hold puts
// its range back under the exclusion constraint, which re-fires here — so a
// row re-entering the active set first expires stale pending holds on the
// range, exactly like the insert path, or an overdue unswept hold would
// block a range the lazy-expiry rule says is free.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking, prevStatus booking.Status) error {
	if isActiveStatus(b.Status()) && !isActiveStatus(prevStatus) {
		_, err := r.q.Exec(ctx, `
			UPDATE bookings
			SET status = 'expired', updated_at = now()
			WHERE cabin_id = $1
			  AND id <> $2
			  AND status = 'pending'
			  AND expires_at < now()
			  AND stay && daterange($3::date, $4::date, '[)')`,
			b.CabinID(), b.ID(), b.Stay().Start(), b.Stay().End())
		if err != nil {
			return infra.WrapRepoErr("failed to expire stale holds", err)
		}
	}

	tag, err := r.q.Exec(ctx, `
		UPDATE bookings
		SET status = $2, expires_at = $3, order_ref = $4, payment_token = $5,
		    payment_payload = $6, needs_review = $7, updated_at = now()
		WHERE id = $1 AND status = $8`,
		b.ID(), b.Status().String(), b.ExpiresAt(), b.OrderRef(), b.PaymentToken(),
		jsonOrNil(b.PaymentPayload()), b.NeedsReview(), prevStatus.String())
	if err != nil {
		if isExclusionViolation(err) {
			return infra.WrapRepoErr("date range overlaps an active booking", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking left expected status concurrently", nil)
	}
	return nil
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.q.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	return scanBooking(row, "failed to find booking by id")
}

func (r *BookingRepository) FindByTokenForUpdate(ctx context.Context, token string) (*booking.Booking, error) {
	row := r.q.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE payment_token = $1 FOR UPDATE`, token)
	return scanBooking(row, "failed to find booking by payment token")
}

func scanBooking(row pgx.Row, msg string) (*booking.Booking, error) {
	var (
		id, cabinID        uuid.UUID
		startDate, endDate time.Time
		partySize          int
		jacuzziDays        []time.Time
		guest              booking.Guest
		status             string
		total              int64
		expiresAt          time.Time
		orderRef, token    *string
		payload            []byte
		needsReview        bool
		createdAt          time.Time
		updatedAt          time.Time
	)
	err := row.Scan(
		&id, &cabinID, &startDate, &endDate, &partySize, &jacuzziDays,
		&guest.Name, &guest.Email, &guest.Phone, &status, &total, &expiresAt,
		&orderRef, &token, &payload, &needsReview, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr(msg, err)
	}

	stay, err := booking.NewStayRange(startDate, endDate)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt stay range in storage", err)
	}

	return booking.ReconstructBooking(
		id, cabinID, stay, partySize, booking.NewJacuzziDays(jacuzziDays), guest,
		booking.Status(status), total, expiresAt, orderRef, token, payload,
		needsReview, createdAt, updatedAt,
	), nil
}

func jacuzziDates(days booking.JacuzziDays) []time.Time {
	return []time.Time(days)
}

func jsonOrNil(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

func isActiveStatus(st booking.Status) bool {
	return st == booking.StatusPending || st == booking.StatusPaid
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeExclusionViolation
}
