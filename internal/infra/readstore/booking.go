package readstore

import (
	"context"
	"errors"
	"time"

	"cabin-booking/internal/domain/availability"
	"cabin-booking/internal/domain/booking"
	"cabin-booking/internal/infra"
	"cabin-booking/internal/infra/db"
	"cabin-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BookingReadStore serves the query side directly from SQL, bypassing the
// aggregate. It joins the cabin name in; the write side never needs it.
type BookingReadStore struct {
	q db.Queryer
}

func NewBookingReadStore(q db.Queryer) *BookingReadStore {
	return &BookingReadStore{q: q}
}

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := s.q.QueryRow(ctx, `
		SELECT b.id, b.cabin_id, c.name, b.start_date, b.end_date, b.party_size,
		       b.jacuzzi_days, b.status, b.total, b.guest_name, b.guest_email,
		       b.guest_phone, b.expires_at, b.order_ref, b.needs_review,
		       b.created_at, b.updated_at
		FROM bookings b
		JOIN cabins c ON c.id = b.cabin_id
		WHERE b.id = $1`, id)

	var v queries.BookingView
	err := row.Scan(
		&v.ID, &v.CabinID, &v.CabinName, &v.StartDate, &v.EndDate, &v.PartySize,
		&v.JacuzziDays, &v.Status, &v.Total, &v.GuestName, &v.GuestEmail,
		&v.GuestPhone, &v.ExpiresAt, &v.OrderRef, &v.NeedsReview,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}

	v.Nights = int(v.EndDate.Sub(v.StartDate).Hours() / 24)
	v.StatusLabel = booking.Status(v.Status).Label()
	return &v, nil
}

func (s *BookingReadStore) ListAll(ctx context.Context, limit, offset int32) ([]*queries.BookingListItem, error) {
	rows, err := s.q.Query(ctx, `
		SELECT b.id, b.cabin_id, c.name, b.start_date, b.end_date, b.status,
		       b.total, b.guest_name, b.needs_review, b.created_at
		FROM bookings b
		JOIN cabins c ON c.id = b.cabin_id
		ORDER BY b.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	items := make([]*queries.BookingListItem, 0)
	for rows.Next() {
		var it queries.BookingListItem
		if err := rows.Scan(
			&it.ID, &it.CabinID, &it.CabinName, &it.StartDate, &it.EndDate,
			&it.Status, &it.Total, &it.GuestName, &it.NeedsReview, &it.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking list", err)
	}
	return items, nil
}

func (s *BookingReadStore) WindowsOverlapping(ctx context.Context, cabinID uuid.UUID, from, to time.Time) ([]availability.BookingWindow, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, start_date, end_date, status, expires_at
		FROM bookings
		WHERE cabin_id = $1
		  AND status IN ('pending', 'paid')
		  AND stay && daterange($2::date, $3::date, '[)')`,
		cabinID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load booking windows", err)
	}
	defer rows.Close()

	var windows []availability.BookingWindow
	for rows.Next() {
		var (
			id                 uuid.UUID
			startDate, endDate time.Time
			status             string
			expiresAt          time.Time
		)
		if err := rows.Scan(&id, &startDate, &endDate, &status, &expiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking window", err)
		}
		stay, err := booking.NewStayRange(startDate, endDate)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt stay range in storage", err)
		}
		windows = append(windows, availability.BookingWindow{
			ID:        id,
			Stay:      stay,
			Status:    booking.Status(status),
			ExpiresAt: expiresAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking windows", err)
	}
	return windows, nil
}
