package repository

import (
	"context"
	"errors"
	"time"

	"cabin-booking/internal/domain/availability"
	"cabin-booking/internal/domain/booking"
	"cabin-booking/internal/domain/cabin"
	"cabin-booking/internal/infra"
	"cabin-booking/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CommandReads serves the write side's validation reads. It runs against
// whatever Queryer it is bound to: the pool for out-of-transaction scans
// (sweeper candidates) or the transaction for in-flight checks.
type CommandReads struct {
	q db.Queryer
}

func NewCommandReads(q db.Queryer) *CommandReads {
	return &CommandReads{q: q}
}

func (r *CommandReads) CabinByID(ctx context.Context, id uuid.UUID) (*cabin.Cabin, error) {
	var (
		name                       string
		nightly, jacuzziDay, extra int64
		includedGuests, maxGuests  int
	)
	err := r.q.QueryRow(ctx, `
		SELECT name, nightly_price, jacuzzi_day_price, included_guests, max_guests, extra_guest_price
		FROM cabins WHERE id = $1`, id).
		Scan(&name, &nightly, &jacuzziDay, &includedGuests, &maxGuests, &extra)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("cabin not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find cabin by id", err)
	}
	c, err := cabin.NewCabin(id, name, nightly, jacuzziDay, includedGuests, maxGuests, extra)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt cabin tariff in storage", err)
	}
	return c, nil
}

func (r *CommandReads) ActiveWindows(ctx context.Context, cabinID uuid.UUID, stay booking.StayRange) ([]availability.BookingWindow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, start_date, end_date, status, expires_at
		FROM bookings
		WHERE cabin_id = $1
		  AND status IN ('pending', 'paid')
		  AND stay && daterange($2::date, $3::date, '[)')`,
		cabinID, stay.Start(), stay.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load active booking windows", err)
	}
	defer rows.Close()
	return scanWindows(rows)
}

func (r *CommandReads) BlocksOverlapping(ctx context.Context, cabinID uuid.UUID, stay booking.StayRange) ([]availability.Block, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, start_date, end_date
		FROM admin_blocks
		WHERE cabin_id = $1
		  AND daterange(start_date, end_date, '[)') && daterange($2::date, $3::date, '[)')`,
		cabinID, stay.Start(), stay.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load admin blocks", err)
	}
	defer rows.Close()
	return scanBlocks(rows)
}

func (r *CommandReads) DuePendingIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id FROM bookings
		WHERE status = 'pending' AND expires_at < $1
		ORDER BY expires_at
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan due pending holds", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read due pending holds", err)
	}
	return ids, nil
}

func scanWindows(rows pgx.Rows) ([]availability.BookingWindow, error) {
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

func scanBlocks(rows pgx.Rows) ([]availability.Block, error) {
	var blocks []availability.Block
	for rows.Next() {
		var (
			id                 uuid.UUID
			startDate, endDate time.Time
		)
		if err := rows.Scan(&id, &startDate, &endDate); err != nil {
			return nil, infra.WrapRepoErr("failed to scan admin block", err)
		}
		stay, err := booking.NewStayRange(startDate, endDate)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt block range in storage", err)
		}
		blocks = append(blocks, availability.Block{ID: id, Stay: stay})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read admin blocks", err)
	}
	return blocks, nil
}
