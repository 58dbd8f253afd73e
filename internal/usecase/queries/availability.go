package queries

import (
	"context"
	"time"

	"cabin-booking/internal/domain/availability"
	"cabin-booking/internal/domain/booking"
	"cabin-booking/internal/pkg/clock"
	"cabin-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrInvalidMonth = errs.New("invalid calendar month")

type AvailabilityQueries interface {
	MonthCalendar(ctx context.Context, cabinID uuid.UUID, year int, month int) (*CalendarView, error)
	CheckConflict(ctx context.Context, cabinID uuid.UUID, start, end time.Time) (*ConflictCheck, error)
}

type availabilityQueriesImpl struct {
	cabins   CabinReadStore
	bookings BookingReadStore
	blocks   AdminBlockReadStore
	clock    clock.Clock
}

func NewAvailabilityQueries(cabins CabinReadStore, bookings BookingReadStore, blocks AdminBlockReadStore, clk clock.Clock) AvailabilityQueries {
	return &availabilityQueriesImpl{
		cabins:   cabins,
		bookings: bookings,
		blocks:   blocks,
		clock:    clk,
	}
}

// MonthCalendar renders one month of per-day occupancy. The day statuses are
// computed with the same half-open predicate the conflict check uses, so a
// day shown as free here cannot be rejected at hold-creation time.
func (q *availabilityQueriesImpl) MonthCalendar(ctx context.Context, cabinID uuid.UUID, year int, month int) (*CalendarView, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2200 {
		return nil, ErrInvalidMonth
	}

	exists, err := q.cabins.Exists(ctx, cabinID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to look up cabin")
	}
	if !exists {
		return nil, errs.ErrCabinNotFound
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	windows, err := q.bookings.WindowsOverlapping(ctx, cabinID, first, next)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load booking windows")
	}
	blocks, err := q.blocks.BlocksOverlapping(ctx, cabinID, first, next)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load admin blocks")
	}

	days := availability.MonthCalendar(year, time.Month(month), windows, blocks, q.clock.Now())
	return &CalendarView{
		CabinID: cabinID,
		Year:    year,
		Month:   month,
		Days:    days,
	}, nil
}

// CheckConflict is the advisory pre-check for a proposed stay. A free answer
// here is not a reservation; CreateHold re-runs the same predicate inside the
// database.
func (q *availabilityQueriesImpl) CheckConflict(ctx context.Context, cabinID uuid.UUID, start, end time.Time) (*ConflictCheck, error) {
	stay, err := booking.NewStayRange(start, end)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidRange)
	}

	exists, err := q.cabins.Exists(ctx, cabinID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to look up cabin")
	}
	if !exists {
		return nil, errs.ErrCabinNotFound
	}

	windows, err := q.bookings.WindowsOverlapping(ctx, cabinID, stay.Start(), stay.End())
	if err != nil {
		return nil, errs.Wrap(err, "failed to load booking windows")
	}
	blocks, err := q.blocks.BlocksOverlapping(ctx, cabinID, stay.Start(), stay.End())
	if err != nil {
		return nil, errs.Wrap(err, "failed to load admin blocks")
	}

	check := &ConflictCheck{Available: true}
	if id, found := availability.FindConflict(stay, windows, q.clock.Now()); found {
		check.Available = false
		check.ConflictingBookingID = &id
	}
	if availability.IsBlocked(stay, blocks) {
		check.Available = false
		check.Blocked = true
	}
	return check, nil
}
