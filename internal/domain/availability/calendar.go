// Package availability derives per-day occupancy and conflict decisions from
// booking and admin-block state. Both views are computed from the one
// half-open range definition in the booking package; there is no second
// overlap formula for a calendar to disagree with.
package availability

import (
	"time"

	"cabin-booking/internal/domain/booking"

	"github.com/google/uuid"
)

type DayStatus string

const (
	DayFree     DayStatus = "free"
	DayOccupied DayStatus = "occupied"
	DayBlocked  DayStatus = "blocked"
)

// BookingWindow is the slice of a booking the engine needs for availability:
// its range, status, and hold expiry.
type BookingWindow struct {
	ID        uuid.UUID
	Stay      booking.StayRange
	Status    booking.Status
	ExpiresAt time.Time
}

// ActiveAt mirrors booking.Booking.ActiveAt for read-side rows: paid, or
// pending with an unexpired hold. Past-due pending rows are ignored even if
// the sweep job has not written "expired" yet.
func (w BookingWindow) ActiveAt(now time.Time) bool {
	switch w.Status {
	case booking.StatusPaid:
		return true
	case booking.StatusPending:
		return w.ExpiresAt.After(now)
	default:
		return false
	}
}

// Block is an admin-imposed date range withheld from availability regardless
// of bookings (maintenance, private use).
type Block struct {
	ID   uuid.UUID
	Stay booking.StayRange
}

const dayKeyLayout = "2006-01-02"

// MonthCalendar computes the per-day status map for one month. A day is
// occupied when any active booking's [start,end) contains it — checkout days
// stay free — and blocked when an admin block covers it; blocked beats
// occupied.
func MonthCalendar(year int, month time.Month, windows []BookingWindow, blocks []Block, now time.Time) map[string]DayStatus {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	days := make(map[string]DayStatus)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		days[d.Format(dayKeyLayout)] = statusOfDay(d, windows, blocks, now)
	}
	return days
}

func statusOfDay(day time.Time, windows []BookingWindow, blocks []Block, now time.Time) DayStatus {
	for _, b := range blocks {
		if b.Stay.Contains(day) {
			return DayBlocked
		}
	}
	for _, w := range windows {
		if w.ActiveAt(now) && w.Stay.Contains(day) {
			return DayOccupied
		}
	}
	return DayFree
}

// FindConflict returns the first active booking whose range overlaps the
// proposed stay. This is the same predicate the calendar renders, so a range
// shown as free here is accepted by CreateHold (the insert-time exclusion
// constraint re-checks it atomically).
func FindConflict(stay booking.StayRange, windows []BookingWindow, now time.Time) (uuid.UUID, bool) {
	for _, w := range windows {
		if w.ActiveAt(now) && w.Stay.Overlaps(stay) {
			return w.ID, true
		}
	}
	return uuid.Nil, false
}

// IsBlocked reports whether any admin block overlaps the proposed stay.
func IsBlocked(stay booking.StayRange, blocks []Block) bool {
	for _, b := range blocks {
		if b.Stay.Overlaps(stay) {
			return true
		}
	}
	return false
}
