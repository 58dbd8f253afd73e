package booking

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrInvalidStayRange  = errors.New("stay end must be after stay start")
	ErrInvalidJacuzziDay = errors.New("jacuzzi day outside the stay range")
)

const dayLayout = "2006-01-02"

// Day truncates t to a civil date at UTC midnight. All range math in the
// engine runs on values normalized through here.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StayRange is the half-open interval [start, end): the start day is
// occupied, the checkout day is free. Every occupancy and conflict decision
// in the engine goes through Contains/Overlaps so the two can never disagree
// at range boundaries.
type StayRange struct {
	start time.Time
	end   time.Time
}

func NewStayRange(start, end time.Time) (StayRange, error) {
	start, end = Day(start), Day(end)
	if !end.After(start) {
		return StayRange{}, ErrInvalidStayRange
	}
	return StayRange{start: start, end: end}, nil
}

func (r StayRange) Start() time.Time { return r.start }
func (r StayRange) End() time.Time   { return r.end }

func (r StayRange) Nights() int {
	return int(r.end.Sub(r.start).Hours() / 24)
}

// Contains reports whether day falls within [start, end). The end day is
// deliberately excluded: checkout day is bookable by the next guest.
func (r StayRange) Contains(day time.Time) bool {
	day = Day(day)
	return !day.Before(r.start) && day.Before(r.end)
}

// Overlaps is the single overlap definition for the whole engine:
// a.start < b.end && a.end > b.start. Back-to-back stays sharing a
// checkout/check-in day do not overlap.
func (r StayRange) Overlaps(other StayRange) bool {
	return r.start.Before(other.end) && r.end.After(other.start)
}

// Days returns every occupied day of the stay, checkout day excluded.
func (r StayRange) Days() []time.Time {
	days := make([]time.Time, 0, r.Nights())
	for d := r.start; d.Before(r.end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ToDaterange renders the range in PostgreSQL daterange literal form.
func (r StayRange) ToDaterange() string {
	return fmt.Sprintf("[%s,%s)", r.start.Format(dayLayout), r.end.Format(dayLayout))
}

func (r StayRange) String() string {
	return r.ToDaterange()
}

// JacuzziDays is the guest's selection of days the jacuzzi is heated.
// Normalized to sorted, deduplicated civil dates.
type JacuzziDays []time.Time

func NewJacuzziDays(days []time.Time) JacuzziDays {
	seen := make(map[time.Time]struct{}, len(days))
	out := make(JacuzziDays, 0, len(days))
	for _, d := range days {
		d = Day(d)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (j JacuzziDays) Count() int { return len(j) }

// Validate ensures every selected day is an occupied day of the stay.
func (j JacuzziDays) Validate(stay StayRange) error {
	for _, d := range j {
		if !stay.Contains(d) {
			return ErrInvalidJacuzziDay
		}
	}
	return nil
}

// Guest contact details are opaque to the engine; they travel with the hold
// for the payment order and confirmation email.
type Guest struct {
	Name  string
	Email string
	Phone string
}
