package booking

import (
	"errors"

	"cabin-booking/internal/domain/cabin"
)

var ErrCapacityExceeded = errors.New("party size exceeds cabin capacity")

// Quote is the itemized price of a stay. Amounts are integer minor currency
// units; Total is always the sum of the three components.
type Quote struct {
	Nights          int
	BasePrice       int64
	ExtraGuests     int
	ExtraGuestPrice int64
	JacuzziDayCount int
	JacuzziPrice    int64
	Total           int64
}

// Price computes the deterministic, side-effect-free quote for a stay:
// nights x nightly price, plus a nightly surcharge per guest above the
// included count, plus a flat per-day jacuzzi charge.
func Price(c *cabin.Cabin, stay StayRange, partySize int, jacuzzi JacuzziDays) (Quote, error) {
	if partySize < 1 || partySize > c.MaxGuests() {
		return Quote{}, ErrCapacityExceeded
	}
	if err := jacuzzi.Validate(stay); err != nil {
		return Quote{}, err
	}

	nights := stay.Nights()
	extraGuests := partySize - c.IncludedGuests()
	if extraGuests < 0 {
		extraGuests = 0
	}

	q := Quote{
		Nights:          nights,
		BasePrice:       int64(nights) * c.NightlyPrice(),
		ExtraGuests:     extraGuests,
		ExtraGuestPrice: int64(extraGuests) * int64(nights) * c.ExtraGuestPrice(),
		JacuzziDayCount: jacuzzi.Count(),
		JacuzziPrice:    int64(jacuzzi.Count()) * c.JacuzziDayPrice(),
	}
	q.Total = q.BasePrice + q.ExtraGuestPrice + q.JacuzziPrice
	return q, nil
}
