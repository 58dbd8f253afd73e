package cabin

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidTariff   = errors.New("invalid tariff")
	ErrInvalidCapacity = errors.New("invalid guest capacity")
)

// Cabin is the tariff source for pricing and availability. It is owned and
// edited by the admin back office; the booking engine only reads it.
type Cabin struct {
	id              uuid.UUID
	name            string
	nightlyPrice    int64
	jacuzziDayPrice int64
	includedGuests  int
	maxGuests       int
	extraGuestPrice int64
}

func NewCabin(id uuid.UUID, name string, nightlyPrice, jacuzziDayPrice int64, includedGuests, maxGuests int, extraGuestPrice int64) (*Cabin, error) {
	if nightlyPrice < 0 || jacuzziDayPrice < 0 || extraGuestPrice < 0 {
		return nil, ErrInvalidTariff
	}
	if includedGuests < 1 || maxGuests < includedGuests {
		return nil, ErrInvalidCapacity
	}
	return &Cabin{
		id:              id,
		name:            name,
		nightlyPrice:    nightlyPrice,
		jacuzziDayPrice: jacuzziDayPrice,
		includedGuests:  includedGuests,
		maxGuests:       maxGuests,
		extraGuestPrice: extraGuestPrice,
	}, nil
}

func (c *Cabin) ID() uuid.UUID          { return c.id }
func (c *Cabin) Name() string           { return c.name }
func (c *Cabin) NightlyPrice() int64    { return c.nightlyPrice }
func (c *Cabin) JacuzziDayPrice() int64 { return c.jacuzziDayPrice }
func (c *Cabin) IncludedGuests() int    { return c.includedGuests }
func (c *Cabin) MaxGuests() int         { return c.maxGuests }
func (c *Cabin) ExtraGuestPrice() int64 { return c.extraGuestPrice }
