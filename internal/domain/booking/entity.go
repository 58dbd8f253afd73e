package booking

import (
	"errors"
	"time"

	"cabin-booking/internal/domain/cabin"

	"github.com/google/uuid"
)

var (
	ErrAlreadyPaid      = errors.New("booking is already paid")
	ErrLateConfirmation = errors.New("payment confirmed after the hold was finalized")
	ErrNotPending       = errors.New("booking is not pending")
	ErrNotCanceled      = errors.New("booking is not canceled")
	ErrHoldNotDue       = errors.New("hold has not expired yet")
	ErrOrderAlreadyOpen = errors.New("payment order already opened")
)

// Booking is a hold on a cabin date range. A pending hold reserves the range
// until expiresAt; payment moves it to paid, the sweeper (or a lazy read)
// moves an abandoned one to expired. The row is never deleted by the engine.
type Booking struct {
	id             uuid.UUID
	cabinID        uuid.UUID
	stay           StayRange
	partySize      int
	jacuzziDays    JacuzziDays
	guest          Guest
	status         Status
	quote          Quote
	expiresAt      time.Time
	orderRef       *string
	paymentToken   *string
	paymentPayload []byte
	needsReview    bool
	createdAt      time.Time
	updatedAt      time.Time
}

// NewBooking prices the stay and creates a pending hold expiring holdFor
// from now. Conflict checking happens at the persistence boundary on insert.
func NewBooking(c *cabin.Cabin, stay StayRange, partySize int, jacuzzi JacuzziDays, guest Guest, now time.Time, holdFor time.Duration) (*Booking, error) {
	quote, err := Price(c, stay, partySize, jacuzzi)
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:          uuid.New(),
		cabinID:     c.ID(),
		stay:        stay,
		partySize:   partySize,
		jacuzziDays: jacuzzi,
		guest:       guest,
		status:      StatusPending,
		quote:       quote,
		expiresAt:   now.Add(holdFor),
	}, nil
}

func ReconstructBooking(
	id, cabinID uuid.UUID,
	stay StayRange,
	partySize int,
	jacuzzi JacuzziDays,
	guest Guest,
	status Status,
	total int64,
	expiresAt time.Time,
	orderRef, paymentToken *string,
	paymentPayload []byte,
	needsReview bool,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:             id,
		cabinID:        cabinID,
		stay:           stay,
		partySize:      partySize,
		jacuzziDays:    jacuzzi,
		guest:          guest,
		status:         status,
		quote:          Quote{Total: total},
		expiresAt:      expiresAt,
		orderRef:       orderRef,
		paymentToken:   paymentToken,
		paymentPayload: paymentPayload,
		needsReview:    needsReview,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ActiveAt reports whether the booking occupies its range at the given
// instant: paid, or pending with an unexpired hold. A pending hold past its
// expiry no longer blocks anyone even if the sweeper has not written
// "expired" yet (lazy expiry).
func (b *Booking) ActiveAt(now time.Time) bool {
	switch b.status {
	case StatusPaid:
		return true
	case StatusPending:
		return b.expiresAt.After(now)
	default:
		return false
	}
}

// IsDue reports whether the hold is pending and past its expiry.
func (b *Booking) IsDue(now time.Time) bool {
	return b.status == StatusPending && !b.expiresAt.After(now)
}

// MarkPaid applies an authoritative payment confirmation. A pending hold is
// confirmed even past its expiry: payment truth outranks a stale clock and
// wins the race against the sweeper. Replayed confirmations on an already
// paid booking return ErrAlreadyPaid so callers can answer with success.
func (b *Booking) MarkPaid(payload []byte) error {
	switch b.status {
	case StatusPaid:
		return ErrAlreadyPaid
	case StatusPending:
		b.status = StatusPaid
		b.paymentPayload = payload
		return nil
	default:
		return ErrLateConfirmation
	}
}

// FlagForReview records a confirmation that arrived after the hold was
// expired or canceled. Money may have moved without a matching hold, so the
// payload is kept verbatim and the booking is flagged for a human.
func (b *Booking) FlagForReview(payload []byte) {
	b.paymentPayload = payload
	b.needsReview = true
}

// Expire transitions a past-due pending hold to expired. It is a no-op on
// any non-pending status so that lazy checks and the sweep job can race each
// other without either one failing.
func (b *Booking) Expire(now time.Time) (bool, error) {
	if b.status != StatusPending {
		return false, nil
	}
	if b.expiresAt.After(now) {
		return false, ErrHoldNotDue
	}
	b.status = StatusExpired
	return true, nil
}

// Cancel releases a pending hold and clears the payment order reference so a
// fresh order can be opened if the hold is reopened later.
func (b *Booking) Cancel() error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	b.status = StatusCanceled
	b.orderRef = nil
	b.paymentToken = nil
	return nil
}

// Reopen puts a canceled hold back to pending with a fresh expiry. The
// caller must re-run the conflict check before persisting.
func (b *Booking) Reopen(now time.Time, holdFor time.Duration) error {
	if b.status != StatusCanceled {
		return ErrNotCanceled
	}
	b.status = StatusPending
	b.expiresAt = now.Add(holdFor)
	return nil
}

// AttachOrder stores the external payment order reference. One hold opens at
// most one order; duplicates are rejected.
func (b *Booking) AttachOrder(orderRef, token string) error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	if b.orderRef != nil {
		return ErrOrderAlreadyOpen
	}
	b.orderRef = &orderRef
	b.paymentToken = &token
	return nil
}

func (b *Booking) ID() uuid.UUID            { return b.id }
func (b *Booking) CabinID() uuid.UUID       { return b.cabinID }
func (b *Booking) Stay() StayRange          { return b.stay }
func (b *Booking) PartySize() int           { return b.partySize }
func (b *Booking) JacuzziDays() JacuzziDays { return b.jacuzziDays }
func (b *Booking) Guest() Guest             { return b.guest }
func (b *Booking) Status() Status           { return b.status }
func (b *Booking) PriceQuote() Quote        { return b.quote }
func (b *Booking) Total() int64             { return b.quote.Total }
func (b *Booking) ExpiresAt() time.Time     { return b.expiresAt }
func (b *Booking) OrderRef() *string        { return b.orderRef }
func (b *Booking) PaymentToken() *string    { return b.paymentToken }
func (b *Booking) PaymentPayload() []byte   { return b.paymentPayload }
func (b *Booking) NeedsReview() bool        { return b.needsReview }
func (b *Booking) CreatedAt() time.Time     { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time     { return b.updatedAt }
