package shared

import (
	"context"
	"time"

	"cabin-booking/internal/domain/availability"
	"cabin-booking/internal/domain/booking"
	"cabin-booking/internal/domain/cabin"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: write transaction with serialization-failure retry
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: reads outside a transaction (sweeper candidate scan etc.)
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	PaymentEvents() PaymentEventRepository
	Reads() CommandReads
}

type BookingRepository interface {
	// Insert persists a new hold. The conflict check runs inside the
	// database as a range-exclusion constraint; a surviving overlap comes
	// back as a KindConflict repository error wrapping errs.ConflictError.
	Insert(ctx context.Context, b *booking.Booking) error
	// Update persists status/order/payload changes. Status transitions carry
	// a WHERE guard on the previous status so racing writers cannot clobber
	// each other; the exclusion constraint re-checks reopened ranges.
	Update(ctx context.Context, b *booking.Booking, prevStatus booking.Status) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByTokenForUpdate(ctx context.Context, token string) (*booking.Booking, error)
}

type PaymentEventRepository interface {
	Append(ctx context.Context, ev PaymentEvent) error
}

type CommandReads interface {
	CabinByID(ctx context.Context, id uuid.UUID) (*cabin.Cabin, error)
	ActiveWindows(ctx context.Context, cabinID uuid.UUID, stay booking.StayRange) ([]availability.BookingWindow, error)
	BlocksOverlapping(ctx context.Context, cabinID uuid.UUID, stay booking.StayRange) ([]availability.Block, error)
	DuePendingIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
}
