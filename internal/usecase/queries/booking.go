package queries

import (
	"context"
	"time"

	"cabin-booking/internal/domain/availability"
	"cabin-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListAll(ctx context.Context, limit, offset int32) ([]*BookingListItem, error)
	WindowsOverlapping(ctx context.Context, cabinID uuid.UUID, from, to time.Time) ([]availability.BookingWindow, error)
}

type CabinReadStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type AdminBlockReadStore interface {
	BlocksOverlapping(ctx context.Context, cabinID uuid.UUID, from, to time.Time) ([]availability.Block, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListAdmin(ctx context.Context, limit, offset int32) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	bookings BookingReadStore
}

func NewBookingQueries(bookings BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{bookings: bookings}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrBookingNotFound)
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListAdmin(ctx context.Context, limit, offset int32) ([]*BookingListItem, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return q.bookings.ListAll(ctx, limit, offset)
}
