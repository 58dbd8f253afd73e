package commands

import (
	"context"
	"time"

	"cabin-booking/internal/domain/availability"
	"cabin-booking/internal/domain/booking"
	"cabin-booking/internal/infra"
	"cabin-booking/internal/pkg/clock"
	"cabin-booking/internal/pkg/config"
	"cabin-booking/internal/pkg/errs"
	"cabin-booking/internal/usecase/queries"
	"cabin-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateHoldInput struct {
	CabinID     uuid.UUID
	StartDate   time.Time
	EndDate     time.Time
	PartySize   int
	JacuzziDays []time.Time
	Guest       booking.Guest
}

type HoldCommands interface {
	CreateHold(ctx context.Context, in CreateHoldInput) (*queries.BookingView, error)
	CancelHold(ctx context.Context, id uuid.UUID, source string) error
	ReopenHold(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
}

type holdCommandsImpl struct {
	uow            shared.UnitOfWork
	bookingQueries queries.BookingQueries
	clock          clock.Clock
	holdDuration   time.Duration
}

func NewHoldCommands(uow shared.UnitOfWork, bookingQueries queries.BookingQueries, clk clock.Clock, cfg config.BookingConfig) HoldCommands {
	return &holdCommandsImpl{
		uow:            uow,
		bookingQueries: bookingQueries,
		clock:          clk,
		holdDuration:   cfg.HoldDuration,
	}
}

// CreateHold validates and prices the stay, then inserts the pending hold.
// The availability check and the insert are one atomic unit at the database:
// the range-exclusion constraint rejects a concurrent overlapping hold even
// when both requests pass the application-level read.
func (h *holdCommandsImpl) CreateHold(ctx context.Context, in CreateHoldInput) (*queries.BookingView, error) {
	stay, err := booking.NewStayRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidRange)
	}

	var bookingID uuid.UUID
	err = h.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cab, err := tx.Reads().CabinByID(ctx, in.CabinID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrCabinNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		blocks, err := tx.Reads().BlocksOverlapping(ctx, in.CabinID, stay)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if availability.IsBlocked(stay, blocks) {
			return errs.ErrDateConflict
		}

		b, err := booking.NewBooking(cab, stay, in.PartySize, booking.NewJacuzziDays(in.JacuzziDays), in.Guest, h.clock.Now(), h.holdDuration)
		if err != nil {
			return err
		}

		if err := tx.Bookings().Insert(ctx, b); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return err
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		bookingID = b.ID()
		return tx.PaymentEvents().Append(ctx, shared.PaymentEvent{
			BookingID: bookingID,
			Type:      shared.EventHoldCreated,
			Source:    shared.SourceGuest,
			Outcome:   booking.StatusPending.String(),
		})
	})
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, h.conflictError(ctx, in.CabinID, stay)
		}
		return nil, err
	}

	return h.bookingQueries.GetByID(ctx, bookingID)
}

// conflictError resolves which active booking blocked the range so the
// caller can explain the rejection. Ran after the failed transaction rolled
// back; if the culprit expired in the meantime a bare conflict is returned.
func (h *holdCommandsImpl) conflictError(ctx context.Context, cabinID uuid.UUID, stay booking.StayRange) error {
	windows, err := h.uow.CommandReads().ActiveWindows(ctx, cabinID, stay)
	if err != nil {
		return errs.ErrDateConflict
	}
	if id, ok := availability.FindConflict(stay, windows, h.clock.Now()); ok {
		return errs.Mark(&errs.ConflictError{BookingID: id.String()}, errs.ErrDateConflict)
	}
	return errs.ErrDateConflict
}

func (h *holdCommandsImpl) CancelHold(ctx context.Context, id uuid.UUID, source string) error {
	return h.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrBookingNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		prev := b.Status()
		if err := b.Cancel(); err != nil {
			return errs.Mark(err, errs.ErrNotPending)
		}
		if err := tx.Bookings().Update(ctx, b, prev); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		return tx.PaymentEvents().Append(ctx, shared.PaymentEvent{
			BookingID: id,
			Type:      shared.EventHoldCanceled,
			Source:    source,
			Outcome:   booking.StatusCanceled.String(),
		})
	})
}

// ReopenHold puts a canceled hold back to pending with a fresh expiry. The
// conflict check runs again: days may have been taken while the hold sat
// canceled. The exclusion constraint re-fires on the status update itself,
// so the recheck is atomic the same way CreateHold is.
func (h *holdCommandsImpl) ReopenHold(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		cabinID uuid.UUID
		stay    booking.StayRange
	)
	err := h.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrBookingNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		cabinID, stay = b.CabinID(), b.Stay()

		blocks, err := tx.Reads().BlocksOverlapping(ctx, cabinID, stay)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if availability.IsBlocked(stay, blocks) {
			return errs.ErrDateConflict
		}

		prev := b.Status()
		if err := b.Reopen(h.clock.Now(), h.holdDuration); err != nil {
			return errs.Mark(err, errs.ErrNotCanceled)
		}
		if err := tx.Bookings().Update(ctx, b, prev); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return err
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		return tx.PaymentEvents().Append(ctx, shared.PaymentEvent{
			BookingID: id,
			Type:      shared.EventHoldReopened,
			Source:    shared.SourceManual,
			Outcome:   booking.StatusPending.String(),
		})
	})
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, h.conflictError(ctx, cabinID, stay)
		}
		return nil, err
	}

	return h.bookingQueries.GetByID(ctx, id)
}
