//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"cabin-booking/internal/domain/availability"
	"cabin-booking/internal/domain/booking"
	"cabin-booking/internal/pkg/errs"
	"cabin-booking/internal/usecase/commands"
	"cabin-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateHold(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending hold with the quoted total", func(t *testing.T) {
		e := newEnv(t, "mock")

		view, err := e.holds.CreateHold(ctx, commands.CreateHoldInput{
			CabinID:     testCabinID,
			StartDate:   dayOf("2025-02-10"),
			EndDate:     dayOf("2025-02-12"),
			PartySize:   5,
			JacuzziDays: []time.Time{dayOf("2025-02-10"), dayOf("2025-02-11")},
			Guest:       booking.Guest{Name: "Kovacs Anna", Email: "anna@example.com"},
		})
		require.NoError(t, err)

		assert.Equal(t, "pending", view.Status)
		assert.Equal(t, int64(220000), view.Total)
		assert.Equal(t, 2, view.Nights)
		assert.Equal(t, testStart.Add(20*time.Minute), view.ExpiresAt)
		assert.Equal(t, "Forest Cabin", view.CabinName)

		created := e.store.eventsOfType(shared.EventHoldCreated)
		require.Len(t, created, 1)
		assert.Equal(t, shared.SourceGuest, created[0].Source)
	})

	t.Run("unknown cabin", func(t *testing.T) {
		e := newEnv(t, "mock")

		_, err := e.holds.CreateHold(ctx, commands.CreateHoldInput{
			CabinID:   uuid.New(),
			StartDate: dayOf("2025-02-10"),
			EndDate:   dayOf("2025-02-12"),
			PartySize: 2,
		})
		assert.ErrorIs(t, err, errs.ErrCabinNotFound)
	})

	t.Run("invalid range", func(t *testing.T) {
		e := newEnv(t, "mock")

		_, err := e.holds.CreateHold(ctx, commands.CreateHoldInput{
			CabinID:   testCabinID,
			StartDate: dayOf("2025-02-12"),
			EndDate:   dayOf("2025-02-10"),
			PartySize: 2,
		})
		assert.True(t, errs.Is(err, errs.ErrInvalidRange))
	})

	t.Run("party above capacity", func(t *testing.T) {
		e := newEnv(t, "mock")

		_, err := e.holds.CreateHold(ctx, commands.CreateHoldInput{
			CabinID:   testCabinID,
			StartDate: dayOf("2025-02-10"),
			EndDate:   dayOf("2025-02-12"),
			PartySize: 9,
		})
		assert.ErrorIs(t, err, booking.ErrCapacityExceeded)
	})

	t.Run("overlap with a live hold is rejected with the blocker's id", func(t *testing.T) {
		e := newEnv(t, "mock")
		first := e.createHold(t, "2025-02-10", "2025-02-12")

		_, err := e.holds.CreateHold(ctx, commands.CreateHoldInput{
			CabinID:   testCabinID,
			StartDate: dayOf("2025-02-11"),
			EndDate:   dayOf("2025-02-13"),
			PartySize: 2,
		})
		require.True(t, errs.Is(err, errs.ErrDateConflict))

		var conflict *errs.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, first.ID.String(), conflict.BookingID)
	})

	t.Run("back-to-back stay on the checkout day is accepted", func(t *testing.T) {
		e := newEnv(t, "mock")
		e.createHold(t, "2025-02-10", "2025-02-12")

		view := e.createHold(t, "2025-02-12", "2025-02-14")
		assert.Equal(t, "pending", view.Status)
	})

	t.Run("overdue hold on the same range is lazily expired", func(t *testing.T) {
		e := newEnv(t, "mock")
		stale := e.createHold(t, "2025-02-10", "2025-02-12")

		e.clk.Add(21 * time.Minute)

		view := e.createHold(t, "2025-02-10", "2025-02-12")
		assert.Equal(t, "pending", view.Status)
		assert.Equal(t, booking.StatusExpired, e.booking(t, stale.ID).Status())
	})

	t.Run("admin block rejects the range", func(t *testing.T) {
		e := newEnv(t, "mock")
		blocked, err := booking.NewStayRange(dayOf("2025-02-11"), dayOf("2025-02-13"))
		require.NoError(t, err)
		e.store.blocks[testCabinID] = []availability.Block{{ID: uuid.New(), Stay: blocked}}

		_, err = e.holds.CreateHold(ctx, commands.CreateHoldInput{
			CabinID:   testCabinID,
			StartDate: dayOf("2025-02-10"),
			EndDate:   dayOf("2025-02-12"),
			PartySize: 2,
		})
		assert.ErrorIs(t, err, errs.ErrDateConflict)
	})
}

func TestCancelHold(t *testing.T) {
	ctx := context.Background()

	t.Run("releases a pending hold", func(t *testing.T) {
		e := newEnv(t, "mock")
		view := e.createHold(t, "2025-02-10", "2025-02-12")

		require.NoError(t, e.holds.CancelHold(ctx, view.ID, shared.SourceManual))
		assert.Equal(t, booking.StatusCanceled, e.booking(t, view.ID).Status())

		canceled := e.store.eventsOfType(shared.EventHoldCanceled)
		require.Len(t, canceled, 1)
		assert.Equal(t, shared.SourceManual, canceled[0].Source)

		// The range is free again.
		e.createHold(t, "2025-02-10", "2025-02-12")
	})

	t.Run("unknown booking", func(t *testing.T) {
		e := newEnv(t, "mock")
		err := e.holds.CancelHold(ctx, uuid.New(), shared.SourceManual)
		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})

	t.Run("refuses a non-pending booking", func(t *testing.T) {
		e := newEnv(t, "mock")
		view := e.createHold(t, "2025-02-10", "2025-02-12")
		require.NoError(t, e.holds.CancelHold(ctx, view.ID, shared.SourceManual))

		err := e.holds.CancelHold(ctx, view.ID, shared.SourceManual)
		assert.True(t, errs.Is(err, errs.ErrNotPending))
	})
}

func TestReopenHold(t *testing.T) {
	ctx := context.Background()

	t.Run("restores a canceled hold with a fresh expiry", func(t *testing.T) {
		e := newEnv(t, "mock")
		view := e.createHold(t, "2025-02-10", "2025-02-12")
		require.NoError(t, e.holds.CancelHold(ctx, view.ID, shared.SourceManual))

		e.clk.Add(time.Hour)

		reopened, err := e.holds.ReopenHold(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, "pending", reopened.Status)
		assert.Equal(t, testStart.Add(time.Hour+20*time.Minute), reopened.ExpiresAt)

		events := e.store.eventsOfType(shared.EventHoldReopened)
		require.Len(t, events, 1)
	})

	t.Run("reopen re-checks the range", func(t *testing.T) {
		e := newEnv(t, "mock")
		view := e.createHold(t, "2025-02-10", "2025-02-12")
		require.NoError(t, e.holds.CancelHold(ctx, view.ID, shared.SourceManual))

		// Dates were taken while the hold sat canceled.
		blocker := e.createHold(t, "2025-02-11", "2025-02-13")

		_, err := e.holds.ReopenHold(ctx, view.ID)
		require.True(t, errs.Is(err, errs.ErrDateConflict))

		var conflict *errs.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, blocker.ID.String(), conflict.BookingID)
		assert.Equal(t, booking.StatusCanceled, e.booking(t, view.ID).Status())
	})

	t.Run("reopens over a range held only by an overdue hold", func(t *testing.T) {
		e := newEnv(t, "mock")
		view := e.createHold(t, "2025-02-10", "2025-02-12")
		require.NoError(t, e.holds.CancelHold(ctx, view.ID, shared.SourceManual))

		// Someone else took the dates, then let their hold run out before
		// the sweeper reached it.
		squatter := e.createHold(t, "2025-02-10", "2025-02-12")
		e.clk.Add(21 * time.Minute)

		reopened, err := e.holds.ReopenHold(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, "pending", reopened.Status)
		assert.Equal(t, booking.StatusExpired, e.booking(t, squatter.ID).Status())
	})

	t.Run("refuses a pending hold", func(t *testing.T) {
		e := newEnv(t, "mock")
		view := e.createHold(t, "2025-02-10", "2025-02-12")

		_, err := e.holds.ReopenHold(ctx, view.ID)
		assert.True(t, errs.Is(err, errs.ErrNotCanceled))
	})
}
