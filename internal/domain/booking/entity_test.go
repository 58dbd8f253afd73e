//go:build unit

package booking_test

import (
	"testing"
	"time"

	"cabin-booking/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

func newPendingBooking(t *testing.T) *booking.Booking {
	t.Helper()
	c := testCabin(t)
	stay := mustStay(t, "2025-02-10", "2025-02-12")
	guest := booking.Guest{Name: "Kovacs Anna", Email: "anna@example.com"}

	b, err := booking.NewBooking(c, stay, 2, nil, guest, baseTime, 20*time.Minute)
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	b := newPendingBooking(t)

	assert.Equal(t, booking.StatusPending, b.Status())
	assert.Equal(t, baseTime.Add(20*time.Minute), b.ExpiresAt())
	assert.Equal(t, int64(110000), b.Total())
	assert.Nil(t, b.OrderRef())
	assert.False(t, b.NeedsReview())
}

func TestBookingActiveAt(t *testing.T) {
	b := newPendingBooking(t)

	assert.True(t, b.ActiveAt(baseTime))
	assert.True(t, b.ActiveAt(baseTime.Add(19*time.Minute)))
	// At and past expiry the hold no longer blocks anyone, even before the
	// sweeper writes "expired".
	assert.False(t, b.ActiveAt(baseTime.Add(20*time.Minute)))
	assert.False(t, b.ActiveAt(baseTime.Add(time.Hour)))

	require.NoError(t, b.MarkPaid(nil))
	assert.True(t, b.ActiveAt(baseTime.Add(48*time.Hour)))
}

func TestBookingMarkPaid(t *testing.T) {
	t.Run("pending hold is confirmed", func(t *testing.T) {
		b := newPendingBooking(t)
		payload := []byte(`{"state":"paid"}`)

		require.NoError(t, b.MarkPaid(payload))
		assert.Equal(t, booking.StatusPaid, b.Status())
		assert.Equal(t, payload, b.PaymentPayload())
	})

	t.Run("payment wins against an overdue hold timer", func(t *testing.T) {
		b := newPendingBooking(t)
		// Past expiry but still pending: the confirmation lands.
		assert.True(t, b.IsDue(baseTime.Add(time.Hour)))

		require.NoError(t, b.MarkPaid(nil))
		assert.Equal(t, booking.StatusPaid, b.Status())
	})

	t.Run("replayed confirmation reports already paid", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.MarkPaid(nil))

		err := b.MarkPaid(nil)
		assert.ErrorIs(t, err, booking.ErrAlreadyPaid)
		assert.Equal(t, booking.StatusPaid, b.Status())
	})

	t.Run("confirmation on an expired hold is a late confirmation", func(t *testing.T) {
		b := newPendingBooking(t)
		_, err := b.Expire(baseTime.Add(21 * time.Minute))
		require.NoError(t, err)

		err = b.MarkPaid([]byte(`{"state":"paid"}`))
		assert.ErrorIs(t, err, booking.ErrLateConfirmation)
		assert.Equal(t, booking.StatusExpired, b.Status())
	})

	t.Run("confirmation on a canceled hold is a late confirmation", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.Cancel())

		err := b.MarkPaid(nil)
		assert.ErrorIs(t, err, booking.ErrLateConfirmation)
	})
}

func TestBookingFlagForReview(t *testing.T) {
	b := newPendingBooking(t)
	_, err := b.Expire(baseTime.Add(21 * time.Minute))
	require.NoError(t, err)

	payload := []byte(`{"state":"paid","amount":110000}`)
	b.FlagForReview(payload)

	assert.True(t, b.NeedsReview())
	assert.Equal(t, payload, b.PaymentPayload())
	assert.Equal(t, booking.StatusExpired, b.Status())
}

func TestBookingExpire(t *testing.T) {
	t.Run("past-due pending hold expires", func(t *testing.T) {
		b := newPendingBooking(t)

		changed, err := b.Expire(baseTime.Add(20 * time.Minute))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, booking.StatusExpired, b.Status())
	})

	t.Run("hold not yet due is refused", func(t *testing.T) {
		b := newPendingBooking(t)

		changed, err := b.Expire(baseTime.Add(19 * time.Minute))
		assert.ErrorIs(t, err, booking.ErrHoldNotDue)
		assert.False(t, changed)
		assert.Equal(t, booking.StatusPending, b.Status())
	})

	t.Run("expire on a finalized booking is a no-op", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.MarkPaid(nil))

		changed, err := b.Expire(baseTime.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, booking.StatusPaid, b.Status())
	})

	t.Run("expire is idempotent", func(t *testing.T) {
		b := newPendingBooking(t)
		_, err := b.Expire(baseTime.Add(time.Hour))
		require.NoError(t, err)

		changed, err := b.Expire(baseTime.Add(2 * time.Hour))
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestBookingCancelAndReopen(t *testing.T) {
	t.Run("cancel clears the payment order", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.AttachOrder("ord-1", "tok-1"))

		require.NoError(t, b.Cancel())
		assert.Equal(t, booking.StatusCanceled, b.Status())
		assert.Nil(t, b.OrderRef())
		assert.Nil(t, b.PaymentToken())
	})

	t.Run("cancel refuses a paid booking", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.MarkPaid(nil))

		assert.ErrorIs(t, b.Cancel(), booking.ErrNotPending)
	})

	t.Run("reopen restores pending with a fresh expiry", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.Cancel())

		later := baseTime.Add(2 * time.Hour)
		require.NoError(t, b.Reopen(later, 30*time.Minute))
		assert.Equal(t, booking.StatusPending, b.Status())
		assert.Equal(t, later.Add(30*time.Minute), b.ExpiresAt())
	})

	t.Run("reopen refuses anything but canceled", func(t *testing.T) {
		b := newPendingBooking(t)
		assert.ErrorIs(t, b.Reopen(baseTime, time.Minute), booking.ErrNotCanceled)
	})
}

func TestBookingAttachOrder(t *testing.T) {
	t.Run("attaches once", func(t *testing.T) {
		b := newPendingBooking(t)

		require.NoError(t, b.AttachOrder("ord-1", "tok-1"))
		require.NotNil(t, b.OrderRef())
		assert.Equal(t, "ord-1", *b.OrderRef())
		require.NotNil(t, b.PaymentToken())
		assert.Equal(t, "tok-1", *b.PaymentToken())
	})

	t.Run("second attach is rejected", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.AttachOrder("ord-1", "tok-1"))

		assert.ErrorIs(t, b.AttachOrder("ord-2", "tok-2"), booking.ErrOrderAlreadyOpen)
	})

	t.Run("attach refuses a canceled hold", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.Cancel())

		assert.ErrorIs(t, b.AttachOrder("ord-1", "tok-1"), booking.ErrNotPending)
	})
}
