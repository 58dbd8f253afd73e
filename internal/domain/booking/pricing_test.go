//go:build unit

package booking_test

import (
	"testing"
	"time"

	"cabin-booking/internal/domain/booking"
	"cabin-booking/internal/domain/cabin"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testCabin(t *testing.T) *cabin.Cabin {
	t.Helper()
	c, err := cabin.NewCabin(uuid.New(), "Forest Cabin", 55000, 25000, 2, 8, 10000)
	require.NoError(t, err)
	return c
}

func mustStay(t *testing.T, start, end string) booking.StayRange {
	t.Helper()
	stay, err := booking.NewStayRange(day(start), day(end))
	require.NoError(t, err)
	return stay
}

func TestPrice(t *testing.T) {
	c := testCabin(t)

	t.Run("two nights, five guests, two jacuzzi days", func(t *testing.T) {
		stay := mustStay(t, "2025-02-10", "2025-02-12")
		jacuzzi := booking.NewJacuzziDays([]time.Time{day("2025-02-10"), day("2025-02-11")})

		q, err := booking.Price(c, stay, 5, jacuzzi)
		require.NoError(t, err)

		assert.Equal(t, 2, q.Nights)
		assert.Equal(t, int64(110000), q.BasePrice)
		assert.Equal(t, 3, q.ExtraGuests)
		assert.Equal(t, int64(60000), q.ExtraGuestPrice)
		assert.Equal(t, 2, q.JacuzziDayCount)
		assert.Equal(t, int64(50000), q.JacuzziPrice)
		assert.Equal(t, int64(220000), q.Total)
	})

	t.Run("party within included guests pays no surcharge", func(t *testing.T) {
		stay := mustStay(t, "2025-02-10", "2025-02-13")

		q, err := booking.Price(c, stay, 2, nil)
		require.NoError(t, err)

		assert.Equal(t, 0, q.ExtraGuests)
		assert.Equal(t, int64(0), q.ExtraGuestPrice)
		assert.Equal(t, int64(165000), q.Total)
	})

	t.Run("single guest below included count", func(t *testing.T) {
		stay := mustStay(t, "2025-02-10", "2025-02-11")

		q, err := booking.Price(c, stay, 1, nil)
		require.NoError(t, err)

		assert.Equal(t, 0, q.ExtraGuests)
		assert.Equal(t, int64(55000), q.Total)
	})

	t.Run("party above capacity is rejected", func(t *testing.T) {
		stay := mustStay(t, "2025-02-10", "2025-02-12")

		_, err := booking.Price(c, stay, 9, nil)
		assert.ErrorIs(t, err, booking.ErrCapacityExceeded)
	})

	t.Run("zero party size is rejected", func(t *testing.T) {
		stay := mustStay(t, "2025-02-10", "2025-02-12")

		_, err := booking.Price(c, stay, 0, nil)
		assert.ErrorIs(t, err, booking.ErrCapacityExceeded)
	})

	t.Run("jacuzzi day on checkout day is rejected", func(t *testing.T) {
		stay := mustStay(t, "2025-02-10", "2025-02-12")
		jacuzzi := booking.NewJacuzziDays([]time.Time{day("2025-02-12")})

		_, err := booking.Price(c, stay, 2, jacuzzi)
		assert.ErrorIs(t, err, booking.ErrInvalidJacuzziDay)
	})

	t.Run("jacuzzi day before the stay is rejected", func(t *testing.T) {
		stay := mustStay(t, "2025-02-10", "2025-02-12")
		jacuzzi := booking.NewJacuzziDays([]time.Time{day("2025-02-09")})

		_, err := booking.Price(c, stay, 2, jacuzzi)
		assert.ErrorIs(t, err, booking.ErrInvalidJacuzziDay)
	})

	t.Run("duplicate jacuzzi days are charged once", func(t *testing.T) {
		stay := mustStay(t, "2025-02-10", "2025-02-12")
		jacuzzi := booking.NewJacuzziDays([]time.Time{day("2025-02-10"), day("2025-02-10")})

		q, err := booking.Price(c, stay, 2, jacuzzi)
		require.NoError(t, err)
		assert.Equal(t, 1, q.JacuzziDayCount)
		assert.Equal(t, int64(25000), q.JacuzziPrice)
	})

	t.Run("total is the sum of the components", func(t *testing.T) {
		stay := mustStay(t, "2025-02-10", "2025-02-14")
		jacuzzi := booking.NewJacuzziDays([]time.Time{day("2025-02-11")})

		q, err := booking.Price(c, stay, 6, jacuzzi)
		require.NoError(t, err)
		assert.Equal(t, q.BasePrice+q.ExtraGuestPrice+q.JacuzziPrice, q.Total)
	})
}
