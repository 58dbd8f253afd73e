//go:build unit

package booking_test

import (
	"testing"
	"time"

	"cabin-booking/internal/domain/booking"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStayRange(t *testing.T) {
	t.Run("normalizes timestamps to UTC midnight", func(t *testing.T) {
		loc := time.FixedZone("CET", 3600)
		start := time.Date(2025, 2, 10, 15, 30, 0, 0, loc)
		end := time.Date(2025, 2, 12, 9, 0, 0, 0, loc)

		stay, err := booking.NewStayRange(start, end)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), stay.Start())
		assert.Equal(t, time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC), stay.End())
	})

	t.Run("end equal to start is rejected", func(t *testing.T) {
		_, err := booking.NewStayRange(day("2025-02-10"), day("2025-02-10"))
		assert.ErrorIs(t, err, booking.ErrInvalidStayRange)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		_, err := booking.NewStayRange(day("2025-02-12"), day("2025-02-10"))
		assert.ErrorIs(t, err, booking.ErrInvalidStayRange)
	})
}

func TestStayRangeNights(t *testing.T) {
	assert.Equal(t, 1, mustStay(t, "2025-02-10", "2025-02-11").Nights())
	assert.Equal(t, 2, mustStay(t, "2025-02-10", "2025-02-12").Nights())
	assert.Equal(t, 28, mustStay(t, "2025-02-01", "2025-03-01").Nights())
}

func TestStayRangeContains(t *testing.T) {
	stay := mustStay(t, "2025-02-10", "2025-02-12")

	assert.True(t, stay.Contains(day("2025-02-10")))
	assert.True(t, stay.Contains(day("2025-02-11")))
	// Checkout day is free for the next guest.
	assert.False(t, stay.Contains(day("2025-02-12")))
	assert.False(t, stay.Contains(day("2025-02-09")))
}

func TestStayRangeOverlaps(t *testing.T) {
	base := mustStay(t, "2025-02-10", "2025-02-12")

	t.Run("back-to-back stays do not overlap", func(t *testing.T) {
		next := mustStay(t, "2025-02-12", "2025-02-14")
		assert.False(t, base.Overlaps(next))
		assert.False(t, next.Overlaps(base))
	})

	t.Run("single shared night overlaps", func(t *testing.T) {
		other := mustStay(t, "2025-02-11", "2025-02-13")
		assert.True(t, base.Overlaps(other))
		assert.True(t, other.Overlaps(base))
	})

	t.Run("containment overlaps", func(t *testing.T) {
		outer := mustStay(t, "2025-02-01", "2025-02-28")
		assert.True(t, base.Overlaps(outer))
		assert.True(t, outer.Overlaps(base))
	})

	t.Run("disjoint ranges do not overlap", func(t *testing.T) {
		other := mustStay(t, "2025-02-20", "2025-02-22")
		assert.False(t, base.Overlaps(other))
	})

	t.Run("identical ranges overlap", func(t *testing.T) {
		same := mustStay(t, "2025-02-10", "2025-02-12")
		assert.True(t, base.Overlaps(same))
	})
}

func TestStayRangeDays(t *testing.T) {
	stay := mustStay(t, "2025-02-10", "2025-02-13")

	want := []time.Time{day("2025-02-10"), day("2025-02-11"), day("2025-02-12")}
	if diff := cmp.Diff(want, stay.Days()); diff != "" {
		t.Errorf("Days() mismatch (-want +got):\n%s", diff)
	}
}

func TestStayRangeToDaterange(t *testing.T) {
	stay := mustStay(t, "2025-02-10", "2025-02-12")
	assert.Equal(t, "[2025-02-10,2025-02-12)", stay.ToDaterange())
}

func TestNewJacuzziDays(t *testing.T) {
	t.Run("sorts and deduplicates", func(t *testing.T) {
		days := booking.NewJacuzziDays([]time.Time{
			day("2025-02-12"),
			day("2025-02-10"),
			day("2025-02-12"),
			day("2025-02-11"),
		})

		require.Equal(t, 3, days.Count())
		assert.Equal(t, day("2025-02-10"), days[0])
		assert.Equal(t, day("2025-02-11"), days[1])
		assert.Equal(t, day("2025-02-12"), days[2])
	})

	t.Run("normalizes timestamps to dates", func(t *testing.T) {
		days := booking.NewJacuzziDays([]time.Time{
			time.Date(2025, 2, 10, 18, 0, 0, 0, time.UTC),
			time.Date(2025, 2, 10, 6, 0, 0, 0, time.UTC),
		})
		assert.Equal(t, 1, days.Count())
	})
}
