package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-booking-backend/internal/failure"
	"resource-booking-backend/internal/model"
)

var day = time.Date(2030, 5, 6, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func span(h1, m1, h2, m2 int) Interval {
	return Interval{Start: at(h1, m1), End: at(h2, m2)}
}

func TestHasConflict(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     Interval
		conflict bool
	}{
		{name: "touching endpoints", a: span(10, 0, 11, 0), b: span(11, 0, 12, 0), conflict: false},
		{name: "full containment", a: span(10, 0, 11, 0), b: span(10, 30, 10, 45), conflict: true},
		{name: "partial overlap", a: span(10, 0, 11, 0), b: span(10, 59, 12, 0), conflict: true},
		{name: "identical", a: span(9, 0, 10, 0), b: span(9, 0, 10, 0), conflict: true},
		{name: "disjoint", a: span(8, 0, 9, 0), b: span(13, 0, 14, 0), conflict: false},
		{name: "one minute gap", a: span(8, 0, 9, 0), b: span(9, 1, 10, 0), conflict: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.conflict, HasConflict(tc.a, []Interval{tc.b}))
			assert.Equal(t, tc.conflict, HasConflict(tc.b, []Interval{tc.a}), "conflict must be symmetric")
		})
	}
}

func TestHasConflict_Empty(t *testing.T) {
	assert.False(t, HasConflict(span(10, 0, 11, 0), nil))
}

func TestHasConflict_AnyOfMany(t *testing.T) {
	existing := []Interval{span(8, 0, 9, 0), span(12, 0, 13, 0), span(15, 0, 16, 0)}
	assert.True(t, HasConflict(span(12, 30, 14, 0), existing))
	assert.False(t, HasConflict(span(9, 0, 12, 0), existing))
}

func TestValidate(t *testing.T) {
	now := at(9, 0)

	testCases := []struct {
		name    string
		c       Interval
		message string
	}{
		{name: "start equals end", c: span(10, 0, 10, 0), message: MsgEndBeforeStart},
		{name: "start after end", c: span(11, 0, 10, 0), message: MsgEndBeforeStart},
		{name: "start in the past", c: span(8, 59, 10, 0), message: MsgInPast},
		{name: "starts now", c: span(9, 0, 10, 0)},
		{name: "future", c: span(10, 0, 11, 0)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.c, now)
			if tc.message == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, failure.IsValidation(err))
			assert.Equal(t, tc.message, err.Error())
		})
	}
}

func TestResolveStatus(t *testing.T) {
	asset := model.Asset{ID: "a1"}
	b := model.Booking{ID: "b1", AssetID: "a1", StartTime: at(9, 0), EndTime: at(10, 0)}

	t.Run("occupied inside the interval", func(t *testing.T) {
		occ := ResolveStatus(asset, []model.Booking{b}, at(9, 30))
		assert.Equal(t, StatusOccupied, occ.Status)
		require.NotNil(t, occ.Booking)
		assert.Equal(t, "b1", occ.Booking.ID)
	})

	t.Run("occupied at the start instant", func(t *testing.T) {
		assert.Equal(t, StatusOccupied, ResolveStatus(asset, []model.Booking{b}, at(9, 0)).Status)
	})

	t.Run("free before", func(t *testing.T) {
		occ := ResolveStatus(asset, []model.Booking{b}, at(8, 59))
		assert.Equal(t, StatusFree, occ.Status)
		assert.Nil(t, occ.Booking)
	})

	t.Run("free at the end instant", func(t *testing.T) {
		assert.Equal(t, StatusFree, ResolveStatus(asset, []model.Booking{b}, at(10, 0)).Status)
	})

	t.Run("maintenance wins over a running booking", func(t *testing.T) {
		broken := asset
		broken.IsMaintenance = true
		occ := ResolveStatus(broken, []model.Booking{b}, at(9, 30))
		assert.Equal(t, StatusMaintenance, occ.Status)
		assert.Nil(t, occ.Booking)
	})

	t.Run("overlapping bookings pick the earliest start", func(t *testing.T) {
		late := model.Booking{ID: "b0", AssetID: "a1", StartTime: at(9, 15), EndTime: at(10, 0)}
		occ := ResolveStatus(asset, []model.Booking{late, b}, at(9, 30))
		require.NotNil(t, occ.Booking)
		assert.Equal(t, "b1", occ.Booking.ID)
	})

	t.Run("equal starts pick the smaller id", func(t *testing.T) {
		twin := model.Booking{ID: "b0", AssetID: "a1", StartTime: at(9, 0), EndTime: at(9, 45)}
		occ := ResolveStatus(asset, []model.Booking{b, twin}, at(9, 30))
		require.NotNil(t, occ.Booking)
		assert.Equal(t, "b0", occ.Booking.ID)
	})
}

func TestNextBooking(t *testing.T) {
	bookings := []model.Booking{
		{ID: "past", StartTime: at(7, 0), EndTime: at(8, 0)},
		{ID: "later", StartTime: at(14, 0), EndTime: at(15, 0)},
		{ID: "soon", StartTime: at(11, 0), EndTime: at(12, 0)},
	}

	next := NextBooking(bookings, at(9, 0))
	require.NotNil(t, next)
	assert.Equal(t, "soon", next.ID)

	assert.Nil(t, NextBooking(bookings, at(16, 0)))
}

func TestForAsset(t *testing.T) {
	bookings := []model.Booking{
		{ID: "1", AssetID: "x"},
		{ID: "2", AssetID: "y"},
		{ID: "3", AssetID: "x"},
	}

	got := ForAsset(bookings, "x")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
	assert.Empty(t, ForAsset(bookings, "z"))
}
