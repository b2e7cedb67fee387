package booking

import (
	"time"

	"resource-booking-backend/internal/model"
)

// Status is the occupancy state shown on the kiosk display.
type Status string

const (
	StatusFree        Status = "FREE"
	StatusOccupied    Status = "OCCUPIED"
	StatusMaintenance Status = "MAINTENANCE"
)

// Occupancy is the result of resolving an asset's status at one instant.
// Booking is set only when Status is StatusOccupied.
type Occupancy struct {
	Status  Status         `json:"status"`
	Booking *model.Booking `json:"booking,omitempty"`
}

// Of returns the interval covered by b.
func Of(b model.Booking) Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// Intervals converts bookings to their intervals.
func Intervals(bookings []model.Booking) []Interval {
	out := make([]Interval, len(bookings))
	for i, b := range bookings {
		out[i] = Of(b)
	}
	return out
}

// ForAsset keeps only the bookings that belong to assetID.
func ForAsset(bookings []model.Booking, assetID string) []model.Booking {
	var out []model.Booking
	for _, b := range bookings {
		if b.AssetID == assetID {
			out = append(out, b)
		}
	}
	return out
}

// ResolveStatus decides whether asset is free, occupied or under maintenance at now.
// The maintenance flag wins over any booking. If several bookings contain now the
// earliest start is reported, ties broken by ID.
func ResolveStatus(asset model.Asset, bookings []model.Booking, now time.Time) Occupancy {
	if asset.IsMaintenance {
		return Occupancy{Status: StatusMaintenance}
	}

	var active *model.Booking
	for i := range bookings {
		b := bookings[i]
		if !Of(b).Contains(now) {
			continue
		}
		if active == nil || earlier(b, *active) {
			active = &b
		}
	}

	if active == nil {
		return Occupancy{Status: StatusFree}
	}
	return Occupancy{Status: StatusOccupied, Booking: active}
}

// NextBooking returns the earliest booking starting at or after now, or nil.
func NextBooking(bookings []model.Booking, now time.Time) *model.Booking {
	var next *model.Booking
	for i := range bookings {
		b := bookings[i]
		if b.StartTime.Before(now) {
			continue
		}
		if next == nil || earlier(b, *next) {
			next = &b
		}
	}
	return next
}

func earlier(a, b model.Booking) bool {
	if !a.StartTime.Equal(b.StartTime) {
		return a.StartTime.Before(b.StartTime)
	}
	return a.ID < b.ID
}
