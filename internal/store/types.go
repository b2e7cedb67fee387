package store

import "time"

// AssetUpdate carries a partial asset edit; nil fields are left unchanged.
type AssetUpdate struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=100"`
	Type          *string `json:"type" binding:"omitempty,min=1,max=50"`
	Description   *string `json:"description" binding:"omitempty,max=255"`
	Color         *string `json:"color" binding:"omitempty,hexcolor"`
	IsMaintenance *bool   `json:"is_maintenance"`
	Icon          *string `json:"icon" binding:"omitempty,max=64"`
	SortOrder     *int    `json:"sortOrder"`
}

// BookingFilter narrows ListBookings. Zero values mean "no restriction".
type BookingFilter struct {
	AssetID string
	// From and To select bookings overlapping [From, To).
	From time.Time
	To   time.Time
	// NewestFirst orders by creation time descending instead of by start time.
	NewestFirst bool
}
