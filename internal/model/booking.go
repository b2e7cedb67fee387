package model

import "time"

// Booking reserves the half-open interval [StartTime, EndTime) on one asset.
// AssetID is not a foreign key: deleting an asset leaves its bookings behind.
type Booking struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	AssetID   string    `gorm:"size:36;not null;index:idx_bookings_asset_start,priority:1" json:"assetId"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	StartTime time.Time `gorm:"not null;index:idx_bookings_asset_start,priority:2" json:"startTime"`
	EndTime   time.Time `gorm:"not null" json:"endTime"`
	UserName  string    `gorm:"size:100;not null" json:"userName"`
	UserEmail string    `gorm:"size:100;not null" json:"userEmail"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}
