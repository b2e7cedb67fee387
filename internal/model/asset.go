package model

import "time"

// Asset is a bookable resource such as a room, a vehicle or a piece of equipment.
type Asset struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Type          string    `gorm:"size:50;not null;index" json:"type"`
	Description   string    `gorm:"size:255" json:"description"`
	Color         string    `gorm:"size:20;not null" json:"color"`
	IsMaintenance bool      `gorm:"not null" json:"is_maintenance"`
	Icon          *string   `gorm:"size:64" json:"icon,omitempty"`
	SortOrder     *int      `json:"sortOrder,omitempty"`
	CreatedAt     time.Time `gorm:"not null" json:"-"`
	UpdatedAt     time.Time `gorm:"not null" json:"-"`
}
