package model

import "time"

// SettingsID is the primary key of the single settings row.
const SettingsID int64 = 1

// Settings holds the site-wide display configuration edited from the admin console.
type Settings struct {
	ID               int64             `gorm:"primaryKey" json:"-"`
	HeaderText       string            `gorm:"size:100;not null" json:"headerText"`
	SiteTitle        string            `gorm:"size:100" json:"siteTitle,omitempty"`
	AccentColor      string            `gorm:"size:20" json:"accentColor,omitempty"`
	CategoryIcons    map[string]string `gorm:"serializer:json" json:"categoryIcons,omitempty"`
	PlaceholderTitle string            `gorm:"size:200" json:"placeholderTitle,omitempty"`
	PlaceholderName  string            `gorm:"size:200" json:"placeholderName,omitempty"`
	PlaceholderEmail string            `gorm:"size:200" json:"placeholderEmail,omitempty"`
	UpdatedAt        time.Time         `json:"-"`
}
