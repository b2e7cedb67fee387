package db

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"resource-booking-backend/config"
	"resource-booking-backend/internal/model"
)

// DefaultAssets are created on first start so the dashboard is not empty.
func DefaultAssets() []model.Asset {
	return []model.Asset{
		{Name: "Konferenzraum A (Galaxy)", Type: "Room", Description: "Großer Meetingraum mit Beamer, 12 Plätze.", Color: "#3b82f6"},
		{Name: "Konferenzraum B (Nebula)", Type: "Room", Description: "Kleiner Meetingraum, 4 Plätze, Whiteboard.", Color: "#8b5cf6"},
		{Name: "Firmenwagen (Tesla Model 3)", Type: "Vehicle", Description: "Elektrofahrzeug, Reichweite 400km.", Color: "#ef4444", IsMaintenance: true},
		{Name: "Beamer Portable", Type: "Equipment", Description: "Tragbarer Beamer für externe Präsentationen.", Color: "#10b981"},
	}
}

// SettingsFromDefaults builds the settings row described by the configuration.
func SettingsFromDefaults(d config.SettingsDefaults) model.Settings {
	return model.Settings{
		ID:               model.SettingsID,
		HeaderText:       d.HeaderText,
		SiteTitle:        d.SiteTitle,
		AccentColor:      d.AccentColor,
		CategoryIcons:    maps.Clone(d.CategoryIcons),
		PlaceholderTitle: d.PlaceholderTitle,
		PlaceholderName:  d.PlaceholderName,
		PlaceholderEmail: d.PlaceholderEmail,
	}
}

// Seed inserts the default settings row and the default assets into empty tables.
func Seed(db *gorm.DB, defaults config.SettingsDefaults) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var settingsCount int64
		if err := tx.Model(&model.Settings{}).Count(&settingsCount).Error; err != nil {
			return err
		}
		if settingsCount == 0 {
			settings := SettingsFromDefaults(defaults)
			if err := tx.Create(&settings).Error; err != nil {
				return fmt.Errorf("failed to create default settings: %w", err)
			}
		}

		var assetCount int64
		if err := tx.Model(&model.Asset{}).Count(&assetCount).Error; err != nil {
			return err
		}
		if assetCount > 0 {
			return nil
		}

		assets := DefaultAssets()
		for i := range assets {
			assets[i].ID = uuid.NewString()
		}
		log.Info().Int("count", len(assets)).Msg("seeding default assets")
		if err := tx.Create(&assets).Error; err != nil {
			return fmt.Errorf("failed to create default assets: %w", err)
		}
		return nil
	})
}
