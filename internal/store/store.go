package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resource-booking-backend/internal/booking"
	"resource-booking-backend/internal/failure"
	"resource-booking-backend/internal/model"
	"resource-booking-backend/internal/parse"
)

// DefaultColor is used for assets created without a display color.
const DefaultColor = "#3b82f6"

var endOfTime = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// pgExclusionViolation is the SQLSTATE raised by the bookings_no_overlap constraint.
const pgExclusionViolation = "23P01"

// Store defines the interface for all database operations.
type Store interface {
	ListAssets(ctx context.Context) ([]model.Asset, error)
	GetAsset(ctx context.Context, id string) (model.Asset, error)
	CreateAsset(ctx context.Context, asset model.Asset) (model.Asset, error)
	UpdateAsset(ctx context.Context, id string, update AssetUpdate) (model.Asset, error)
	DeleteAsset(ctx context.Context, id string) error
	SetMaintenance(ctx context.Context, id string, maintenance bool) (model.Asset, error)

	ListBookings(ctx context.Context, filter BookingFilter) ([]model.Booking, error)
	GetBooking(ctx context.Context, id string) (model.Booking, error)
	CreateBooking(ctx context.Context, candidate model.Booking, now time.Time) (model.Booking, error)
	DeleteBooking(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (model.Settings, error)
	UpdateSettings(ctx context.Context, settings model.Settings) (model.Settings, error)

	PutSubscription(ctx context.Context, sub model.PushSubscription, assetIDs []string) error
	GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForAsset(ctx context.Context, assetID string) ([]model.PushSubscription, error)

	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db       *gorm.DB
	defaults model.Settings
	locks    *keyedMutex
}

// NewGormStore creates a new GORM-backed store. defaults fill settings fields that
// have never been saved.
func NewGormStore(db *gorm.DB, defaults model.Settings) Store {
	return &gormStore{db: db, defaults: defaults, locks: newKeyedMutex()}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// --- Assets ---

func (s *gormStore) ListAssets(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	// Assets without a sort order go last, then alphabetically.
	if err := s.db.WithContext(ctx).
		Order("CASE WHEN sort_order IS NULL THEN 1 ELSE 0 END, sort_order, name, id").
		Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

func (s *gormStore) GetAsset(ctx context.Context, id string) (model.Asset, error) {
	return findAsset(s.db.WithContext(ctx), id)
}

func findAsset(tx *gorm.DB, id string) (model.Asset, error) {
	var asset model.Asset
	if err := tx.First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Asset{}, failure.NotFound("asset not found")
		}
		return model.Asset{}, fmt.Errorf("failed to get asset %s: %w", id, err)
	}
	return asset, nil
}

func (s *gormStore) CreateAsset(ctx context.Context, asset model.Asset) (model.Asset, error) {
	asset.ID = uuid.NewString()
	if asset.Color == "" {
		asset.Color = DefaultColor
	}
	if err := s.db.WithContext(ctx).Create(&asset).Error; err != nil {
		return model.Asset{}, fmt.Errorf("failed to create asset: %w", err)
	}
	log.Info().Str("asset_id", asset.ID).Str("name", asset.Name).Msg("asset created")
	return asset, nil
}

func (s *gormStore) UpdateAsset(ctx context.Context, id string, update AssetUpdate) (model.Asset, error) {
	var asset model.Asset
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if asset, err = findAsset(tx, id); err != nil {
			return err
		}
		applyUpdate(&asset, update)
		if err := tx.Save(&asset).Error; err != nil {
			return fmt.Errorf("failed to update asset %s: %w", id, err)
		}
		return nil
	})
	return asset, err
}

func applyUpdate(asset *model.Asset, u AssetUpdate) {
	if u.Name != nil {
		asset.Name = *u.Name
	}
	if u.Type != nil {
		asset.Type = *u.Type
	}
	if u.Description != nil {
		asset.Description = *u.Description
	}
	if u.Color != nil {
		asset.Color = *u.Color
	}
	if u.IsMaintenance != nil {
		asset.IsMaintenance = *u.IsMaintenance
	}
	if u.Icon != nil {
		if *u.Icon == "" {
			asset.Icon = nil
		} else {
			icon := *u.Icon
			asset.Icon = &icon
		}
	}
	if u.SortOrder != nil {
		order := *u.SortOrder
		asset.SortOrder = &order
	}
}

// DeleteAsset removes the asset only; its bookings stay behind with a dangling AssetID.
func (s *gormStore) DeleteAsset(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Asset{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete asset %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return failure.NotFound("asset not found")
	}
	log.Info().Str("asset_id", id).Msg("asset deleted")
	return nil
}

func (s *gormStore) SetMaintenance(ctx context.Context, id string, maintenance bool) (model.Asset, error) {
	return s.UpdateAsset(ctx, id, AssetUpdate{IsMaintenance: &maintenance})
}

// --- Bookings ---

func (s *gormStore) ListBookings(ctx context.Context, filter BookingFilter) ([]model.Booking, error) {
	q := s.db.WithContext(ctx)
	if filter.AssetID != "" {
		q = q.Where("asset_id = ?", filter.AssetID)
	}
	if filter.NewestFirst {
		q = q.Order("created_at DESC").Order("id")
	} else {
		q = q.Order("start_time").Order("id")
	}

	var bookings []model.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	if filter.From.IsZero() && filter.To.IsZero() {
		return bookings, nil
	}
	window := booking.Interval{Start: filter.From, End: filter.To}
	if window.End.IsZero() {
		window.End = endOfTime
	}
	filtered := bookings[:0]
	for _, b := range bookings {
		if booking.Of(b).Overlaps(window) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func (s *gormStore) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	var b model.Booking
	if err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Booking{}, failure.NotFound("booking not found")
		}
		return model.Booking{}, fmt.Errorf("failed to get booking %s: %w", id, err)
	}
	return b, nil
}

// CreateBooking validates the candidate, then checks for overlaps and inserts it as
// one atomic step: creations for the same asset are serialized in-process, the
// check and insert share a transaction, and on postgres the asset row is locked
// FOR UPDATE so that other processes queue behind it.
func (s *gormStore) CreateBooking(ctx context.Context, candidate model.Booking, now time.Time) (model.Booking, error) {
	candidate.StartTime = parse.Normalize(candidate.StartTime)
	candidate.EndTime = parse.Normalize(candidate.EndTime)
	now = parse.Normalize(now)
	interval := booking.Of(candidate)

	if err := booking.Validate(interval, now); err != nil {
		return model.Booking{}, err
	}

	unlock := s.locks.Lock(candidate.AssetID)
	defer unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lookup := tx
		if tx.Dialector.Name() == "postgres" {
			lookup = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		asset, err := findAsset(lookup, candidate.AssetID)
		if err != nil {
			return err
		}
		if asset.IsMaintenance {
			return failure.Validation(booking.MsgMaintenance)
		}

		var existing []model.Booking
		if err := tx.Where("asset_id = ?", candidate.AssetID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load bookings for asset %s: %w", candidate.AssetID, err)
		}
		if booking.HasConflict(interval, booking.Intervals(existing)) {
			return failure.Conflict(booking.MsgConflict)
		}

		candidate.ID = uuid.NewString()
		candidate.CreatedAt = now
		if err := tx.Create(&candidate).Error; err != nil {
			if isExclusionViolation(err) {
				return failure.Conflict(booking.MsgConflict)
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Booking{}, err
	}

	log.Info().
		Str("booking_id", candidate.ID).
		Str("asset_id", candidate.AssetID).
		Time("start", candidate.StartTime).
		Time("end", candidate.EndTime).
		Msg("booking created")
	return candidate, nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

func (s *gormStore) DeleteBooking(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Booking{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return failure.NotFound("booking not found")
	}
	log.Info().Str("booking_id", id).Msg("booking deleted")
	return nil
}

// --- Settings ---

// GetSettings returns the stored settings with unset fields taken from the defaults.
func (s *gormStore) GetSettings(ctx context.Context) (model.Settings, error) {
	var stored model.Settings
	err := s.db.WithContext(ctx).First(&stored, model.SettingsID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return mergeSettings(stored, s.defaults), nil
}

func mergeSettings(stored, defaults model.Settings) model.Settings {
	out := stored
	out.ID = model.SettingsID
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&out.HeaderText, defaults.HeaderText)
	fill(&out.SiteTitle, defaults.SiteTitle)
	fill(&out.AccentColor, defaults.AccentColor)
	fill(&out.PlaceholderTitle, defaults.PlaceholderTitle)
	fill(&out.PlaceholderName, defaults.PlaceholderName)
	fill(&out.PlaceholderEmail, defaults.PlaceholderEmail)

	icons := maps.Clone(defaults.CategoryIcons)
	if icons == nil {
		icons = make(map[string]string)
	}
	maps.Copy(icons, stored.CategoryIcons)
	out.CategoryIcons = icons
	return out
}

// UpdateSettings replaces the settings row.
func (s *gormStore) UpdateSettings(ctx context.Context, settings model.Settings) (model.Settings, error) {
	settings.ID = model.SettingsID
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&settings).Error; err != nil {
		return model.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return s.GetSettings(ctx)
}

// --- Push subscriptions ---

// PutSubscription creates or replaces a subscription and the assets it watches.
func (s *gormStore) PutSubscription(ctx context.Context, sub model.PushSubscription, assetIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&sub).Error; err != nil {
			return fmt.Errorf("failed to upsert subscription: %w", err)
		}

		var assets []model.Asset
		if len(assetIDs) > 0 {
			if err := tx.Where("id IN ?", assetIDs).Find(&assets).Error; err != nil {
				return fmt.Errorf("failed to load subscribed assets: %w", err)
			}
		}

		if err := tx.Model(&sub).Association("Assets").Replace(&assets); err != nil {
			return fmt.Errorf("failed to replace subscribed assets: %w", err)
		}
		return nil
	})
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).Preload("Assets").First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.PushSubscription{}, failure.NotFound("subscription not found")
		}
		return model.PushSubscription{}, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub := model.PushSubscription{Endpoint: endpoint}
		if err := tx.Model(&sub).Association("Assets").Clear(); err != nil {
			return fmt.Errorf("failed to clear subscribed assets: %w", err)
		}
		if err := tx.Delete(&sub).Error; err != nil {
			return fmt.Errorf("failed to delete subscription: %w", err)
		}
		return nil
	})
}

func (s *gormStore) SubscriptionsForAsset(ctx context.Context, assetID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_asset_mapping sam ON sam.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("sam.asset_id = ?", assetID).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions for asset %s: %w", assetID, err)
	}
	return subs, nil
}
