package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resource-booking-backend/config"
	"resource-booking-backend/internal/model"
)

// Init opens the configured database, runs migrations and seeds an empty database.
func Init(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(&cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.Database.EnableExclusionConstraint {
		if db.Dialector.Name() != "postgres" {
			log.Warn().Str("driver", db.Dialector.Name()).Msg("exclusion constraint requires postgres, skipping")
		} else {
			log.Info().Msg("applying booking overlap exclusion constraint")
			if err := applyExclusionDDL(db); err != nil {
				log.Warn().Err(err).Msg("failed to apply exclusion constraint, relying on application-level locking")
			}
		}
	}

	if !cfg.Database.SkipSeed {
		if err := Seed(db, cfg.Defaults); err != nil {
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	log.Info().Msg("database initialization complete")
	return db, nil
}

// Open connects to postgres or sqlite and configures the connection pool.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "postgres", "postgresql":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "sqlite3", "":
		if dir := filepath.Dir(cfg.DSN); !strings.HasPrefix(cfg.DSN, "file:") && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	return db, nil
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	log.Info().Msg("running database migrations")
	if err := db.AutoMigrate(
		&model.Asset{},
		&model.Booking{},
		&model.Settings{},
		&model.PushSubscription{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

func applyExclusionDDL(db *gorm.DB) error {
	constraints := []struct {
		name string
		ddl  string
	}{
		{
			name: "",
			ddl:  "CREATE EXTENSION IF NOT EXISTS btree_gist;",
		},
		{
			name: "bookings_period_valid",
			ddl:  "ALTER TABLE bookings ADD CONSTRAINT bookings_period_valid CHECK (start_time < end_time);",
		},
		{
			// Same half-open convention as the application check: touching bookings are allowed.
			name: "bookings_no_overlap",
			ddl: "ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap " +
				"EXCLUDE USING GIST (asset_id WITH =, tstzrange(start_time, end_time, '[)') WITH &&);",
		},
	}

	for _, c := range constraints {
		if c.name != "" {
			var count int64
			if err := db.Raw("SELECT COUNT(*) FROM pg_constraint WHERE conname = ?", c.name).Scan(&count).Error; err != nil {
				return fmt.Errorf("lookup constraint %s: %w", c.name, err)
			}
			if count > 0 {
				continue
			}
		}
		if err := db.Exec(c.ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", c.ddl, err)
		}
	}
	return nil
}
