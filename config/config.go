package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override the config file,
// e.g. BOOKING_DATABASE_DSN or BOOKING_ADMIN_PASSWORD.
const EnvPrefix = "BOOKING"

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Admin      AdminConfig      `yaml:"admin"`
	Booking    BookingConfig    `yaml:"booking"`
	Kiosk      KioskConfig      `yaml:"kiosk"`
	Monitor    MonitorConfig    `yaml:"monitor"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Defaults   SettingsDefaults `yaml:"defaults"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	LogLevel        string   `yaml:"log_level" split_words:"true"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec" split_words:"true"`
	RateLimitBurst  int      `yaml:"rate_limit_burst" split_words:"true"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds" split_words:"true"`
	CORSOrigins     []string `yaml:"cors_origins" envconfig:"CORS_ORIGINS"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                    string `yaml:"driver"` // postgres or sqlite
	DSN                       string `yaml:"dsn"`
	MaxOpenConns              int    `yaml:"max_open_conns" split_words:"true"`
	MaxIdleConns              int    `yaml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetimeMinutes    int    `yaml:"conn_max_lifetime_minutes" split_words:"true"`
	EnableExclusionConstraint bool   `yaml:"enable_exclusion_constraint" split_words:"true"`
	SkipSeed                  bool   `yaml:"skip_seed" split_words:"true"`
}

// AdminConfig holds the credentials of the admin console.
type AdminConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// BookingConfig controls how booking requests are interpreted.
type BookingConfig struct {
	// Timezone applies to timestamps submitted without a zone designator.
	Timezone string         `yaml:"timezone"`
	Location *time.Location `yaml:"-" ignored:"true"`
}

// KioskConfig holds the refresh cadence of the kiosk stream.
type KioskConfig struct {
	RefreshSeconds int           `yaml:"refresh_seconds" split_words:"true"`
	ClockSeconds   int           `yaml:"clock_seconds" split_words:"true"`
	Refresh        time.Duration `yaml:"-" ignored:"true"`
	Clock          time.Duration `yaml:"-" ignored:"true"`
}

// MonitorConfig holds the configuration of the background occupancy sweep.
type MonitorConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds" split_words:"true"`
	Interval        time.Duration `yaml:"-" ignored:"true"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key" envconfig:"VAPID_PUBLIC_KEY"`
	PrivateKey string `yaml:"vapid_private_key" envconfig:"VAPID_PRIVATE_KEY"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// SettingsDefaults are the display settings used until an administrator saves their own.
type SettingsDefaults struct {
	HeaderText       string            `yaml:"header_text" split_words:"true"`
	SiteTitle        string            `yaml:"site_title" split_words:"true"`
	AccentColor      string            `yaml:"accent_color" split_words:"true"`
	CategoryIcons    map[string]string `yaml:"category_icons" ignored:"true"`
	PlaceholderTitle string            `yaml:"placeholder_title" split_words:"true"`
	PlaceholderName  string            `yaml:"placeholder_name" split_words:"true"`
	PlaceholderEmail string            `yaml:"placeholder_email" split_words:"true"`
}

// Load reads the configuration from the given path and applies environment overrides.
// A missing file is not an error: the defaults plus the environment are used instead.
func Load(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case os.IsNotExist(err):
		log.Warn().Str("path", path).Msg("config file not found, using defaults")
	default:
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, for tests and tooling.
func Default() *Config {
	var cfg Config
	_ = cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 20
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "instance/app.db"
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 2
	}

	if cfg.Admin.User == "" {
		cfg.Admin.User = "admin"
	}
	if cfg.Admin.Password == "" {
		log.Warn().Msg("admin.password is not set; using the built-in default")
		cfg.Admin.Password = "belegt"
	}

	if cfg.Booking.Timezone == "" {
		cfg.Booking.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", cfg.Booking.Timezone, err)
	}
	cfg.Booking.Location = loc

	if cfg.Kiosk.RefreshSeconds <= 0 {
		cfg.Kiosk.RefreshSeconds = 60
	}
	if cfg.Kiosk.ClockSeconds <= 0 {
		cfg.Kiosk.ClockSeconds = 1
	}
	cfg.Kiosk.Refresh = time.Duration(cfg.Kiosk.RefreshSeconds) * time.Second
	cfg.Kiosk.Clock = time.Duration(cfg.Kiosk.ClockSeconds) * time.Second

	if cfg.Monitor.IntervalSeconds <= 0 {
		cfg.Monitor.IntervalSeconds = 60
	}
	cfg.Monitor.Interval = time.Duration(cfg.Monitor.IntervalSeconds) * time.Second

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}

	if cfg.Defaults.HeaderText == "" {
		cfg.Defaults.HeaderText = "Buchungssystem"
	}
	return nil
}
