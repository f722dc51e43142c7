// Package config loads runtime settings from DKL_* environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvProduction is the DKL_ENV value that enables production checks.
const EnvProduction = "production"

// Config holds all settings for the site server.
type Config struct {
	Env      string `env:"DKL_ENV" envDefault:"development"`
	Addr     string `env:"DKL_ADDR" envDefault:":8080"`
	DBPath   string `env:"DKL_DB_PATH" envDefault:"dkl.db"`
	Seed     bool   `env:"DKL_SEED" envDefault:"true"`
	LogLevel string `env:"DKL_LOG_LEVEL" envDefault:"info"`

	ResendKey  string `env:"DKL_RESEND_KEY"`
	EmailFrom  string `env:"DKL_EMAIL_FROM" envDefault:"De Koninklijke Loop <noreply@dekoninklijkeloop.nl>"`
	ReplyTo    string `env:"DKL_REPLY_TO" envDefault:"info@dekoninklijkeloop.nl"`
	AdminEmail string `env:"DKL_ADMIN_EMAIL" envDefault:"info@dekoninklijkeloop.nl"`

	SiteOrigin     string `env:"DKL_SITE_ORIGIN" envDefault:"https://www.dekoninklijkeloop.nl"`
	CSRFKey        string `env:"DKL_CSRF_KEY"`
	StepsTokenHash string `env:"DKL_STEPS_TOKEN_HASH"`
	AdminTokenHash string `env:"DKL_ADMIN_TOKEN_HASH"`
	RateLimit      int    `env:"DKL_RATE_LIMIT" envDefault:"10"`

	SlowRequestMs  int           `env:"DKL_SLOW_REQUEST_MS" envDefault:"200"`
	SlowQueryMs    int           `env:"DKL_SLOW_QUERY_MS" envDefault:"50"`
	OutboxInterval time.Duration `env:"DKL_OUTBOX_INTERVAL" envDefault:"1m"`

	EventDate            time.Time `env:"DKL_EVENT_DATE" envDefault:"2026-05-16T10:00:00+02:00"`
	RegistrationDeadline time.Time `env:"DKL_REGISTRATION_DEADLINE" envDefault:"2026-05-15T23:59:59+02:00"`
	EarlyBirdEnd         time.Time `env:"DKL_EARLY_BIRD_END" envDefault:"2026-03-01T00:00:00+01:00"`
}

// Load parses the process environment and validates the result.
// PRE: none
// POST: Returns a validated Config or the first parse/validation error
func Load() (Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field rules.
// PRE: cfg has been parsed
// POST: Returns nil if the configuration is usable
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("DKL_ADDR must not be empty")
	}
	if c.RateLimit <= 0 {
		return errors.New("DKL_RATE_LIMIT must be positive")
	}
	if c.RegistrationDeadline.After(c.EventDate) {
		return errors.New("DKL_REGISTRATION_DEADLINE must not be after DKL_EVENT_DATE")
	}
	if c.IsProduction() && c.CSRFKey == "" {
		return errors.New("DKL_CSRF_KEY is required in production")
	}
	if c.CSRFKey != "" {
		if _, err := decodeKey(c.CSRFKey); err != nil {
			return err
		}
	}
	for name, hash := range map[string]string{
		"DKL_STEPS_TOKEN_HASH": c.StepsTokenHash,
		"DKL_ADMIN_TOKEN_HASH": c.AdminTokenHash,
	} {
		if hash != "" && !strings.HasPrefix(hash, "$2") {
			return fmt.Errorf("%s must be a bcrypt hash", name)
		}
	}
	return nil
}

// IsProduction reports whether DKL_ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// EmailConfigured reports whether outbound email can be delivered.
func (c Config) EmailConfigured() bool {
	return c.ResendKey != "" && c.EmailFrom != ""
}

// CSRFSecret returns the 32-byte CSRF key.
// Outside production a random key is generated when DKL_CSRF_KEY is unset.
// PRE: Validate has passed
// POST: Returns a 32-byte key
func (c Config) CSRFSecret() ([]byte, error) {
	if c.CSRFKey != "" {
		return decodeKey(c.CSRFKey)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	slog.Warn("csrf_key_random", "hint", "set DKL_CSRF_KEY so form tokens survive restarts")
	return key, nil
}

// SlogLevel maps DKL_LOG_LEVEL to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func decodeKey(keyHex string) ([]byte, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != 32 {
		return nil, errors.New("DKL_CSRF_KEY must be 64 hex characters (32 bytes)")
	}
	return key, nil
}
