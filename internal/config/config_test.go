package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
)

func loadFrom(t *testing.T, vars map[string]string) (Config, error) {
	t.Helper()
	return load(env.Options{Environment: vars})
}

// TestLoad_Defaults verifies an empty environment yields a usable development config.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFrom(t, map[string]string{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.IsProduction() {
		t.Error("default env should not be production")
	}
	if cfg.EmailConfigured() {
		t.Error("email should not be configured without DKL_RESEND_KEY")
	}
	want := time.Date(2026, 5, 16, 10, 0, 0, 0, time.FixedZone("", 2*60*60))
	if !cfg.EventDate.Equal(want) {
		t.Errorf("EventDate = %v, want %v", cfg.EventDate, want)
	}
	if cfg.OutboxInterval != time.Minute {
		t.Errorf("OutboxInterval = %v, want 1m", cfg.OutboxInterval)
	}
}

// TestLoad_Validation covers cross-field rules.
func TestLoad_Validation(t *testing.T) {
	validKey := strings.Repeat("ab", 32)

	tests := []struct {
		name    string
		vars    map[string]string
		wantErr string
	}{
		{
			name:    "production without csrf key",
			vars:    map[string]string{"DKL_ENV": "production"},
			wantErr: "DKL_CSRF_KEY is required",
		},
		{
			name: "production with csrf key",
			vars: map[string]string{"DKL_ENV": "production", "DKL_CSRF_KEY": validKey},
		},
		{
			name:    "short csrf key",
			vars:    map[string]string{"DKL_CSRF_KEY": "abcd"},
			wantErr: "64 hex characters",
		},
		{
			name:    "zero rate limit",
			vars:    map[string]string{"DKL_RATE_LIMIT": "0"},
			wantErr: "DKL_RATE_LIMIT",
		},
		{
			name: "deadline after event",
			vars: map[string]string{
				"DKL_EVENT_DATE":            "2026-05-16T10:00:00+02:00",
				"DKL_REGISTRATION_DEADLINE": "2026-05-17T10:00:00+02:00",
			},
			wantErr: "DKL_REGISTRATION_DEADLINE",
		},
		{
			name:    "plain admin token",
			vars:    map[string]string{"DKL_ADMIN_TOKEN_HASH": "geheim"},
			wantErr: "DKL_ADMIN_TOKEN_HASH must be a bcrypt hash",
		},
		{
			name: "bcrypt token hashes",
			vars: map[string]string{
				"DKL_STEPS_TOKEN_HASH": "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
				"DKL_ADMIN_TOKEN_HASH": "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
			},
		},
		{
			name:    "unparsable duration",
			vars:    map[string]string{"DKL_OUTBOX_INTERVAL": "soon"},
			wantErr: "parse env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFrom(t, tt.vars)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestConfig_CSRFSecret verifies both the configured and generated key paths.
func TestConfig_CSRFSecret(t *testing.T) {
	cfg := Config{CSRFKey: strings.Repeat("0f", 32)}
	key, err := cfg.CSRFSecret()
	if err != nil {
		t.Fatalf("CSRFSecret: %v", err)
	}
	if len(key) != 32 || key[0] != 0x0f {
		t.Errorf("decoded key = %x", key)
	}

	generated, err := Config{}.CSRFSecret()
	if err != nil {
		t.Fatalf("CSRFSecret (generated): %v", err)
	}
	if len(generated) != 32 {
		t.Errorf("generated key length = %d, want 32", len(generated))
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := (Config{LogLevel: tt.in}).SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
