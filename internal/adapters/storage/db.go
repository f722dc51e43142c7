package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// migration moves the schema from version-1 to version.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "content tables",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS partners (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT,
				logo TEXT,
				website TEXT,
				tier TEXT NOT NULL DEFAULT 'partner',
				since TEXT NOT NULL DEFAULT '',
				visible INTEGER NOT NULL DEFAULT 1,
				order_number INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS sponsors (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT,
				logo_url TEXT NOT NULL,
				website_url TEXT,
				order_number INTEGER NOT NULL DEFAULT 0,
				is_active INTEGER NOT NULL DEFAULT 1,
				visible INTEGER,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS videos (
				id TEXT PRIMARY KEY,
				video_id TEXT NOT NULL DEFAULT '',
				url TEXT NOT NULL,
				title TEXT,
				description TEXT,
				thumbnail_url TEXT,
				visible INTEGER,
				order_number INTEGER,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS program_schedule (
				id TEXT PRIMARY KEY,
				time TEXT NOT NULL,
				event_description TEXT NOT NULL,
				category TEXT,
				icon_name TEXT,
				latitude REAL,
				longitude REAL,
				order_number INTEGER NOT NULL DEFAULT 0,
				visible INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS cta_cards (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				subtitle TEXT,
				button_text TEXT NOT NULL,
				button_link TEXT NOT NULL,
				display_order INTEGER NOT NULL DEFAULT 0,
				is_active INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS social_media_embeds (
				id TEXT PRIMARY KEY,
				platform TEXT NOT NULL,
				title TEXT,
				embed_code TEXT NOT NULL,
				post_url TEXT,
				section TEXT NOT NULL DEFAULT 'home',
				display_order INTEGER NOT NULL DEFAULT 0,
				is_active INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS title_section_content (
				id TEXT PRIMARY KEY,
				event_title TEXT NOT NULL,
				event_subtitle TEXT,
				image_url TEXT,
				image_alt TEXT,
				detail_1_title TEXT,
				detail_1_description TEXT,
				detail_2_title TEXT,
				detail_2_description TEXT,
				detail_3_title TEXT,
				detail_3_description TEXT,
				participant_count INTEGER,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS photos (
				id TEXT PRIMARY KEY,
				url TEXT NOT NULL,
				alt_text TEXT NOT NULL DEFAULT '',
				thumbnail_url TEXT,
				title TEXT,
				description TEXT,
				year INTEGER,
				visible INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL
			)`,
		},
	},
	{
		version: 2,
		name:    "submissions, steps and outbox",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS contact_formulieren (
				id TEXT PRIMARY KEY,
				naam TEXT NOT NULL,
				email TEXT NOT NULL,
				bericht TEXT NOT NULL,
				privacy_akkoord INTEGER NOT NULL,
				status TEXT NOT NULL DEFAULT 'nieuw',
				email_verzonden INTEGER NOT NULL DEFAULT 0,
				email_verzonden_op TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS aanmeldingen (
				id TEXT PRIMARY KEY,
				naam TEXT NOT NULL,
				email TEXT NOT NULL,
				telefoon TEXT NOT NULL DEFAULT '',
				rol TEXT NOT NULL,
				afstand TEXT NOT NULL DEFAULT '',
				ondersteuning TEXT NOT NULL,
				bijzonderheden TEXT NOT NULL DEFAULT '',
				terms INTEGER NOT NULL,
				status TEXT NOT NULL DEFAULT 'pending',
				email_verzonden INTEGER NOT NULL DEFAULT 0,
				email_verzonden_op TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_aanmeldingen_email ON aanmeldingen (email COLLATE NOCASE)`,
			`CREATE TABLE IF NOT EXISTS participant_steps (
				naam TEXT PRIMARY KEY,
				steps INTEGER NOT NULL DEFAULT 0,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS outbox (
				id TEXT PRIMARY KEY,
				action_type TEXT NOT NULL,
				payload TEXT NOT NULL,
				status TEXT NOT NULL,
				attempts INTEGER NOT NULL DEFAULT 0,
				max_attempts INTEGER NOT NULL DEFAULT 5,
				last_attempted_at TEXT NOT NULL DEFAULT '',
				next_attempt_at TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				external_id TEXT NOT NULL DEFAULT '',
				error_message TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox (status, next_attempt_at)`,
		},
	},
	{
		version: 3,
		name:    "radio recordings and faq",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS radio_recordings (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				description TEXT,
				date TEXT,
				audio_url TEXT NOT NULL,
				thumbnail_url TEXT,
				visible INTEGER NOT NULL DEFAULT 1,
				order_number INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS faq_items (
				id TEXT PRIMARY KEY,
				category TEXT NOT NULL,
				category_icon TEXT NOT NULL DEFAULT '',
				question TEXT NOT NULL,
				answer TEXT NOT NULL,
				icon TEXT NOT NULL DEFAULT '',
				action INTEGER NOT NULL DEFAULT 0,
				action_text TEXT,
				order_number INTEGER NOT NULL DEFAULT 0,
				visible INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL
			)`,
		},
	},
}

// LatestSchemaVersion is the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, 0 for a fresh database.
// PRE: db is open
// POST: Returns the highest recorded version
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_version: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB applies pending migrations, each in its own transaction. An
// on-disk database that already holds a schema is backed up next to path
// before it is changed.
// PRE: db is open; path is the file db was opened from, or ":memory:"
// POST: Schema is at LatestSchemaVersion
func MigrateDB(db *sql.DB, path string) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	if current >= LatestSchemaVersion() {
		return nil
	}
	if current > 0 && path != "" && path != ":memory:" {
		backup := fmt.Sprintf("%s.v%d.bak", path, current)
		if _, err := db.ExecContext(ctx, `VACUUM INTO ?`, backup); err != nil {
			return fmt.Errorf("backup before migration: %w", err)
		}
		slog.Info("schema_backup", "path", backup)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name)
	}
	return nil
}

func apply(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, stmt := range m.stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, name, applied_at) VALUES (?, ?, ?)`,
		m.version, m.name, FormatTime(time.Now())); err != nil {
		return err
	}
	return tx.Commit()
}
