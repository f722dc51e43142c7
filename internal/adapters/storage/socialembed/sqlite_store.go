package socialembed

import (
	"context"
	"database/sql"

	"dkl/internal/adapters/storage"
	domain "dkl/internal/domain/socialembed"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new embed store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListActive returns active embeds of section ordered by display_order.
// PRE: section is non-empty
// POST: Rows as stored; embed code is sanitised by the caller
func (s *SQLiteStore) ListActive(ctx context.Context, section string) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, platform, title, embed_code, post_url, section, display_order, is_active, created_at, updated_at
		 FROM social_media_embeds WHERE is_active = 1 AND section = ?
		 ORDER BY display_order ASC`, section)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var (
			r                    domain.Row
			title, postURL       sql.NullString
			active               int
			createdAt, updatedAt string
		)
		if err := rows.Scan(&r.ID, &r.Platform, &title, &r.EmbedCode, &postURL, &r.Section, &r.DisplayOrder, &active, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.Title = storage.StringPtr(title)
		r.PostURL = storage.StringPtr(postURL)
		r.IsActive = active != 0
		r.CreatedAt = storage.ParseTime(createdAt)
		r.UpdatedAt = storage.ParseTime(updatedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save inserts or updates an embed.
// PRE: r.ID is non-empty
// POST: Row is persisted
func (s *SQLiteStore) Save(ctx context.Context, r domain.Row) error {
	section := r.Section
	if section == "" {
		section = domain.SectionHome
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO social_media_embeds (id, platform, title, embed_code, post_url, section, display_order, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   platform=excluded.platform, title=excluded.title, embed_code=excluded.embed_code,
		   post_url=excluded.post_url, section=excluded.section, display_order=excluded.display_order,
		   is_active=excluded.is_active, updated_at=excluded.updated_at`,
		r.ID, r.Platform, storage.Nullable(r.Title), r.EmbedCode, storage.Nullable(r.PostURL), section,
		r.DisplayOrder, storage.BoolInt(r.IsActive), storage.FormatTime(r.CreatedAt), storage.FormatTime(r.UpdatedAt))
	return err
}

// Count returns the number of stored embeds.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM social_media_embeds`).Scan(&n)
	return n, err
}
