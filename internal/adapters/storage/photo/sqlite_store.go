package photo

import (
	"context"
	"database/sql"

	"dkl/internal/adapters/storage"
	domain "dkl/internal/domain/photo"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new photo store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListVisible returns visible photos ordered by year then creation time,
// newest first.
func (s *SQLiteStore) ListVisible(ctx context.Context) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, alt_text, thumbnail_url, title, description, year, visible, created_at
		 FROM photos WHERE visible = 1
		 ORDER BY COALESCE(year, 0) DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var (
			r                  domain.Row
			thumb, title, desc sql.NullString
			year               sql.NullInt64
			visible            int
			createdAt          string
		)
		if err := rows.Scan(&r.ID, &r.URL, &r.AltText, &thumb, &title, &desc, &year, &visible, &createdAt); err != nil {
			return nil, err
		}
		r.ThumbnailURL = storage.StringPtr(thumb)
		r.Title = storage.StringPtr(title)
		r.Description = storage.StringPtr(desc)
		r.Year = storage.IntPtr(year)
		r.Visible = visible != 0
		r.CreatedAt = storage.ParseTime(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save inserts or updates a photo.
// PRE: r.ID is non-empty
// POST: Row is persisted
func (s *SQLiteStore) Save(ctx context.Context, r domain.Row) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO photos (id, url, alt_text, thumbnail_url, title, description, year, visible, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   url=excluded.url, alt_text=excluded.alt_text, thumbnail_url=excluded.thumbnail_url,
		   title=excluded.title, description=excluded.description, year=excluded.year, visible=excluded.visible`,
		r.ID, r.URL, r.AltText, storage.Nullable(r.ThumbnailURL), storage.Nullable(r.Title),
		storage.Nullable(r.Description), storage.Nullable(r.Year), storage.BoolInt(r.Visible),
		storage.FormatTime(r.CreatedAt))
	return err
}

// Count returns the number of stored photos.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photos`).Scan(&n)
	return n, err
}
