package radio

import (
	"context"
	"database/sql"

	"dkl/internal/adapters/storage"
	domain "dkl/internal/domain/radio"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new radio recording store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListVisible returns visible recordings ordered by order_number.
func (s *SQLiteStore) ListVisible(ctx context.Context) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, date, audio_url, thumbnail_url, visible, order_number, created_at, updated_at
		 FROM radio_recordings WHERE visible = 1
		 ORDER BY order_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var (
			r                    domain.Row
			desc, date, thumb    sql.NullString
			visible              int
			createdAt, updatedAt string
		)
		if err := rows.Scan(&r.ID, &r.Title, &desc, &date, &r.AudioURL, &thumb, &visible, &r.OrderNumber, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.Visible = visible != 0
		r.Description = storage.StringPtr(desc)
		r.Date = storage.StringPtr(date)
		r.ThumbnailURL = storage.StringPtr(thumb)
		r.CreatedAt = storage.ParseTime(createdAt)
		r.UpdatedAt = storage.ParseTime(updatedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save inserts or updates a recording.
// PRE: r.ID is non-empty
// POST: Row is persisted
func (s *SQLiteStore) Save(ctx context.Context, r domain.Row) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO radio_recordings (id, title, description, date, audio_url, thumbnail_url, visible, order_number, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, description=excluded.description, date=excluded.date, audio_url=excluded.audio_url,
		   thumbnail_url=excluded.thumbnail_url, visible=excluded.visible, order_number=excluded.order_number,
		   updated_at=excluded.updated_at`,
		r.ID, r.Title, storage.Nullable(r.Description), storage.Nullable(r.Date), r.AudioURL,
		storage.Nullable(r.ThumbnailURL), storage.BoolInt(r.Visible), r.OrderNumber,
		storage.FormatTime(r.CreatedAt), storage.FormatTime(r.UpdatedAt))
	return err
}

// Count returns the number of stored recordings.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM radio_recordings`).Scan(&n)
	return n, err
}
