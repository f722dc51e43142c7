package video

import (
	"context"
	"database/sql"

	"dkl/internal/adapters/storage"
	domain "dkl/internal/domain/video"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new video store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListVisible returns videos whose visible flag is NULL or set. A NULL order
// sorts as 0.
func (s *SQLiteStore) ListVisible(ctx context.Context) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, video_id, url, title, description, thumbnail_url, visible, order_number, created_at, updated_at
		 FROM videos WHERE visible IS NULL OR visible = 1
		 ORDER BY COALESCE(order_number, 0) ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var (
			r                    domain.Row
			title, desc, thumb   sql.NullString
			visible, order       sql.NullInt64
			createdAt, updatedAt string
		)
		if err := rows.Scan(&r.ID, &r.VideoID, &r.URL, &title, &desc, &thumb, &visible, &order, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.Title = storage.StringPtr(title)
		r.Description = storage.StringPtr(desc)
		r.ThumbnailURL = storage.StringPtr(thumb)
		r.Visible = storage.BoolPtr(visible)
		r.OrderNumber = storage.IntPtr(order)
		r.CreatedAt = storage.ParseTime(createdAt)
		r.UpdatedAt = storage.ParseTime(updatedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save inserts or updates a video.
// PRE: r.ID is non-empty
// POST: Row is persisted
func (s *SQLiteStore) Save(ctx context.Context, r domain.Row) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO videos (id, video_id, url, title, description, thumbnail_url, visible, order_number, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   video_id=excluded.video_id, url=excluded.url, title=excluded.title, description=excluded.description,
		   thumbnail_url=excluded.thumbnail_url, visible=excluded.visible, order_number=excluded.order_number,
		   updated_at=excluded.updated_at`,
		r.ID, r.VideoID, r.URL, storage.Nullable(r.Title), storage.Nullable(r.Description),
		storage.Nullable(r.ThumbnailURL), storage.NullableBool(r.Visible), storage.Nullable(r.OrderNumber),
		storage.FormatTime(r.CreatedAt), storage.FormatTime(r.UpdatedAt))
	return err
}

// Count returns the number of stored videos.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&n)
	return n, err
}
