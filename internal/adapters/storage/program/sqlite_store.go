package program

import (
	"context"
	"database/sql"

	"dkl/internal/adapters/storage"
	domain "dkl/internal/domain/program"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new schedule store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListVisible returns visible schedule rows ordered by order_number.
// PRE: none
// POST: Rows as stored; shape is checked by the caller
func (s *SQLiteStore) ListVisible(ctx context.Context) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, time, event_description, category, icon_name, latitude, longitude, order_number, visible, created_at
		 FROM program_schedule WHERE visible = 1 ORDER BY order_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var (
			r              domain.Row
			category, icon sql.NullString
			lat, lng       sql.NullFloat64
			visible        int
			createdAt      string
		)
		if err := rows.Scan(&r.ID, &r.Time, &r.EventDescription, &category, &icon, &lat, &lng, &r.OrderNumber, &visible, &createdAt); err != nil {
			return nil, err
		}
		r.Category = storage.StringPtr(category)
		r.IconName = storage.StringPtr(icon)
		r.Latitude = storage.FloatPtr(lat)
		r.Longitude = storage.FloatPtr(lng)
		r.Visible = visible != 0
		r.CreatedAt = storage.ParseTime(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save inserts or updates a schedule row.
// PRE: r.ID is non-empty
// POST: Row is persisted
func (s *SQLiteStore) Save(ctx context.Context, r domain.Row) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO program_schedule (id, time, event_description, category, icon_name, latitude, longitude, order_number, visible, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   time=excluded.time, event_description=excluded.event_description, category=excluded.category,
		   icon_name=excluded.icon_name, latitude=excluded.latitude, longitude=excluded.longitude,
		   order_number=excluded.order_number, visible=excluded.visible`,
		r.ID, r.Time, r.EventDescription, storage.Nullable(r.Category), storage.Nullable(r.IconName),
		storage.Nullable(r.Latitude), storage.Nullable(r.Longitude), r.OrderNumber,
		storage.BoolInt(r.Visible), storage.FormatTime(r.CreatedAt))
	return err
}

// Count returns the number of stored schedule rows.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM program_schedule`).Scan(&n)
	return n, err
}
