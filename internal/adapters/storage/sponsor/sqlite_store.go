package sponsor

import (
	"context"
	"database/sql"

	"dkl/internal/adapters/storage"
	domain "dkl/internal/domain/sponsor"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new sponsor store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListActive returns active sponsors whose visible flag is NULL or set.
// PRE: none
// POST: Rows ordered by order_number
func (s *SQLiteStore) ListActive(ctx context.Context) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, logo_url, website_url, order_number, is_active, visible, created_at, updated_at
		 FROM sponsors WHERE is_active = 1 AND (visible IS NULL OR visible = 1)
		 ORDER BY order_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var (
			r                    domain.Row
			desc, website        sql.NullString
			active               int
			visible              sql.NullInt64
			createdAt, updatedAt string
		)
		if err := rows.Scan(&r.ID, &r.Name, &desc, &r.LogoURL, &website, &r.OrderNumber, &active, &visible, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.Description = storage.StringPtr(desc)
		r.WebsiteURL = storage.StringPtr(website)
		r.IsActive = active != 0
		r.Visible = storage.BoolPtr(visible)
		r.CreatedAt = storage.ParseTime(createdAt)
		r.UpdatedAt = storage.ParseTime(updatedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save inserts or updates a sponsor.
// PRE: r.ID is non-empty
// POST: Row is persisted
func (s *SQLiteStore) Save(ctx context.Context, r domain.Row) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sponsors (id, name, description, logo_url, website_url, order_number, is_active, visible, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, description=excluded.description, logo_url=excluded.logo_url,
		   website_url=excluded.website_url, order_number=excluded.order_number,
		   is_active=excluded.is_active, visible=excluded.visible, updated_at=excluded.updated_at`,
		r.ID, r.Name, storage.Nullable(r.Description), r.LogoURL, storage.Nullable(r.WebsiteURL),
		r.OrderNumber, storage.BoolInt(r.IsActive), storage.NullableBool(r.Visible),
		storage.FormatTime(r.CreatedAt), storage.FormatTime(r.UpdatedAt))
	return err
}

// Count returns the number of stored sponsors.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sponsors`).Scan(&n)
	return n, err
}
