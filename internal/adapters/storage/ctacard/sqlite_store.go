package ctacard

import (
	"context"
	"database/sql"

	"dkl/internal/adapters/storage"
	domain "dkl/internal/domain/ctacard"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new card store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListActive returns active cards ordered by display_order.
func (s *SQLiteStore) ListActive(ctx context.Context) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, subtitle, button_text, button_link, display_order, is_active, created_at, updated_at
		 FROM cta_cards WHERE is_active = 1 ORDER BY display_order ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var (
			r                    domain.Row
			subtitle             sql.NullString
			active               int
			createdAt, updatedAt string
		)
		if err := rows.Scan(&r.ID, &r.Title, &subtitle, &r.ButtonText, &r.ButtonLink, &r.DisplayOrder, &active, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.Subtitle = storage.StringPtr(subtitle)
		r.IsActive = active != 0
		r.CreatedAt = storage.ParseTime(createdAt)
		r.UpdatedAt = storage.ParseTime(updatedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save inserts or updates a card.
// PRE: r.ID is non-empty
// POST: Row is persisted
func (s *SQLiteStore) Save(ctx context.Context, r domain.Row) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cta_cards (id, title, subtitle, button_text, button_link, display_order, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, subtitle=excluded.subtitle, button_text=excluded.button_text,
		   button_link=excluded.button_link, display_order=excluded.display_order,
		   is_active=excluded.is_active, updated_at=excluded.updated_at`,
		r.ID, r.Title, storage.Nullable(r.Subtitle), r.ButtonText, r.ButtonLink, r.DisplayOrder,
		storage.BoolInt(r.IsActive), storage.FormatTime(r.CreatedAt), storage.FormatTime(r.UpdatedAt))
	return err
}

// Count returns the number of stored cards.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cta_cards`).Scan(&n)
	return n, err
}
