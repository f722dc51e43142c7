package partner

import (
	"context"
	"database/sql"

	"dkl/internal/adapters/storage"
	domain "dkl/internal/domain/partner"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new partner store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListVisible returns visible partners ordered by order_number.
// PRE: none
// POST: Returns rows as stored; shape is checked by the caller
func (s *SQLiteStore) ListVisible(ctx context.Context) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, logo, website, tier, since, visible, order_number, created_at, updated_at
		 FROM partners WHERE visible = 1 ORDER BY order_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var (
			r                    domain.Row
			desc, logo, website  sql.NullString
			visible              int
			createdAt, updatedAt string
		)
		if err := rows.Scan(&r.ID, &r.Name, &desc, &logo, &website, &r.Tier, &r.Since, &visible, &r.OrderNumber, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.Description = storage.StringPtr(desc)
		r.Logo = storage.StringPtr(logo)
		r.Website = storage.StringPtr(website)
		r.Visible = visible != 0
		r.CreatedAt = storage.ParseTime(createdAt)
		r.UpdatedAt = storage.ParseTime(updatedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save inserts or updates a partner.
// PRE: r.ID is non-empty
// POST: Row is persisted
func (s *SQLiteStore) Save(ctx context.Context, r domain.Row) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO partners (id, name, description, logo, website, tier, since, visible, order_number, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, description=excluded.description, logo=excluded.logo, website=excluded.website,
		   tier=excluded.tier, since=excluded.since, visible=excluded.visible, order_number=excluded.order_number,
		   updated_at=excluded.updated_at`,
		r.ID, r.Name, storage.Nullable(r.Description), storage.Nullable(r.Logo), storage.Nullable(r.Website),
		r.Tier, r.Since, storage.BoolInt(r.Visible), r.OrderNumber,
		storage.FormatTime(r.CreatedAt), storage.FormatTime(r.UpdatedAt))
	return err
}

// Count returns the number of stored partners.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM partners`).Scan(&n)
	return n, err
}
