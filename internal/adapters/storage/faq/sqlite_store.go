package faq

import (
	"context"
	"database/sql"

	"dkl/internal/adapters/storage"
	domain "dkl/internal/domain/faq"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new FAQ store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListVisible returns visible items. Categories come in the order of their
// lowest order_number.
func (s *SQLiteStore) ListVisible(ctx context.Context) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT f.id, f.category, f.category_icon, f.question, f.answer, f.icon, f.action, f.action_text,
		        f.order_number, f.visible, f.created_at
		 FROM faq_items f
		 JOIN (SELECT category, MIN(order_number) AS first FROM faq_items WHERE visible = 1 GROUP BY category) c
		   ON c.category = f.category
		 WHERE f.visible = 1
		 ORDER BY c.first ASC, f.category ASC, f.order_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var (
			r               domain.Row
			actionText      sql.NullString
			action, visible int
			createdAt       string
		)
		if err := rows.Scan(&r.ID, &r.Category, &r.CategoryIcon, &r.Question, &r.Answer, &r.Icon, &action, &actionText,
			&r.OrderNumber, &visible, &createdAt); err != nil {
			return nil, err
		}
		r.Action = action != 0
		r.ActionText = storage.StringPtr(actionText)
		r.Visible = visible != 0
		r.CreatedAt = storage.ParseTime(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save inserts or updates an item.
// PRE: r.ID is non-empty
// POST: Row is persisted
func (s *SQLiteStore) Save(ctx context.Context, r domain.Row) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO faq_items (id, category, category_icon, question, answer, icon, action, action_text, order_number, visible, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   category=excluded.category, category_icon=excluded.category_icon, question=excluded.question,
		   answer=excluded.answer, icon=excluded.icon, action=excluded.action, action_text=excluded.action_text,
		   order_number=excluded.order_number, visible=excluded.visible`,
		r.ID, r.Category, r.CategoryIcon, r.Question, r.Answer, r.Icon, storage.BoolInt(r.Action),
		storage.Nullable(r.ActionText), r.OrderNumber, storage.BoolInt(r.Visible), storage.FormatTime(r.CreatedAt))
	return err
}

// Count returns the number of stored items.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM faq_items`).Scan(&n)
	return n, err
}
