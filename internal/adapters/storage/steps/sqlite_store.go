package steps

import (
	"context"
	"time"

	"dkl/internal/adapters/storage"
	domain "dkl/internal/domain/steps"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new steps store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Increment adds delta in one transaction so the returned total includes
// exactly this change.
// PRE: naam is non-empty, delta > 0
// POST: participant_steps updated; returns new participant and overall totals
func (s *SQLiteStore) Increment(ctx context.Context, naam string, delta int64, at time.Time) (domain.Participant, int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Participant{}, 0, err
	}
	defer tx.Rollback()

	ts := storage.FormatTime(at)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO participant_steps (naam, steps, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(naam) DO UPDATE SET steps = steps + excluded.steps, updated_at = excluded.updated_at`,
		naam, delta, ts); err != nil {
		return domain.Participant{}, 0, err
	}
	p := domain.Participant{Naam: naam, UpdatedAt: at}
	if err := tx.QueryRowContext(ctx, `SELECT steps FROM participant_steps WHERE naam = ?`, naam).Scan(&p.Steps); err != nil {
		return domain.Participant{}, 0, err
	}
	var total int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(SUM(steps), 0) FROM participant_steps`).Scan(&total); err != nil {
		return domain.Participant{}, 0, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Participant{}, 0, err
	}
	return p, total, nil
}

// Total returns the sum over all participants.
func (s *SQLiteStore) Total(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(steps), 0) FROM participant_steps`).Scan(&total)
	return total, err
}

// Top returns the n participants with the most steps, ties by name.
// PRE: n > 0
func (s *SQLiteStore) Top(ctx context.Context, n int) ([]domain.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT naam, steps, updated_at FROM participant_steps ORDER BY steps DESC, naam ASC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Participant
	for rows.Next() {
		var (
			p  domain.Participant
			ts string
		)
		if err := rows.Scan(&p.Naam, &p.Steps, &ts); err != nil {
			return nil, err
		}
		p.UpdatedAt = storage.ParseTime(ts)
		out = append(out, p)
	}
	return out, rows.Err()
}
