package titlesection

import (
	"context"
	"database/sql"
	"errors"

	"dkl/internal/adapters/storage"
	domain "dkl/internal/domain/titlesection"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new title section store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the most recently updated title section.
// PRE: none
// POST: Returns ErrNotFound when the table is empty
func (s *SQLiteStore) Get(ctx context.Context) (domain.Row, error) {
	var (
		r                  domain.Row
		sub, img, alt      sql.NullString
		d1t, d1d, d2t, d2d sql.NullString
		d3t, d3d           sql.NullString
		count              sql.NullInt64
		updatedAt          string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, event_title, event_subtitle, image_url, image_alt,
		        detail_1_title, detail_1_description, detail_2_title, detail_2_description,
		        detail_3_title, detail_3_description, participant_count, updated_at
		 FROM title_section_content ORDER BY updated_at DESC LIMIT 1`).
		Scan(&r.ID, &r.EventTitle, &sub, &img, &alt, &d1t, &d1d, &d2t, &d2d, &d3t, &d3d, &count, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Row{}, ErrNotFound
	}
	if err != nil {
		return domain.Row{}, err
	}
	r.EventSubtitle = storage.StringPtr(sub)
	r.ImageURL = storage.StringPtr(img)
	r.ImageAlt = storage.StringPtr(alt)
	r.Detail1Title, r.Detail1Description = storage.StringPtr(d1t), storage.StringPtr(d1d)
	r.Detail2Title, r.Detail2Description = storage.StringPtr(d2t), storage.StringPtr(d2d)
	r.Detail3Title, r.Detail3Description = storage.StringPtr(d3t), storage.StringPtr(d3d)
	r.ParticipantCount = storage.IntPtr(count)
	r.UpdatedAt = storage.ParseTime(updatedAt)
	return r, nil
}

// Save inserts or updates the title section.
// PRE: r.ID is non-empty
// POST: Row is persisted
func (s *SQLiteStore) Save(ctx context.Context, r domain.Row) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO title_section_content (id, event_title, event_subtitle, image_url, image_alt,
		   detail_1_title, detail_1_description, detail_2_title, detail_2_description,
		   detail_3_title, detail_3_description, participant_count, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   event_title=excluded.event_title, event_subtitle=excluded.event_subtitle,
		   image_url=excluded.image_url, image_alt=excluded.image_alt,
		   detail_1_title=excluded.detail_1_title, detail_1_description=excluded.detail_1_description,
		   detail_2_title=excluded.detail_2_title, detail_2_description=excluded.detail_2_description,
		   detail_3_title=excluded.detail_3_title, detail_3_description=excluded.detail_3_description,
		   participant_count=excluded.participant_count, updated_at=excluded.updated_at`,
		r.ID, r.EventTitle, storage.Nullable(r.EventSubtitle), storage.Nullable(r.ImageURL), storage.Nullable(r.ImageAlt),
		storage.Nullable(r.Detail1Title), storage.Nullable(r.Detail1Description),
		storage.Nullable(r.Detail2Title), storage.Nullable(r.Detail2Description),
		storage.Nullable(r.Detail3Title), storage.Nullable(r.Detail3Description),
		storage.Nullable(r.ParticipantCount), storage.FormatTime(r.UpdatedAt))
	return err
}
