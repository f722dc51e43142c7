package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dkl/internal/adapters/storage"
	domain "dkl/internal/domain/contact"
)

// ErrNotFound is returned for an unknown message ID.
var ErrNotFound = errors.New("contact message not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new contact store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a message by its ID.
// PRE: id is non-empty
// POST: Returns ErrNotFound when absent
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Submission, error) {
	var (
		c                    domain.Submission
		privacy, sent        int
		sentAt               sql.NullString
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, naam, email, bericht, privacy_akkoord, status, email_verzonden, email_verzonden_op, created_at, updated_at
		 FROM contact_formulieren WHERE id = ?`, id).
		Scan(&c.ID, &c.Naam, &c.Email, &c.Bericht, &privacy, &c.Status, &sent, &sentAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Submission{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return domain.Submission{}, err
	}
	c.PrivacyAkkoord = privacy != 0
	c.EmailVerzonden = sent != 0
	c.EmailVerzondenOp = storage.TimePtr(sentAt)
	c.CreatedAt = storage.ParseTime(createdAt)
	c.UpdatedAt = storage.ParseTime(updatedAt)
	return c, nil
}

// Create inserts a new message.
// PRE: c has been parsed from a valid form
// POST: Row inserted; a duplicate ID is an error
func (s *SQLiteStore) Create(ctx context.Context, c domain.Submission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_formulieren (id, naam, email, bericht, privacy_akkoord, status, email_verzonden, email_verzonden_op, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Naam, c.Email, c.Bericht, storage.BoolInt(c.PrivacyAkkoord), c.Status,
		storage.BoolInt(c.EmailVerzonden), storage.NullableTime(c.EmailVerzondenOp),
		storage.FormatTime(c.CreatedAt), storage.FormatTime(c.UpdatedAt))
	return err
}

// MarkEmailSent records the confirmation email.
// PRE: id exists
// POST: email_verzonden = 1
func (s *SQLiteStore) MarkEmailSent(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contact_formulieren SET email_verzonden = 1, email_verzonden_op = ?, updated_at = ? WHERE id = ?`,
		storage.FormatTime(at), storage.FormatTime(at), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
