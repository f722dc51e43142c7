package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dkl/internal/adapters/storage"
	domain "dkl/internal/domain/registration"
)

// ErrNotFound is returned for an unknown registration ID.
var ErrNotFound = errors.New("registration not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new registration store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a registration by its ID.
// PRE: id is non-empty
// POST: Returns ErrNotFound when absent
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Registration, error) {
	var (
		r                    domain.Registration
		terms, sent          int
		sentAt               sql.NullString
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, naam, email, telefoon, rol, afstand, ondersteuning, bijzonderheden, terms, status,
		        email_verzonden, email_verzonden_op, created_at, updated_at
		 FROM aanmeldingen WHERE id = ?`, id).
		Scan(&r.ID, &r.Naam, &r.Email, &r.Telefoon, &r.Rol, &r.Afstand, &r.Ondersteuning, &r.Bijzonderheden,
			&terms, &r.Status, &sent, &sentAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Registration{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return domain.Registration{}, err
	}
	r.Terms = terms != 0
	r.EmailVerzonden = sent != 0
	r.EmailVerzondenOp = storage.TimePtr(sentAt)
	r.CreatedAt = storage.ParseTime(createdAt)
	r.UpdatedAt = storage.ParseTime(updatedAt)
	return r, nil
}

// Create inserts a registration.
// PRE: r has been parsed from a valid form
// POST: Row inserted, or domain.ErrDuplicate when the email is taken
func (s *SQLiteStore) Create(ctx context.Context, r domain.Registration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO aanmeldingen (id, naam, email, telefoon, rol, afstand, ondersteuning, bijzonderheden, terms, status,
		   email_verzonden, email_verzonden_op, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Naam, r.Email, r.Telefoon, r.Rol, r.Afstand, r.Ondersteuning, r.Bijzonderheden,
		storage.BoolInt(r.Terms), r.Status, storage.BoolInt(r.EmailVerzonden), storage.NullableTime(r.EmailVerzondenOp),
		storage.FormatTime(r.CreatedAt), storage.FormatTime(r.UpdatedAt))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrDuplicate
	}
	return err
}

// EmailExists reports whether email is already registered, ignoring case.
func (s *SQLiteStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM aanmeldingen WHERE email = ? COLLATE NOCASE`, email).Scan(&n)
	return n > 0, err
}

// MarkEmailSent records the confirmation email.
// PRE: id exists
// POST: email_verzonden = 1
func (s *SQLiteStore) MarkEmailSent(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE aanmeldingen SET email_verzonden = 1, email_verzonden_op = ?, updated_at = ? WHERE id = ?`,
		storage.FormatTime(at), storage.FormatTime(at), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Count returns the number of registrations, shown as the participant count.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM aanmeldingen`).Scan(&n)
	return n, err
}
