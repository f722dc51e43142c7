// Package storagetest opens migrated in-memory databases for store tests.
package storagetest

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"dkl/internal/adapters/storage"
)

// Open returns a fully migrated in-memory database closed at test cleanup.
// The pool is limited to one connection so every query sees the same
// in-memory instance.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
