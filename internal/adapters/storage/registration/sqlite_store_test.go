package registration_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dkl/internal/adapters/storage/registration"
	"dkl/internal/adapters/storage/storagetest"
	domain "dkl/internal/domain/registration"
)

func TestSQLiteStore_CreateAndMark(t *testing.T) {
	db := storagetest.Open(t)
	store := registration.NewSQLiteStore(db)
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	r := domain.Registration{
		ID: "r1", Naam: "Anna", Email: "anna@example.nl", Rol: domain.RolDeelnemer, Afstand: "6 KM",
		Ondersteuning: domain.OndersteuningNee, Terms: true, Status: domain.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	if err := store.Create(ctx, r); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := r
	dup.ID, dup.Email = "r2", "Anna@Example.nl"
	if err := store.Create(ctx, dup); !errors.Is(err, domain.ErrDuplicate) {
		t.Errorf("duplicate Create = %v, want ErrDuplicate", err)
	}
	if ok, err := store.EmailExists(ctx, "ANNA@example.nl"); err != nil || !ok {
		t.Errorf("EmailExists = %v, %v", ok, err)
	}

	sentAt := now.Add(time.Second)
	if err := store.MarkEmailSent(ctx, "r1", sentAt); err != nil {
		t.Fatalf("MarkEmailSent: %v", err)
	}
	got, err := store.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.EmailVerzonden || got.EmailVerzondenOp == nil || !got.EmailVerzondenOp.Equal(sentAt) {
		t.Errorf("after MarkEmailSent: %+v", got)
	}
	if got.Status != domain.StatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}

	if err := store.MarkEmailSent(ctx, "missing", sentAt); !errors.Is(err, registration.ErrNotFound) {
		t.Errorf("MarkEmailSent(missing) = %v, want ErrNotFound", err)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}
