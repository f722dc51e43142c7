package steps_test

import (
	"context"
	"testing"
	"time"

	"dkl/internal/adapters/storage/steps"
	"dkl/internal/adapters/storage/storagetest"
)

func TestSQLiteStore_Increment(t *testing.T) {
	db := storagetest.Open(t)
	store := steps.NewSQLiteStore(db)
	ctx := context.Background()
	at := time.Date(2026, 5, 16, 11, 0, 0, 0, time.UTC)

	if total, err := store.Total(ctx); err != nil || total != 0 {
		t.Fatalf("Total on empty = %d, %v", total, err)
	}

	if _, _, err := store.Increment(ctx, "Anna", 1000, at); err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if _, _, err := store.Increment(ctx, "Bram", 400, at); err != nil {
		t.Fatalf("Increment: %v", err)
	}
	p, total, err := store.Increment(ctx, "Bram", 700, at)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if p.Steps != 1100 || total != 2100 {
		t.Errorf("Increment = %d steps, total %d; want 1100, 2100", p.Steps, total)
	}

	top, err := store.Top(ctx, 1)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 1 || top[0].Naam != "Bram" {
		t.Errorf("Top(1) = %+v", top)
	}
}
